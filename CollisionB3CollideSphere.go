package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Sphere contacts carry a single point; a fixed id keeps the warm start
// alive while the point slides over the other shape.
var b3SphereContactID = B3ContactID{
	TypeA: B3ContactFeature_Type.E_vertex,
	TypeB: B3ContactFeature_Type.E_vertex,
}

/// Compute the collision manifold between two spheres.
/// Concentric spheres have no usable normal and report no contact.
func B3CollideSpheres(manifold *B3RawManifold, sphereA *B3SphereShape, xfA B3Transform, sphereB *B3SphereShape, xfB B3Transform, margin float64) {
	manifold.PointCount = 0

	pA := B3TransformVec3Mul(xfA, sphereA.M_p)
	pB := B3TransformVec3Mul(xfB, sphereB.M_p)

	rA, rB := sphereA.M_radius, sphereB.M_radius
	normal, distance, ok := B3Vec3Normalize(pB.Sub(pA))
	if !ok {
		return
	}

	separation := distance - rA - rB
	if separation > margin {
		return
	}

	cA := pA.Add(normal.Mul(rA))
	cB := pB.Sub(normal.Mul(rB))

	manifold.Normal = normal
	manifold.AddPoint(cA.Add(cB).Mul(0.5), normal, -separation, b3SphereContactID)
}

/// Compute the collision manifold between a polyhedron and a sphere.
func B3CollidePolyhedronAndSphere(manifold *B3RawManifold, polyA *B3PolyhedronShape, xfA B3Transform, sphereB *B3SphereShape, xfB B3Transform, margin float64) {
	manifold.PointCount = 0

	if len(polyA.M_faces) == 0 {
		return
	}

	// Compute the sphere center in the frame of the polyhedron.
	c := B3TransformVec3MulT(xfA, B3TransformVec3Mul(xfB, sphereB.M_p))

	rA := polyA.M_radius
	rB := sphereB.M_radius
	radius := rA + rB

	input := MakeB3DistanceInput()
	input.ProxyA.Set(polyA)
	input.ProxyB.SetVertices([]mgl64.Vec3{c}, 0.0)
	cache := MakeB3SimplexCache()
	output := B3DistanceOutput{}
	B3Distance(&output, &cache, &input)

	var normal mgl64.Vec3
	var surfaceA mgl64.Vec3
	var separation float64

	if unit, distance, ok := B3Vec3Normalize(c.Sub(output.PointA)); ok && output.Distance > 10.0*B3_epsilon {
		// Center outside the core: closest feature from GJK.
		separation = distance - radius
		if separation > margin {
			return
		}
		normal = unit
		surfaceA = output.PointA.Add(normal.Mul(rA))
	} else {
		// Center inside the core: push out through the face of least
		// penetration.
		best := 0
		bestSeparation := -B3_maxFloat
		for i, face := range polyA.M_faces {
			s := face.Normal.Dot(c) - face.Offset
			if s > bestSeparation {
				best = i
				bestSeparation = s
			}
		}
		normal = polyA.M_faces[best].Normal
		separation = bestSeparation - radius
		if separation > margin {
			return
		}
		surfaceA = c.Sub(normal.Mul(bestSeparation)).Add(normal.Mul(rA))
	}

	surfaceB := c.Sub(normal.Mul(rB))
	point := B3TransformVec3Mul(xfA, surfaceA.Add(surfaceB).Mul(0.5))
	worldNormal := B3RotVec3Mul(xfA.Q, normal)

	manifold.Normal = worldNormal
	manifold.AddPoint(point, worldNormal, -separation, b3SphereContactID)
}

/// Run the narrow-phase test for any two convex shapes. The manifold
/// normal always points from A to B.
func B3CollideConvex(manifold *B3RawManifold, shapeA B3ShapeInterface, xfA B3Transform, shapeB B3ShapeInterface, xfB B3Transform, margin float64) {
	typeA := shapeA.GetType()
	typeB := shapeB.GetType()

	switch {
	case typeA == B3Shape_Type.E_sphere && typeB == B3Shape_Type.E_sphere:
		B3CollideSpheres(manifold, shapeA.(*B3SphereShape), xfA, shapeB.(*B3SphereShape), xfB, margin)

	case typeA == B3Shape_Type.E_polyhedron && typeB == B3Shape_Type.E_sphere:
		B3CollidePolyhedronAndSphere(manifold, shapeA.(*B3PolyhedronShape), xfA, shapeB.(*B3SphereShape), xfB, margin)

	case typeA == B3Shape_Type.E_sphere && typeB == B3Shape_Type.E_polyhedron:
		B3CollidePolyhedronAndSphere(manifold, shapeB.(*B3PolyhedronShape), xfB, shapeA.(*B3SphereShape), xfA, margin)
		manifold.Flip()

	case typeA == B3Shape_Type.E_polyhedron && typeB == B3Shape_Type.E_polyhedron:
		B3CollidePolyhedrons(manifold, shapeA.(*B3PolyhedronShape), xfA, shapeB.(*B3PolyhedronShape), xfB, margin)

	default:
		B3Assertf(false, "no convex test for %s and %s", B3ShapeTypeName(typeA), B3ShapeTypeName(typeB))
	}
}
