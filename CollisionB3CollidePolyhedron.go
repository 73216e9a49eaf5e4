package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const b3MaxClipVertices = 2*B3_maxFaceVertices + 2

// Prefer a face axis unless an edge axis separates by clearly more.
const b3AxisTolerance = 0.1 * B3_linearSlop

// Support vertex of poly, transformed by xf, along d given in the frame
// xf maps into.
func b3TransformedSupport(poly *B3PolyhedronShape, xf B3Transform, d mgl64.Vec3) (int, mgl64.Vec3) {
	index := poly.GetSupport(B3RotVec3MulT(xf.Q, d))
	return index, B3TransformVec3Mul(xf, poly.M_vertices[index])
}

// Find the max separation between poly1 and poly2 using face normals from
// poly1. xf maps poly2 into the frame of poly1.
func b3FindMaxFaceSeparation(poly1 *B3PolyhedronShape, poly2 *B3PolyhedronShape, xf B3Transform) (int, float64) {
	bestIndex := 0
	maxSeparation := -B3_maxFloat
	for i, face := range poly1.M_faces {
		_, v := b3TransformedSupport(poly2, xf, face.Normal.Mul(-1))
		s := face.Normal.Dot(v) - face.Offset
		if s > maxSeparation {
			maxSeparation = s
			bestIndex = i
		}
	}
	return bestIndex, maxSeparation
}

type b3EdgeQuery struct {
	separation   float64 // best separation over all edge axes
	supported    bool
	supportedSep float64 // separation of the best axis realised by its own edges
	edgeA, edgeB int
	axis         mgl64.Vec3
}

// Edge-edge axes in the frame of polyA. Every axis bounds the separation,
// but only an axis whose two edges are the supporting features can make an
// edge contact.
func b3FindEdgeSeparation(polyA *B3PolyhedronShape, polyB *B3PolyhedronShape, xf B3Transform) b3EdgeQuery {
	query := b3EdgeQuery{
		separation:   -B3_maxFloat,
		supportedSep: -B3_maxFloat,
	}

	for i, edgeA := range polyA.M_edges {
		a0 := polyA.M_vertices[edgeA[0]]
		a1 := polyA.M_vertices[edgeA[1]]
		dirA := a1.Sub(a0)

		for j, edgeB := range polyB.M_edges {
			b0 := B3TransformVec3Mul(xf, polyB.M_vertices[edgeB[0]])
			b1 := B3TransformVec3Mul(xf, polyB.M_vertices[edgeB[1]])
			dirB := b1.Sub(b0)

			axis := dirA.Cross(dirB)
			if axis.LenSqr() < B3_degenerateLengthSquared*dirA.LenSqr()*dirB.LenSqr() {
				// Parallel edges are covered by the face axes.
				continue
			}
			axis, _, ok := B3Vec3Normalize(axis)
			if !ok {
				continue
			}

			// Point the axis away from A.
			if axis.Dot(a0.Sub(polyA.M_centroid)) < 0.0 {
				axis = axis.Mul(-1)
			}

			maxA := polyA.M_vertices[polyA.GetSupport(axis)].Dot(axis)
			_, vB := b3TransformedSupport(polyB, xf, axis.Mul(-1))
			minB := vB.Dot(axis)
			s := minB - maxA

			if s > query.separation {
				query.separation = s
			}

			// Are these edges the supporting features along the axis?
			if math.Abs(a0.Dot(axis)-maxA) > B3_linearSlop || math.Abs(b0.Dot(axis)-minB) > B3_linearSlop {
				continue
			}

			if s > query.supportedSep {
				query.supported = true
				query.supportedSep = s
				query.edgeA = i
				query.edgeB = j
				query.axis = axis
			}
		}
	}

	return query
}

// Closest points of segments p1-q1 and p2-q2. Real-Time Collision
// Detection, 5.1.9, with zero length segments handled as points.
func b3ClosestPointsSegments(p1, q1, p2, q2 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= B3_epsilon && e <= B3_epsilon:
		return p1, p2

	case a <= B3_epsilon:
		s = 0.0
		t = B3FloatClamp(f/e, 0.0, 1.0)

	default:
		c := d1.Dot(r)
		if e <= B3_epsilon {
			t = 0.0
			s = B3FloatClamp(-c/a, 0.0, 1.0)
			break
		}

		b := d1.Dot(d2)
		denom := a*e - b*b
		if denom > B3_epsilon*a*e {
			s = B3FloatClamp((b*f-c*e)/denom, 0.0, 1.0)
		}

		t = (b*s + f) / e
		if t < 0.0 {
			t = 0.0
			s = B3FloatClamp(-c/a, 0.0, 1.0)
		} else if t > 1.0 {
			t = 1.0
			s = B3FloatClamp((b-c)/a, 0.0, 1.0)
		}
	}

	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

// Clip the incident face of inc against the side planes of the reference
// face of ref. Works in the frame of ref; xf maps inc into it and xfWorld
// maps ref into world space.
func b3CollideFaces(manifold *B3RawManifold, ref *B3PolyhedronShape, refFaceIndex int, inc *B3PolyhedronShape, xf B3Transform, xfWorld B3Transform, margin float64) {
	refFace := &ref.M_faces[refFaceIndex]
	nRef := refFace.Normal

	// Find the incident face on inc: the most anti-parallel to nRef.
	incFaceIndex := 0
	minDot := B3_maxFloat
	for i, face := range inc.M_faces {
		d := B3RotVec3Mul(xf.Q, face.Normal).Dot(nRef)
		if d < minDot {
			minDot = d
			incFaceIndex = i
		}
	}
	incFace := &inc.M_faces[incFaceIndex]

	var buffer1, buffer2 [b3MaxClipVertices]B3ClipVertex
	count := len(incFace.Vertices)
	for i, vertexIndex := range incFace.Vertices {
		buffer1[i] = B3ClipVertex{
			V: B3TransformVec3Mul(xf, inc.M_vertices[vertexIndex]),
			Id: B3ContactID{
				IndexA: uint8(refFaceIndex),
				IndexB: uint8(vertexIndex),
				TypeA:  B3ContactFeature_Type.E_face,
				TypeB:  B3ContactFeature_Type.E_vertex,
			},
			Forward: uint8(vertexIndex),
		}
	}

	// Clip against every side plane of the reference face.
	in := buffer1[:count]
	out := buffer2[:]
	refCount := len(refFace.Vertices)
	for i := 0; i < refCount && count > 0; i++ {
		v1 := ref.M_vertices[refFace.Vertices[i]]
		v2 := ref.M_vertices[refFace.Vertices[(i+1)%refCount]]
		sideNormal, _, ok := B3Vec3Normalize(v2.Sub(v1).Cross(nRef))
		if !ok {
			continue
		}
		count = B3ClipPolygonToPlane(out, in, sideNormal, sideNormal.Dot(v1), refFace.Vertices[i])
		in, out = out[:count], in[:cap(in)]
	}

	rRef := ref.M_radius
	rInc := inc.M_radius
	totalRadius := rRef + rInc
	worldNormal := B3RotVec3Mul(xfWorld.Q, nRef)
	manifold.Normal = worldNormal

	for i := 0; i < count; i++ {
		v := in[i].V
		s := nRef.Dot(v) - refFace.Offset
		separation := s - totalRadius
		if separation > margin {
			continue
		}

		// Midway between the two rounded surfaces.
		surfaceInc := v.Sub(nRef.Mul(rInc))
		surfaceRef := v.Sub(nRef.Mul(s - rRef))
		point := B3TransformVec3Mul(xfWorld, surfaceInc.Add(surfaceRef).Mul(0.5))
		manifold.AddPoint(point, worldNormal, -separation, in[i].Id)
	}
}

/// Compute the collision manifold between two convex polyhedra with the
/// separating axis test. Face axes of both shapes and edge-edge axes are
/// tried. A face axis produces up to one point per clipped incident
/// vertex; an edge axis produces the single closest point of the two edges.
/// Polyhedra without faces are degenerate and never touch.
func B3CollidePolyhedrons(manifold *B3RawManifold, polyA *B3PolyhedronShape, xfA B3Transform, polyB *B3PolyhedronShape, xfB B3Transform, margin float64) {
	manifold.PointCount = 0

	if len(polyA.M_faces) == 0 || len(polyB.M_faces) == 0 {
		return
	}

	totalRadius := polyA.M_radius + polyB.M_radius
	limit := margin + totalRadius

	xfBA := B3TransformMulT(xfA, xfB)
	xfAB := B3TransformMulT(xfB, xfA)

	faceA, separationA := b3FindMaxFaceSeparation(polyA, polyB, xfBA)
	if separationA > limit {
		return
	}

	faceB, separationB := b3FindMaxFaceSeparation(polyB, polyA, xfAB)
	if separationB > limit {
		return
	}

	edges := b3FindEdgeSeparation(polyA, polyB, xfBA)
	if edges.separation > limit {
		return
	}

	faceSeparation := math.Max(separationA, separationB)
	if edges.supported && edges.supportedSep > faceSeparation+b3AxisTolerance {
		edgeA := polyA.M_edges[edges.edgeA]
		edgeB := polyB.M_edges[edges.edgeB]
		cA, cB := b3ClosestPointsSegments(
			polyA.M_vertices[edgeA[0]], polyA.M_vertices[edgeA[1]],
			B3TransformVec3Mul(xfBA, polyB.M_vertices[edgeB[0]]), B3TransformVec3Mul(xfBA, polyB.M_vertices[edgeB[1]]),
		)

		normal := edges.axis
		separation := edges.supportedSep - totalRadius
		surfaceA := cA.Add(normal.Mul(polyA.M_radius))
		surfaceB := cB.Sub(normal.Mul(polyB.M_radius))

		worldNormal := B3RotVec3Mul(xfA.Q, normal)
		manifold.Normal = worldNormal
		manifold.AddPoint(
			B3TransformVec3Mul(xfA, surfaceA.Add(surfaceB).Mul(0.5)),
			worldNormal,
			-separation,
			B3ContactID{
				IndexA: uint8(edges.edgeA),
				IndexB: uint8(edges.edgeB),
				TypeA:  B3ContactFeature_Type.E_edge,
				TypeB:  B3ContactFeature_Type.E_edge,
			},
		)
		return
	}

	if separationB > separationA+b3AxisTolerance {
		b3CollideFaces(manifold, polyB, faceB, polyA, xfAB, xfB, margin)
		manifold.Flip()
		return
	}

	b3CollideFaces(manifold, polyA, faceA, polyB, xfBA, xfA, margin)
}
