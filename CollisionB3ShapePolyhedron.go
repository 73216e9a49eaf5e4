package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A face of a convex polyhedron. The vertex loop is counter clockwise
/// when seen from outside, so Normal points out of the solid.
type B3PolyhedronFace struct {
	Vertices []int
	Normal   mgl64.Vec3

	/// Plane offset: Normal·x == Offset on the face.
	Offset float64
}

/// A convex polyhedron given by its vertices and faces. Boxes, convex hulls
/// and single triangles (as a two sided flat polyhedron) share this shape.
/// Feature indices are stored in contact ids as bytes, so a polyhedron has
/// at most B3_maxPolyhedronVertices vertices, faces and edges.
type B3PolyhedronShape struct {
	B3Shape

	M_centroid mgl64.Vec3
	M_vertices []mgl64.Vec3
	M_faces    []B3PolyhedronFace
	M_edges    [][2]int
}

func MakeB3PolyhedronShape() B3PolyhedronShape {
	return B3PolyhedronShape{
		B3Shape: B3Shape{
			M_type:   B3Shape_Type.E_polyhedron,
			M_radius: 0.0,
		},
		M_centroid: B3Vec3_zero,
	}
}

func NewB3PolyhedronShape() *B3PolyhedronShape {
	res := MakeB3PolyhedronShape()
	return &res
}

/// Build a box centered on the origin with the given half extents.
func NewB3BoxShape(halfExtents mgl64.Vec3) *B3PolyhedronShape {
	res := NewB3PolyhedronShape()
	res.SetAsBox(halfExtents[0], halfExtents[1], halfExtents[2])
	return res
}

func NewB3TriangleShape(a, b, c mgl64.Vec3) *B3PolyhedronShape {
	res := NewB3PolyhedronShape()
	res.SetAsTriangle(a, b, c)
	return res
}

func (poly *B3PolyhedronShape) GetVertex(index int) mgl64.Vec3 {
	B3Assert(0 <= index && index < len(poly.M_vertices))
	return poly.M_vertices[index]
}

func (poly B3PolyhedronShape) GetVertexCount() int {
	return len(poly.M_vertices)
}

func (poly B3PolyhedronShape) GetFaceCount() int {
	return len(poly.M_faces)
}

func (poly B3PolyhedronShape) GetEdgeCount() int {
	return len(poly.M_edges)
}

///////////////////////////////////////////////////////////////////////////////

func (poly B3PolyhedronShape) Clone() B3ShapeInterface {
	clone := NewB3PolyhedronShape()
	clone.M_radius = poly.M_radius
	clone.M_centroid = poly.M_centroid
	clone.M_vertices = append([]mgl64.Vec3(nil), poly.M_vertices...)
	clone.M_edges = append([][2]int(nil), poly.M_edges...)
	clone.M_faces = make([]B3PolyhedronFace, len(poly.M_faces))
	for i, face := range poly.M_faces {
		clone.M_faces[i] = B3PolyhedronFace{
			Vertices: append([]int(nil), face.Vertices...),
			Normal:   face.Normal,
			Offset:   face.Offset,
		}
	}
	return clone
}

func (poly *B3PolyhedronShape) SetAsBox(hx, hy, hz float64) {
	B3Assert(hx > 0.0 && hy > 0.0 && hz > 0.0)

	// Vertex i has +x when bit 0 is set, +y for bit 1 and +z for bit 2.
	vertices := make([]mgl64.Vec3, 8)
	for i := 0; i < 8; i++ {
		v := mgl64.Vec3{-hx, -hy, -hz}
		if i&1 != 0 {
			v[0] = hx
		}
		if i&2 != 0 {
			v[1] = hy
		}
		if i&4 != 0 {
			v[2] = hz
		}
		vertices[i] = v
	}

	faces := [][]int{
		{0, 4, 6, 2}, // -x
		{1, 3, 7, 5}, // +x
		{0, 1, 5, 4}, // -y
		{2, 6, 7, 3}, // +y
		{0, 2, 3, 1}, // -z
		{4, 5, 7, 6}, // +z
	}

	poly.Set(vertices, faces)
}

/// Build an oriented box.
/// @param halfExtents the half-widths along the local axes.
/// @param center the center of the box in local coordinates.
/// @param rotation the rotation of the box in local coordinates.
func (poly *B3PolyhedronShape) SetAsBoxFromCenterAndRotation(halfExtents mgl64.Vec3, center mgl64.Vec3, rotation mgl64.Quat) {
	poly.SetAsBox(halfExtents[0], halfExtents[1], halfExtents[2])

	xf := MakeB3TransformByPositionAndRotation(center, rotation)
	for i := range poly.M_vertices {
		poly.M_vertices[i] = B3TransformVec3Mul(xf, poly.M_vertices[i])
	}
	poly.computeFaces()
}

/// A flat two sided triangle. Face 0 has the normal (b-a)x(c-a), face 1 the
/// opposite one. A triangle with no area keeps its edges but has no faces,
/// which the narrow phase reads as "no contact".
func (poly *B3PolyhedronShape) SetAsTriangle(a, b, c mgl64.Vec3) {
	if cap(poly.M_vertices) >= 3 {
		poly.M_vertices = poly.M_vertices[:3]
	} else {
		poly.M_vertices = make([]mgl64.Vec3, 3)
	}
	poly.M_vertices[0] = a
	poly.M_vertices[1] = b
	poly.M_vertices[2] = c
	poly.M_centroid = a.Add(b).Add(c).Mul(1.0 / 3.0)

	if cap(poly.M_edges) >= 3 {
		poly.M_edges = poly.M_edges[:3]
	} else {
		poly.M_edges = make([][2]int, 3)
	}
	poly.M_edges[0] = [2]int{0, 1}
	poly.M_edges[1] = [2]int{1, 2}
	poly.M_edges[2] = [2]int{2, 0}

	poly.M_faces = poly.M_faces[:0]
	normal, _, ok := B3Vec3Normalize(b.Sub(a).Cross(c.Sub(a)))
	if !ok {
		return
	}
	if cap(poly.M_faces) < 2 {
		poly.M_faces = make([]B3PolyhedronFace, 0, 2)
	}
	poly.M_faces = append(poly.M_faces,
		B3PolyhedronFace{Vertices: []int{0, 1, 2}, Normal: normal, Offset: normal.Dot(a)},
		B3PolyhedronFace{Vertices: []int{0, 2, 1}, Normal: normal.Mul(-1), Offset: -normal.Dot(a)},
	)
}

/// Set the polyhedron from vertices and face loops. Face loops are
/// reoriented when needed so every normal points away from the centroid.
/// The caller guarantees convexity; see IsConvex.
func (poly *B3PolyhedronShape) Set(vertices []mgl64.Vec3, faces [][]int) {
	B3Assert(len(vertices) >= 3 && len(vertices) <= B3_maxPolyhedronVertices)
	B3Assert(len(faces) <= B3_maxPolyhedronVertices)

	poly.M_vertices = append(poly.M_vertices[:0], vertices...)

	poly.M_faces = poly.M_faces[:0]
	for _, loop := range faces {
		B3Assert(len(loop) >= 3 && len(loop) <= B3_maxFaceVertices)
		for _, index := range loop {
			B3Assert(0 <= index && index < len(vertices))
		}
		poly.M_faces = append(poly.M_faces, B3PolyhedronFace{
			Vertices: append([]int(nil), loop...),
		})
	}

	poly.computeFaces()

	// Unique edges from the face loops.
	poly.M_edges = poly.M_edges[:0]
	seen := make(map[[2]int]bool)
	for _, face := range poly.M_faces {
		count := len(face.Vertices)
		for i := 0; i < count; i++ {
			i1 := face.Vertices[i]
			i2 := face.Vertices[(i+1)%count]
			key := [2]int{i1, i2}
			if i2 < i1 {
				key = [2]int{i2, i1}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			poly.M_edges = append(poly.M_edges, key)
		}
	}
	B3Assert(len(poly.M_edges) <= B3_maxPolyhedronVertices)
}

// Newell normals, outward orientation and plane offsets.
func (poly *B3PolyhedronShape) computeFaces() {
	centroid := B3Vec3_zero
	for _, v := range poly.M_vertices {
		centroid = centroid.Add(v)
	}
	poly.M_centroid = centroid.Mul(1.0 / float64(len(poly.M_vertices)))

	kept := poly.M_faces[:0]
	for _, face := range poly.M_faces {
		normal := B3Vec3_zero
		center := B3Vec3_zero
		count := len(face.Vertices)
		for i := 0; i < count; i++ {
			v1 := poly.M_vertices[face.Vertices[i]]
			v2 := poly.M_vertices[face.Vertices[(i+1)%count]]
			normal[0] += (v1[1] - v2[1]) * (v1[2] + v2[2])
			normal[1] += (v1[2] - v2[2]) * (v1[0] + v2[0])
			normal[2] += (v1[0] - v2[0]) * (v1[1] + v2[1])
			center = center.Add(v1)
		}
		center = center.Mul(1.0 / float64(count))

		unit, _, ok := B3Vec3Normalize(normal)
		if !ok {
			continue
		}

		if unit.Dot(center.Sub(poly.M_centroid)) < -B3_epsilon {
			for i, j := 0, count-1; i < j; i, j = i+1, j-1 {
				face.Vertices[i], face.Vertices[j] = face.Vertices[j], face.Vertices[i]
			}
			unit = unit.Mul(-1)
		}

		face.Normal = unit
		face.Offset = unit.Dot(poly.M_vertices[face.Vertices[0]])
		kept = append(kept, face)
	}
	poly.M_faces = kept
}

/// Check that every vertex lies behind every face plane.
func (poly B3PolyhedronShape) IsConvex() bool {
	for _, face := range poly.M_faces {
		for _, v := range poly.M_vertices {
			if face.Normal.Dot(v)-face.Offset > B3_linearSlop {
				return false
			}
		}
	}
	return true
}

func (poly B3PolyhedronShape) GetChildCount() int {
	return 1
}

/// Get the index of the vertex furthest along d (local frame).
func (poly B3PolyhedronShape) GetSupport(d mgl64.Vec3) int {
	bestIndex := 0
	bestValue := poly.M_vertices[0].Dot(d)
	for i := 1; i < len(poly.M_vertices); i++ {
		value := poly.M_vertices[i].Dot(d)
		if value > bestValue {
			bestIndex = i
			bestValue = value
		}
	}
	return bestIndex
}

func (poly B3PolyhedronShape) ComputeAABB(aabb *B3AABB, xf B3Transform) {
	lower := B3TransformVec3Mul(xf, poly.M_vertices[0])
	upper := lower

	for i := 1; i < len(poly.M_vertices); i++ {
		v := B3TransformVec3Mul(xf, poly.M_vertices[i])
		lower = B3Vec3Min(lower, v)
		upper = B3Vec3Max(upper, v)
	}

	r := mgl64.Vec3{poly.M_radius, poly.M_radius, poly.M_radius}
	aabb.LowerBound = lower.Sub(r)
	aabb.UpperBound = upper.Add(r)
}

func (poly B3PolyhedronShape) GetMinimumRadius() float64 {
	if len(poly.M_faces) == 0 {
		return poly.M_radius
	}
	minimum := B3_maxFloat
	for _, face := range poly.M_faces {
		minimum = math.Min(minimum, face.Offset)
	}
	return math.Max(0.0, minimum) + poly.M_radius
}

func (poly B3PolyhedronShape) GetMaximumRadius() float64 {
	maximum := 0.0
	for _, v := range poly.M_vertices {
		maximum = math.Max(maximum, v.Len())
	}
	return maximum + poly.M_radius
}
