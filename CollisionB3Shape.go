package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

/// A shape is used for collision detection. You can create a shape however you like.
/// Shapes used by a B3World are attached to collidables. Compound shapes
/// hold convex children; terrain and mesh shapes are static triangle sources.

var B3Shape_Type = struct {
	E_sphere     uint8
	E_polyhedron uint8
	E_compound   uint8
	E_terrain    uint8
	E_mesh       uint8
	E_typeCount  uint8
}{
	E_sphere:     0,
	E_polyhedron: 1,
	E_compound:   2,
	E_terrain:    3,
	E_mesh:       4,
	E_typeCount:  5,
}

func B3ShapeTypeName(shapeType uint8) string {
	switch shapeType {
	case B3Shape_Type.E_sphere:
		return "sphere"
	case B3Shape_Type.E_polyhedron:
		return "polyhedron"
	case B3Shape_Type.E_compound:
		return "compound"
	case B3Shape_Type.E_terrain:
		return "terrain"
	case B3Shape_Type.E_mesh:
		return "mesh"
	}
	return "unknown"
}

type B3ShapeInterface interface {
	/// Clone the concrete shape.
	Clone() B3ShapeInterface

	/// Get the type of this shape. You can use this to down cast to the concrete shape.
	/// @return the shape type.
	GetType() uint8

	/// Get the skin radius of this shape.
	GetRadius() float64

	/// Get the number of child primitives.
	GetChildCount() int

	/// Given a transform, compute the associated axis aligned bounding box.
	/// @param aabb returns the axis aligned box.
	/// @param xf the world transform of the shape.
	ComputeAABB(aabb *B3AABB, xf B3Transform)

	/// The distance from the shape origin to the closest point of its
	/// surface. A collidable cannot tunnel through anything while it
	/// moves less than this per step.
	GetMinimumRadius() float64

	/// The distance from the shape origin to the farthest point of its
	/// surface. Bounds the speed of any surface point under rotation.
	GetMaximumRadius() float64
}

// Convex shapes can be fed to GJK and the convex narrow-phase tests.
func B3IsConvexShapeType(shapeType uint8) bool {
	return shapeType == B3Shape_Type.E_sphere || shapeType == B3Shape_Type.E_polyhedron
}

type B3Shape struct {
	M_type uint8

	/// Radius of a shape. Spheres use it as their radius; polyhedra use it
	/// as a rounding skin (usually zero).
	M_radius float64
}

func (shape B3Shape) GetType() uint8 {
	return shape.M_type
}

func (shape B3Shape) GetRadius() float64 {
	return shape.M_radius
}

func (shape *B3Shape) SetRadius(r float64) {
	shape.M_radius = r
}

///////////////////////////////////////////////////////////////////////////////
// Triangle sources
///////////////////////////////////////////////////////////////////////////////

/// A triangle fetched from a terrain or mesh, in the source's local frame.
type B3Triangle struct {
	Vertices [3]mgl64.Vec3
	Index    int
}

/// Scratch storage for triangle queries. Buffers are handed out by a
/// B3Pool and stay checked out while M_inUse is set.
type B3TriangleBuffer struct {
	Triangles []B3Triangle
	M_inUse   bool
}

func NewB3TriangleBuffer() *B3TriangleBuffer {
	return &B3TriangleBuffer{
		Triangles: make([]B3Triangle, 0, 32),
	}
}

func (buffer *B3TriangleBuffer) Begin() {
	buffer.Triangles = buffer.Triangles[:0]
	buffer.M_inUse = true
}

func (buffer *B3TriangleBuffer) End() {
	buffer.Triangles = buffer.Triangles[:0]
	buffer.M_inUse = false
}

func (buffer *B3TriangleBuffer) IsValid() bool {
	return buffer.M_inUse
}

/// Shapes made of static triangles: terrain height fields and meshes.
type B3TriangleSourceInterface interface {
	B3ShapeInterface

	/// Append every triangle whose bounds overlap the local box.
	QueryTriangles(buffer *B3TriangleBuffer, localAABB B3AABB)

	GetTriangle(index int) B3Triangle
}

func B3IsTriangleSourceType(shapeType uint8) bool {
	return shapeType == B3Shape_Type.E_terrain || shapeType == B3Shape_Type.E_mesh
}
