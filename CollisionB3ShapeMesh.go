package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A static triangle soup. Triangles are indexed by a dynamic AABB tree so
/// queries only touch the triangles near the other collidable.
type B3MeshShape struct {
	B3Shape

	M_vertices []mgl64.Vec3
	M_indices  [][3]int
	M_tree     B3DynamicTree
	M_bounds   B3AABB
}

func NewB3MeshShape(vertices []mgl64.Vec3, indices [][3]int) *B3MeshShape {
	B3Assert(len(vertices) >= 3)
	B3Assert(len(indices) >= 1)

	mesh := &B3MeshShape{
		B3Shape: B3Shape{
			M_type:   B3Shape_Type.E_mesh,
			M_radius: 0.0,
		},
		M_vertices: append([]mgl64.Vec3(nil), vertices...),
		M_indices:  append([][3]int(nil), indices...),
		M_tree:     MakeB3DynamicTree(),
	}

	mesh.M_bounds = MakeB3AABBFromPoints(mesh.M_vertices...)
	for i := range mesh.M_indices {
		triangle := mesh.GetTriangle(i)
		mesh.M_tree.CreateProxy(MakeB3AABBFromPoints(triangle.Vertices[:]...), i)
	}

	return mesh
}

func (mesh B3MeshShape) Clone() B3ShapeInterface {
	return NewB3MeshShape(mesh.M_vertices, mesh.M_indices)
}

func (mesh B3MeshShape) GetChildCount() int {
	return len(mesh.M_indices)
}

func (mesh B3MeshShape) ComputeAABB(aabb *B3AABB, xf B3Transform) {
	*aabb = mesh.M_bounds.Transformed(xf)
}

func (mesh B3MeshShape) GetMinimumRadius() float64 {
	return 0.0
}

func (mesh B3MeshShape) GetMaximumRadius() float64 {
	maximum := 0.0
	for _, v := range mesh.M_vertices {
		maximum = math.Max(maximum, v.Len())
	}
	return maximum
}

func (mesh B3MeshShape) GetTriangle(index int) B3Triangle {
	B3Assert(0 <= index && index < len(mesh.M_indices))
	tri := mesh.M_indices[index]
	return B3Triangle{
		Vertices: [3]mgl64.Vec3{
			mesh.M_vertices[tri[0]],
			mesh.M_vertices[tri[1]],
			mesh.M_vertices[tri[2]],
		},
		Index: index,
	}
}

func (mesh *B3MeshShape) QueryTriangles(buffer *B3TriangleBuffer, localAABB B3AABB) {
	mesh.M_tree.Query(func(nodeId int) bool {
		index := mesh.M_tree.GetUserData(nodeId).(int)
		triangle := mesh.GetTriangle(index)
		if B3TestOverlapBoundingBoxes(MakeB3AABBFromPoints(triangle.Vertices[:]...), localAABB) {
			buffer.Triangles = append(buffer.Triangles, triangle)
		}
		return true
	}, localAABB)
}
