package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A sphere shape.
type B3SphereShape struct {
	B3Shape
	/// Position
	M_p mgl64.Vec3
}

func MakeB3SphereShape() B3SphereShape {
	return B3SphereShape{
		B3Shape: B3Shape{
			M_type:   B3Shape_Type.E_sphere,
			M_radius: 0.0,
		},
		M_p: B3Vec3_zero,
	}
}

func NewB3SphereShape() *B3SphereShape {
	res := MakeB3SphereShape()
	return &res
}

func NewB3SphereShapeWithRadius(radius float64) *B3SphereShape {
	B3Assert(radius > 0.0)
	res := MakeB3SphereShape()
	res.M_radius = radius
	return &res
}

///////////////////////////////////////////////////////////////////////////////

func (shape B3SphereShape) Clone() B3ShapeInterface {
	clone := NewB3SphereShape()
	clone.M_radius = shape.M_radius
	clone.M_p = shape.M_p
	return clone
}

func (shape B3SphereShape) GetChildCount() int {
	return 1
}

func (shape B3SphereShape) ComputeAABB(aabb *B3AABB, transform B3Transform) {
	p := B3TransformVec3Mul(transform, shape.M_p)
	r := mgl64.Vec3{shape.M_radius, shape.M_radius, shape.M_radius}
	aabb.LowerBound = p.Sub(r)
	aabb.UpperBound = p.Add(r)
}

func (shape B3SphereShape) GetMinimumRadius() float64 {
	return math.Max(0.0, shape.M_radius-shape.M_p.Len())
}

func (shape B3SphereShape) GetMaximumRadius() float64 {
	return shape.M_radius + shape.M_p.Len()
}
