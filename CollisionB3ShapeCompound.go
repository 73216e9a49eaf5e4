package box3d

import (
	"math"
)

/// A convex child placed inside a compound.
type B3CompoundChild struct {
	Shape     B3ShapeInterface
	Transform B3Transform
}

/// A rigid assembly of convex shapes. Children are addressed by index and
/// each child pair gets its own manifold.
type B3CompoundShape struct {
	B3Shape
	M_children []B3CompoundChild
}

func MakeB3CompoundShape() B3CompoundShape {
	return B3CompoundShape{
		B3Shape: B3Shape{
			M_type:   B3Shape_Type.E_compound,
			M_radius: 0.0,
		},
	}
}

func NewB3CompoundShape() *B3CompoundShape {
	res := MakeB3CompoundShape()
	return &res
}

/// Add a convex child. Nested compounds and triangle sources are not
/// supported.
func (compound *B3CompoundShape) AddChild(shape B3ShapeInterface, xf B3Transform) int {
	B3Assertf(B3IsConvexShapeType(shape.GetType()), "compound child must be convex, got %s", B3ShapeTypeName(shape.GetType()))
	compound.M_children = append(compound.M_children, B3CompoundChild{
		Shape:     shape,
		Transform: xf,
	})
	return len(compound.M_children) - 1
}

func (compound B3CompoundShape) GetChild(index int) B3CompoundChild {
	B3Assert(0 <= index && index < len(compound.M_children))
	return compound.M_children[index]
}

func (compound B3CompoundShape) Clone() B3ShapeInterface {
	clone := NewB3CompoundShape()
	for _, child := range compound.M_children {
		clone.M_children = append(clone.M_children, B3CompoundChild{
			Shape:     child.Shape.Clone(),
			Transform: child.Transform,
		})
	}
	return clone
}

func (compound B3CompoundShape) GetChildCount() int {
	return len(compound.M_children)
}

/// World transform of a child given the compound's world transform.
func (compound B3CompoundShape) GetChildTransform(xf B3Transform, index int) B3Transform {
	return B3TransformMul(xf, compound.M_children[index].Transform)
}

func (compound B3CompoundShape) ComputeChildAABB(aabb *B3AABB, xf B3Transform, index int) {
	child := compound.M_children[index]
	child.Shape.ComputeAABB(aabb, B3TransformMul(xf, child.Transform))
}

func (compound B3CompoundShape) ComputeAABB(aabb *B3AABB, xf B3Transform) {
	if len(compound.M_children) == 0 {
		aabb.LowerBound = xf.P
		aabb.UpperBound = xf.P
		return
	}

	compound.ComputeChildAABB(aabb, xf, 0)
	for i := 1; i < len(compound.M_children); i++ {
		var childAABB B3AABB
		compound.ComputeChildAABB(&childAABB, xf, i)
		aabb.CombineInPlace(childAABB)
	}
}

// The smallest child radius about the compound origin. Conservative: a
// child may sit away from the origin, in which case it counts as zero.
func (compound B3CompoundShape) GetMinimumRadius() float64 {
	minimum := B3_maxFloat
	for _, child := range compound.M_children {
		r := child.Shape.GetMinimumRadius() - child.Transform.P.Len()
		minimum = math.Min(minimum, math.Max(0.0, r))
	}
	if minimum == B3_maxFloat {
		return 0.0
	}
	return minimum
}

func (compound B3CompoundShape) GetMaximumRadius() float64 {
	maximum := 0.0
	for _, child := range compound.M_children {
		maximum = math.Max(maximum, child.Transform.P.Len()+child.Shape.GetMaximumRadius())
	}
	return maximum
}
