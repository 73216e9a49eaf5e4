package box3d

/// A compound against anything. Each child of A is collided on its own;
/// the child key holds the child index of A in the high 32 bits and the
/// child index or triangle index of B in the low 32 bits.
type B3CompoundContact struct {
	B3Contact
}

func B3CompoundContact_Create() B3ContactInterface {
	res := &B3CompoundContact{}
	res.B3Contact = MakeB3Contact(B3ContactHandler_Type.E_compound, res)
	return res
}

func (contact *B3CompoundContact) Initialize(arena *B3CollidableArena, settings *B3Settings, collidableA *B3Collidable, collidableB *B3Collidable) {
	B3Assert(collidableA.GetType() == B3Shape_Type.E_compound)
	contact.B3Contact.Initialize(arena, settings, collidableA, collidableB)
}

func b3CompoundChildKey(indexA int, indexB int) uint64 {
	return uint64(indexA)<<32 | uint64(uint32(indexB))
}

func (contact *B3CompoundContact) Evaluate(ctx *B3NarrowPhaseContext, buffer *B3ContactBuffer, collidableA *B3Collidable, collidableB *B3Collidable) {
	margin := ctx.M_settings.ContactMargin
	compound := collidableA.GetShape().(*B3CompoundShape)
	xfA := collidableA.GetTransform()
	xfB := collidableB.GetTransform()
	shapeB := collidableB.GetShape()
	boundsB := collidableB.GetAABB().Extended(margin)

	for i, child := range compound.M_children {
		var childAABB B3AABB
		compound.ComputeChildAABB(&childAABB, xfA, i)
		if !B3TestOverlapBoundingBoxes(childAABB, boundsB) {
			continue
		}
		xfChild := compound.GetChildTransform(xfA, i)

		switch {
		case shapeB.GetType() == B3Shape_Type.E_compound:
			other := shapeB.(*B3CompoundShape)
			childAABB = childAABB.Extended(margin)
			for j, otherChild := range other.M_children {
				var otherAABB B3AABB
				other.ComputeChildAABB(&otherAABB, xfB, j)
				if !B3TestOverlapBoundingBoxes(childAABB, otherAABB) {
					continue
				}
				B3CollideConvex(
					buffer.Next(b3CompoundChildKey(i, j)),
					child.Shape, xfChild,
					otherChild.Shape, other.GetChildTransform(xfB, j),
					margin,
				)
			}

		case B3IsTriangleSourceType(shapeB.GetType()):
			b3CollideConvexAndTriangles(ctx, buffer, child.Shape, xfChild, shapeB.(B3TriangleSourceInterface), xfB, b3CompoundChildKey(i, 0))

		default:
			B3CollideConvex(buffer.Next(b3CompoundChildKey(i, 0)), child.Shape, xfChild, shapeB, xfB, margin)
		}
	}
}

func (contact *B3CompoundContact) CollectTOIProxies(ctx *B3NarrowPhaseContext, collidableA *B3Collidable, collidableB *B3Collidable, sweepA B3Sweep, sweepB B3Sweep, fn func(proxyA *B3DistanceProxy, proxyB *B3DistanceProxy)) {
	compound := collidableA.GetShape().(*B3CompoundShape)
	shapeB := collidableB.GetShape()

	for _, child := range compound.M_children {
		switch {
		case shapeB.GetType() == B3Shape_Type.E_compound:
			var proxyA B3DistanceProxy
			b3SetChildProxy(&proxyA, &ctx.M_verticesA, child.Shape, child.Transform)
			for _, otherChild := range shapeB.(*B3CompoundShape).M_children {
				var proxyB B3DistanceProxy
				b3SetChildProxy(&proxyB, &ctx.M_verticesB, otherChild.Shape, otherChild.Transform)
				fn(&proxyA, &proxyB)
			}

		case B3IsTriangleSourceType(shapeB.GetType()):
			b3CollectConvexAndTrianglesTOI(ctx, child.Shape, child.Transform, sweepA, shapeB.(B3TriangleSourceInterface), collidableB.GetTransform(), fn)

		default:
			var proxyA, proxyB B3DistanceProxy
			b3SetChildProxy(&proxyA, &ctx.M_verticesA, child.Shape, child.Transform)
			proxyB.Set(shapeB)
			fn(&proxyA, &proxyB)
		}
	}
}
