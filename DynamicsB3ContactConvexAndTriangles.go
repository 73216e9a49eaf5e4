package box3d

/// A sphere or polyhedron against a terrain or mesh. Every candidate
/// triangle is its own sub-pair, keyed by triangle index.
type B3ConvexAndTrianglesContact struct {
	B3Contact
}

func B3ConvexAndTrianglesContact_Create() B3ContactInterface {
	res := &B3ConvexAndTrianglesContact{}
	res.B3Contact = MakeB3Contact(B3ContactHandler_Type.E_convexAndTriangles, res)
	return res
}

func (contact *B3ConvexAndTrianglesContact) Initialize(arena *B3CollidableArena, settings *B3Settings, collidableA *B3Collidable, collidableB *B3Collidable) {
	B3Assert(B3IsConvexShapeType(collidableA.GetType()))
	B3Assert(B3IsTriangleSourceType(collidableB.GetType()))
	contact.B3Contact.Initialize(arena, settings, collidableA, collidableB)
}

func (contact *B3ConvexAndTrianglesContact) Evaluate(ctx *B3NarrowPhaseContext, buffer *B3ContactBuffer, collidableA *B3Collidable, collidableB *B3Collidable) {
	b3CollideConvexAndTriangles(
		ctx, buffer,
		collidableA.GetShape(), collidableA.GetTransform(),
		collidableB.GetShape().(B3TriangleSourceInterface), collidableB.GetTransform(),
		0,
	)
}

func (contact *B3ConvexAndTrianglesContact) CollectTOIProxies(ctx *B3NarrowPhaseContext, collidableA *B3Collidable, collidableB *B3Collidable, sweepA B3Sweep, sweepB B3Sweep, fn func(proxyA *B3DistanceProxy, proxyB *B3DistanceProxy)) {
	b3CollectConvexAndTrianglesTOI(
		ctx,
		collidableA.GetShape(), MakeB3Transform(), sweepA,
		collidableB.GetShape().(B3TriangleSourceInterface), collidableB.GetTransform(),
		fn,
	)
}
