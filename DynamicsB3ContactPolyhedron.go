package box3d

type B3PolyhedronContact struct {
	B3Contact
}

func B3PolyhedronContact_Create() B3ContactInterface {
	res := &B3PolyhedronContact{}
	res.B3Contact = MakeB3Contact(B3ContactHandler_Type.E_polyhedron, res)
	return res
}

func (contact *B3PolyhedronContact) Initialize(arena *B3CollidableArena, settings *B3Settings, collidableA *B3Collidable, collidableB *B3Collidable) {
	B3Assert(collidableA.GetType() == B3Shape_Type.E_polyhedron)
	B3Assert(collidableB.GetType() == B3Shape_Type.E_polyhedron)
	contact.B3Contact.Initialize(arena, settings, collidableA, collidableB)
}

func (contact *B3PolyhedronContact) Evaluate(ctx *B3NarrowPhaseContext, buffer *B3ContactBuffer, collidableA *B3Collidable, collidableB *B3Collidable) {
	B3CollidePolyhedrons(
		buffer.Next(0),
		collidableA.GetShape().(*B3PolyhedronShape), collidableA.GetTransform(),
		collidableB.GetShape().(*B3PolyhedronShape), collidableB.GetTransform(),
		ctx.M_settings.ContactMargin,
	)
}

func (contact *B3PolyhedronContact) CollectTOIProxies(ctx *B3NarrowPhaseContext, collidableA *B3Collidable, collidableB *B3Collidable, sweepA B3Sweep, sweepB B3Sweep, fn func(proxyA *B3DistanceProxy, proxyB *B3DistanceProxy)) {
	b3CollectConvexTOIProxies(collidableA, collidableB, fn)
}
