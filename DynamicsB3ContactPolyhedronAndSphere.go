package box3d

type B3PolyhedronAndSphereContact struct {
	B3Contact
}

func B3PolyhedronAndSphereContact_Create() B3ContactInterface {
	res := &B3PolyhedronAndSphereContact{}
	res.B3Contact = MakeB3Contact(B3ContactHandler_Type.E_polyhedronAndSphere, res)
	return res
}

func (contact *B3PolyhedronAndSphereContact) Initialize(arena *B3CollidableArena, settings *B3Settings, collidableA *B3Collidable, collidableB *B3Collidable) {
	B3Assert(collidableA.GetType() == B3Shape_Type.E_polyhedron)
	B3Assert(collidableB.GetType() == B3Shape_Type.E_sphere)
	contact.B3Contact.Initialize(arena, settings, collidableA, collidableB)
}

func (contact *B3PolyhedronAndSphereContact) Evaluate(ctx *B3NarrowPhaseContext, buffer *B3ContactBuffer, collidableA *B3Collidable, collidableB *B3Collidable) {
	B3CollidePolyhedronAndSphere(
		buffer.Next(0),
		collidableA.GetShape().(*B3PolyhedronShape), collidableA.GetTransform(),
		collidableB.GetShape().(*B3SphereShape), collidableB.GetTransform(),
		ctx.M_settings.ContactMargin,
	)
}

func (contact *B3PolyhedronAndSphereContact) CollectTOIProxies(ctx *B3NarrowPhaseContext, collidableA *B3Collidable, collidableB *B3Collidable, sweepA B3Sweep, sweepB B3Sweep, fn func(proxyA *B3DistanceProxy, proxyB *B3DistanceProxy)) {
	b3CollectConvexTOIProxies(collidableA, collidableB, fn)
}
