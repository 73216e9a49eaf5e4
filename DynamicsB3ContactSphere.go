package box3d

type B3SphereContact struct {
	B3Contact
}

func B3SphereContact_Create() B3ContactInterface {
	res := &B3SphereContact{}
	res.B3Contact = MakeB3Contact(B3ContactHandler_Type.E_sphere, res)
	return res
}

func (contact *B3SphereContact) Initialize(arena *B3CollidableArena, settings *B3Settings, collidableA *B3Collidable, collidableB *B3Collidable) {
	B3Assert(collidableA.GetType() == B3Shape_Type.E_sphere)
	B3Assert(collidableB.GetType() == B3Shape_Type.E_sphere)
	contact.B3Contact.Initialize(arena, settings, collidableA, collidableB)
}

func (contact *B3SphereContact) Evaluate(ctx *B3NarrowPhaseContext, buffer *B3ContactBuffer, collidableA *B3Collidable, collidableB *B3Collidable) {
	B3CollideSpheres(
		buffer.Next(0),
		collidableA.GetShape().(*B3SphereShape), collidableA.GetTransform(),
		collidableB.GetShape().(*B3SphereShape), collidableB.GetTransform(),
		ctx.M_settings.ContactMargin,
	)
}

func (contact *B3SphereContact) CollectTOIProxies(ctx *B3NarrowPhaseContext, collidableA *B3Collidable, collidableB *B3Collidable, sweepA B3Sweep, sweepB B3Sweep, fn func(proxyA *B3DistanceProxy, proxyB *B3DistanceProxy)) {
	b3CollectConvexTOIProxies(collidableA, collidableB, fn)
}

// Two convex collidables sweep as a single proxy pair.
func b3CollectConvexTOIProxies(collidableA *B3Collidable, collidableB *B3Collidable, fn func(proxyA *B3DistanceProxy, proxyB *B3DistanceProxy)) {
	var proxyA, proxyB B3DistanceProxy
	proxyA.Set(collidableA.GetShape())
	proxyB.Set(collidableB.GetShape())
	fn(&proxyA, &proxyB)
}
