package box3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type pairFixture struct {
	settings B3Settings
	arena    B3CollidableArena
	ctx      *B3NarrowPhaseContext
}

func newPairFixture() *pairFixture {
	fixture := &pairFixture{
		settings: MakeB3Settings(),
		arena:    MakeB3CollidableArena(),
	}
	fixture.ctx = NewB3NarrowPhaseContext(&fixture.settings)
	return fixture
}

func (fixture *pairFixture) create(shape B3ShapeInterface, position mgl64.Vec3, entity *B3Entity) *B3Collidable {
	def := MakeB3CollidableDef()
	def.Shape = shape
	def.Transform.P = position
	def.Entity = entity
	return fixture.arena.Create(&def)
}

func TestCollidableArenaGenerations(t *testing.T) {
	fixture := newPairFixture()

	first := fixture.create(NewB3SphereShapeWithRadius(1.0), B3Vec3_zero, NewB3Entity())
	h := first.GetHandle()
	if h.IsNull() {
		t.Fatalf("a live handle must not be null")
	}
	if fixture.arena.Get(h) != first {
		t.Fatalf("handle does not resolve to its collidable")
	}

	if !fixture.arena.Destroy(h) {
		t.Fatalf("destroy of a live handle failed")
	}
	if fixture.arena.Get(h) != nil {
		t.Fatalf("a destroyed handle must resolve to nil")
	}
	if fixture.arena.Destroy(h) {
		t.Fatalf("double destroy must report false")
	}

	second := fixture.create(NewB3SphereShapeWithRadius(1.0), B3Vec3_zero, NewB3Entity())
	if second.GetHandle().Index != h.Index || second.GetHandle().Generation == h.Generation {
		t.Fatalf("slot should be reused with a new generation: %s then %s", h, second.GetHandle())
	}
	if fixture.arena.Get(h) != nil {
		t.Fatalf("old handle must not resolve to the slot's new collidable")
	}
	if fixture.arena.GetCount() != 1 {
		t.Fatalf("expected 1 collidable, got %d", fixture.arena.GetCount())
	}
	if fixture.arena.Get(B3CollidableHandle_null) != nil {
		t.Fatalf("the null handle must resolve to nil")
	}
}

func TestCollidableClonesShape(t *testing.T) {
	fixture := newPairFixture()
	shape := NewB3SphereShapeWithRadius(1.0)
	collidable := fixture.create(shape, B3Vec3_zero, nil)

	shape.M_radius = 5.0
	if collidable.GetShape().GetRadius() != 1.0 {
		t.Fatalf("the collidable should own a copy of its shape")
	}
}

func TestTerrainMustBeStatic(t *testing.T) {
	fixture := newPairFixture()
	terrain := NewB3TerrainShape(make([]float64, 4), 2, 2, mgl64.Vec3{1, 1, 1})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a terrain with an entity")
		}
	}()
	fixture.create(terrain, B3Vec3_zero, NewB3Entity())
}

func TestVelocityAtPoint(t *testing.T) {
	fixture := newPairFixture()
	entity := NewB3Entity()
	entity.SetLinearVelocity(mgl64.Vec3{1, 0, 0})
	entity.SetAngularVelocity(mgl64.Vec3{0, 0, 2})
	collidable := fixture.create(NewB3SphereShapeWithRadius(1.0), mgl64.Vec3{0, 1, 0}, entity)

	v := collidable.GetVelocityAtPoint(mgl64.Vec3{1, 1, 0})
	if v != (mgl64.Vec3{1, 2, 0}) {
		t.Fatalf("expected (1,2,0), got %v", v)
	}

	static := fixture.create(NewB3SphereShapeWithRadius(1.0), B3Vec3_zero, nil)
	if static.GetVelocityAtPoint(mgl64.Vec3{3, 0, 0}) != B3Vec3_zero {
		t.Fatalf("static collidables do not move")
	}
}

func TestDispatcherSwapsToRegisteredOrder(t *testing.T) {
	fixture := newPairFixture()
	dispatcher := MakeB3Dispatcher(&fixture.arena, &fixture.settings)

	sphere := fixture.create(NewB3SphereShapeWithRadius(0.5), mgl64.Vec3{1.3, 0, 0}, NewB3Entity())
	box := fixture.create(NewB3BoxShape(mgl64.Vec3{1, 1, 1}), B3Vec3_zero, nil)

	contact := dispatcher.Acquire(sphere, box)
	if contact.GetHandlerType() != B3ContactHandler_Type.E_polyhedronAndSphere {
		t.Fatalf("unexpected handler %s", B3ContactHandlerTypeName(contact.GetHandlerType()))
	}
	if contact.GetHandleA() != box.GetHandle() || contact.GetHandleB() != sphere.GetHandle() {
		t.Fatalf("the polyhedron should be A after the swap")
	}

	contact.UpdateContacts(fixture.ctx, 1.0/60.0)
	if contact.GetManifoldCount() != 1 {
		t.Fatalf("expected 1 manifold, got %d", contact.GetManifoldCount())
	}
	if n := contact.GetManifold(0).Normal; math.Abs(n[0]-1.0) > 1e-6 {
		t.Fatalf("normal should point from the box to the sphere, got %v", n)
	}
}

func TestDispatcherRegisters(t *testing.T) {
	fixture := newPairFixture()
	dispatcher := MakeB3Dispatcher(&fixture.arena, &fixture.settings)

	types := []uint8{
		B3Shape_Type.E_sphere,
		B3Shape_Type.E_polyhedron,
		B3Shape_Type.E_compound,
		B3Shape_Type.E_terrain,
		B3Shape_Type.E_mesh,
	}
	for _, type1 := range types {
		for _, type2 := range types {
			register := dispatcher.GetRegister(type1, type2)
			staticOnly := B3IsTriangleSourceType(type1) && B3IsTriangleSourceType(type2)
			if staticOnly {
				if register.CreateFcn != nil {
					t.Errorf("%s-%s should have no handler", B3ShapeTypeName(type1), B3ShapeTypeName(type2))
				}
				continue
			}
			if register.CreateFcn == nil {
				t.Errorf("%s-%s has no handler", B3ShapeTypeName(type1), B3ShapeTypeName(type2))
				continue
			}
			swapped := dispatcher.GetRegister(type2, type1)
			if type1 != type2 && register.Primary == swapped.Primary {
				t.Errorf("%s-%s: exactly one order should be primary", B3ShapeTypeName(type1), B3ShapeTypeName(type2))
			}
		}
	}
}

func TestDispatcherMissingEntryPanics(t *testing.T) {
	fixture := newPairFixture()
	dispatcher := MakeB3Dispatcher(&fixture.arena, &fixture.settings)

	terrain := fixture.create(NewB3TerrainShape(make([]float64, 4), 2, 2, mgl64.Vec3{1, 1, 1}), B3Vec3_zero, nil)
	mesh := fixture.create(NewB3MeshShape([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}}, [][3]int{{0, 1, 2}}), B3Vec3_zero, nil)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a pair without handler")
		}
	}()
	dispatcher.Acquire(terrain, mesh)
}

func TestDispatcherRecyclesHandlers(t *testing.T) {
	fixture := newPairFixture()
	dispatcher := MakeB3Dispatcher(&fixture.arena, &fixture.settings)

	a := fixture.create(NewB3SphereShapeWithRadius(1.0), B3Vec3_zero, NewB3Entity())
	b := fixture.create(NewB3SphereShapeWithRadius(1.0), mgl64.Vec3{1, 0, 0}, NewB3Entity())

	contact := dispatcher.Acquire(a, b)
	dispatcher.Release(contact)
	if contact.GetState() != B3Contact_State.E_uninitialized {
		t.Fatalf("a released handler must be uninitialized")
	}
	if dispatcher.GetFreeCount(B3ContactHandler_Type.E_sphere) != 0 {
		t.Fatalf("handlers only return to the pool on reclaim")
	}

	dispatcher.Reclaim()
	if dispatcher.GetFreeCount(B3ContactHandler_Type.E_sphere) != 1 {
		t.Fatalf("expected 1 free handler, got %d", dispatcher.GetFreeCount(B3ContactHandler_Type.E_sphere))
	}

	again := dispatcher.Acquire(b, a)
	if again != contact {
		t.Fatalf("the pooled handler should be reused")
	}
	if again.GetHandleA() != b.GetHandle() {
		t.Fatalf("the reused handler must be bound to the new pair")
	}
}

func TestContactWarmStart(t *testing.T) {
	fixture := newPairFixture()
	dispatcher := MakeB3Dispatcher(&fixture.arena, &fixture.settings)

	ground := fixture.create(NewB3BoxShape(mgl64.Vec3{5, 0.5, 5}), mgl64.Vec3{0, -0.5, 0}, nil)
	box := fixture.create(NewB3BoxShape(mgl64.Vec3{0.5, 0.5, 0.5}), mgl64.Vec3{0, 0.45, 0}, NewB3Entity())

	contact := dispatcher.Acquire(ground, box)
	dt := 1.0 / 60.0

	events := contact.UpdateContacts(fixture.ctx, dt)
	fixture.ctx.Reclaim()
	if events&B3ContactEvent.E_beginTouch == 0 || events&B3ContactEvent.E_pointsChanged == 0 {
		t.Fatalf("first update should begin touching with new points, got %b", events)
	}
	if !contact.IsTouching() || contact.GetPointCount() != 4 {
		t.Fatalf("expected 4 touching points, got %d", contact.GetPointCount())
	}

	// Pretend the solver accumulated impulses.
	manifold := contact.GetManifold(0)
	for i := 0; i < manifold.PointCount; i++ {
		manifold.Points[i].NormalImpulse = float64(i + 1)
		manifold.Points[i].TangentImpulse = [2]float64{0.5, -0.5}
	}

	for step := 0; step < 3; step++ {
		events = contact.UpdateContacts(fixture.ctx, dt)
		fixture.ctx.Reclaim()
		if events != 0 {
			t.Fatalf("step %d: unchanged geometry should raise no events, got %b", step, events)
		}

		manifold = contact.GetManifold(0)
		for i := 0; i < manifold.PointCount; i++ {
			if manifold.Points[i].NormalImpulse != float64(i+1) {
				t.Fatalf("step %d: impulse of point %d lost: %v", step, i, manifold.Points[i].NormalImpulse)
			}
		}
	}

	var state1, state2 [B3_maxManifoldPoints]uint8
	contact.GetPointStates(0, &state1, &state2)
	for i := 0; i < 4; i++ {
		if state1[i] != B3PointState.B3_persistState || state2[i] != B3PointState.B3_persistState {
			t.Fatalf("all points should persist: %v %v", state1, state2)
		}
	}

	info := contact.GetContactInformation(1)
	if math.Abs(info.NormalForce.Len()-2.0/dt) > 1e-6 {
		t.Fatalf("normal force should be impulse over dt, got %v", info.NormalForce)
	}
	if math.Abs(info.Penetration-0.05) > 1e-6 {
		t.Fatalf("unexpected penetration %v", info.Penetration)
	}

	// Lift the box off the ground.
	box.M_xf.P = mgl64.Vec3{0, 2, 0}
	box.synchronize()
	events = contact.UpdateContacts(fixture.ctx, dt)
	if events&B3ContactEvent.E_endTouch == 0 || events&B3ContactEvent.E_pointsChanged == 0 {
		t.Fatalf("separating should end touching, got %b", events)
	}
	if contact.GetManifoldCount() != 0 || contact.IsTouching() {
		t.Fatalf("separated pair should have no manifold")
	}
}

func TestContactMaterialMixing(t *testing.T) {
	fixture := newPairFixture()
	fixture.settings.FrictionRule = B3MixRule.Average
	dispatcher := MakeB3Dispatcher(&fixture.arena, &fixture.settings)

	a := fixture.create(NewB3SphereShapeWithRadius(1.0), B3Vec3_zero, NewB3Entity())
	b := fixture.create(NewB3SphereShapeWithRadius(1.0), mgl64.Vec3{1, 0, 0}, NewB3Entity())
	a.SetFriction(0.2)
	b.SetFriction(0.6)
	a.SetRestitution(0.1)
	b.SetRestitution(0.7)

	contact := dispatcher.Acquire(a, b)
	if math.Abs(contact.GetFriction()-0.4) > 1e-12 || contact.GetRestitution() != 0.7 {
		t.Fatalf("unexpected material %v/%v", contact.GetFriction(), contact.GetRestitution())
	}

	contact.SetFriction(0.9)
	contact.ResetFriction()
	if math.Abs(contact.GetFriction()-0.4) > 1e-12 {
		t.Fatalf("reset should restore the mixed friction, got %v", contact.GetFriction())
	}
}

func TestSensorContactHasNoManifold(t *testing.T) {
	fixture := newPairFixture()
	dispatcher := MakeB3Dispatcher(&fixture.arena, &fixture.settings)

	def := MakeB3CollidableDef()
	def.Shape = NewB3SphereShapeWithRadius(1.0)
	def.IsSensor = true
	sensor := fixture.arena.Create(&def)
	ball := fixture.create(NewB3SphereShapeWithRadius(0.5), mgl64.Vec3{1, 0, 0}, NewB3Entity())

	contact := dispatcher.Acquire(sensor, ball)
	events := contact.UpdateContacts(fixture.ctx, 1.0/60.0)
	if events&B3ContactEvent.E_beginTouch == 0 {
		t.Fatalf("sensor overlap should begin touching, got %b", events)
	}
	if !contact.IsSensor() || !contact.IsTouching() || contact.GetManifoldCount() != 0 {
		t.Fatalf("sensor pairs report touching without manifolds")
	}
	if contact.UpdateTimeOfImpact(fixture.ctx, ball.GetHandle(), 1.0/60.0) != 1.0 {
		t.Fatalf("sensors are never swept")
	}
}

func TestContactStaleCollidable(t *testing.T) {
	fixture := newPairFixture()
	dispatcher := MakeB3Dispatcher(&fixture.arena, &fixture.settings)

	a := fixture.create(NewB3SphereShapeWithRadius(1.0), B3Vec3_zero, NewB3Entity())
	b := fixture.create(NewB3SphereShapeWithRadius(1.0), mgl64.Vec3{1, 0, 0}, NewB3Entity())
	contact := dispatcher.Acquire(a, b)

	fixture.arena.Destroy(b.GetHandle())
	if contact.GetCollidableB() != nil {
		t.Fatalf("a destroyed collidable must not resolve")
	}
	if events := contact.UpdateContacts(fixture.ctx, 1.0/60.0); events != B3ContactEvent.E_stale {
		t.Fatalf("expected a stale event, got %b", events)
	}
	if contact.GetState() != B3Contact_State.E_stale {
		t.Fatalf("handler should be stale")
	}
}

func TestContactTimeOfImpact(t *testing.T) {
	fixture := newPairFixture()
	dispatcher := MakeB3Dispatcher(&fixture.arena, &fixture.settings)
	dt := 1.0 / 60.0

	entity := NewB3Entity()
	entity.SetContinuous(true)
	entity.SetLinearVelocity(mgl64.Vec3{0, -60, 0})

	ball := fixture.create(NewB3SphereShapeWithRadius(0.5), mgl64.Vec3{0, 0.65, 0}, entity)
	ground := fixture.create(NewB3BoxShape(mgl64.Vec3{5, 0.5, 5}), mgl64.Vec3{0, -0.5, 0}, nil)

	contact := dispatcher.Acquire(ball, ground)
	toi := contact.UpdateTimeOfImpact(fixture.ctx, ball.GetHandle(), dt)
	if toi <= 0.0 || toi >= 1.0 {
		t.Fatalf("expected a time of impact in (0,1), got %v", toi)
	}
	if math.Abs(toi-(0.15-fixture.settings.LinearSlop)) > 1e-3 {
		t.Fatalf("unexpected time of impact %v", toi)
	}
	if contact.GetFlags()&B3Contact_Flag.E_toiFlag == 0 || contact.GetTOI() != toi {
		t.Fatalf("the handler should cache its time of impact")
	}

	// The static side is never swept.
	if contact.UpdateTimeOfImpact(fixture.ctx, ground.GetHandle(), dt) != 1.0 {
		t.Fatalf("static collidables have no time of impact")
	}

	// Slow enough not to tunnel.
	entity.SetLinearVelocity(mgl64.Vec3{0, -1, 0})
	if contact.UpdateTimeOfImpact(fixture.ctx, ball.GetHandle(), dt) != 1.0 {
		t.Fatalf("a slow entity should not be swept")
	}
}
