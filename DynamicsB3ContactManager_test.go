package box3d

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newStaleFixture(debug bool) (*pairFixture, *B3ContactManager) {
	fixture := newPairFixture()
	fixture.settings.Debug = debug

	mgr := NewB3ContactManager(&fixture.arena, &fixture.settings)
	mgr.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	a := fixture.create(NewB3SphereShapeWithRadius(1.0), B3Vec3_zero, NewB3Entity())
	b := fixture.create(NewB3SphereShapeWithRadius(1.0), mgl64.Vec3{1.5, 0, 0}, NewB3Entity())
	mgr.AddPair(a.GetHandle(), b.GetHandle())

	// Bypass the destruction order on purpose.
	fixture.arena.Destroy(b.GetHandle())
	return fixture, mgr
}

func TestContactManagerSkipsStalePairs(t *testing.T) {
	_, mgr := newStaleFixture(false)
	if mgr.GetContactCount() != 1 {
		t.Fatalf("expected 1 pair, got %d", mgr.GetContactCount())
	}

	mgr.Collide(1.0 / 60.0)
	if mgr.GetContactCount() != 0 {
		t.Fatalf("a stale pair should be destroyed, %d left", mgr.GetContactCount())
	}

	mgr.Reclaim()
	if mgr.M_dispatcher.GetFreeCount(B3ContactHandler_Type.E_sphere) != 1 {
		t.Fatalf("the stale handler should go back to its pool")
	}
}

func TestContactManagerStalePairsPanicInDebug(t *testing.T) {
	_, mgr := newStaleFixture(true)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on a stale pair in debug mode")
		}
	}()
	mgr.Collide(1.0 / 60.0)
}

func TestContactManagerPairEvents(t *testing.T) {
	fixture := newPairFixture()
	mgr := NewB3ContactManager(&fixture.arena, &fixture.settings)

	a := fixture.create(NewB3SphereShapeWithRadius(1.0), B3Vec3_zero, NewB3Entity()).GetHandle()
	b := fixture.create(NewB3BoxShape(mgl64.Vec3{1, 1, 1}), mgl64.Vec3{1.5, 0, 0}, NewB3Entity()).GetHandle()
	c := fixture.create(NewB3SphereShapeWithRadius(1.0), mgl64.Vec3{-1.5, 0, 0}, nil).GetHandle()

	mgr.ApplyPairEvents([]B3PairEvent{
		{Type: B3PairEvent_Type.E_add, UserDataA: a, UserDataB: b},
		{Type: B3PairEvent_Type.E_add, UserDataA: c, UserDataB: a},
		{Type: B3PairEvent_Type.E_add, UserDataA: b, UserDataB: a},
	})
	if mgr.GetContactCount() != 2 {
		t.Fatalf("duplicate adds must not create a second handler, got %d", mgr.GetContactCount())
	}
	if mgr.FindContact(b, a) == nil || mgr.FindContact(a, c) == nil {
		t.Fatalf("pairs must be found in either order")
	}

	// A pair that leaves and returns in the same feed gets a fresh handler.
	mgr.ApplyPairEvents([]B3PairEvent{
		{Type: B3PairEvent_Type.E_add, UserDataA: a, UserDataB: b},
		{Type: B3PairEvent_Type.E_remove, UserDataA: a, UserDataB: b},
	})
	if mgr.GetContactCount() != 2 {
		t.Fatalf("expected 2 pairs, got %d", mgr.GetContactCount())
	}
	if fresh := mgr.FindContact(a, b); fresh == nil || fresh.GetState() != B3Contact_State.E_active {
		t.Fatalf("the returning pair should have an active handler")
	}

	if removed := mgr.RemoveCollidablePairs(a); removed != 2 {
		t.Fatalf("expected 2 pairs removed, got %d", removed)
	}
	if mgr.GetContactCount() != 0 {
		t.Fatalf("expected no pairs left")
	}
}

// Cancels the step while the wrapped handler is being evaluated.
type cancelingEvaluator struct {
	B3ContactEvaluatorInterface
	cancel context.CancelFunc
}

func (e cancelingEvaluator) Evaluate(ctx *B3NarrowPhaseContext, buffer *B3ContactBuffer, collidableA *B3Collidable, collidableB *B3Collidable) {
	e.cancel()
	e.B3ContactEvaluatorInterface.Evaluate(ctx, buffer, collidableA, collidableB)
}

type touchCounter struct {
	begins map[B3PairKey]int
}

func (c *touchCounter) BeginContact(contact B3ContactInterface) {
	c.begins[MakeB3PairKey(contact.GetHandleA(), contact.GetHandleB())]++
}

func (c *touchCounter) EndContact(contact B3ContactInterface) {}

func TestContactManagerCancelledPassKeepsEvents(t *testing.T) {
	fixture := newPairFixture()
	fixture.settings.Workers = 1
	mgr := NewB3ContactManager(&fixture.arena, &fixture.settings)
	counter := &touchCounter{begins: make(map[B3PairKey]int)}
	mgr.M_contactListener = counter

	a := fixture.create(NewB3SphereShapeWithRadius(1.0), B3Vec3_zero, NewB3Entity()).GetHandle()
	b := fixture.create(NewB3SphereShapeWithRadius(1.0), mgl64.Vec3{1.5, 0, 0}, NewB3Entity()).GetHandle()
	c := fixture.create(NewB3SphereShapeWithRadius(1.0), mgl64.Vec3{10, 0, 0}, NewB3Entity()).GetHandle()
	d := fixture.create(NewB3SphereShapeWithRadius(1.0), mgl64.Vec3{11.5, 0, 0}, NewB3Entity()).GetHandle()

	first := mgr.AddPair(a, b)
	second := mgr.AddPair(c, d)
	if mgr.GetContact(0) != first || mgr.GetContact(1) != second {
		t.Fatalf("pairs should be listed in creation order")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sphere := first.(*B3SphereContact)
	evaluator := sphere.M_evaluator
	sphere.M_evaluator = cancelingEvaluator{B3ContactEvaluatorInterface: evaluator, cancel: cancel}

	err := mgr.CollideParallel(ctx, 1.0/60.0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected a cancellation error, got %v", err)
	}
	if !first.IsTouching() || second.IsTouching() {
		t.Fatalf("only the first pair should have been updated")
	}
	if counter.begins[MakeB3PairKey(a, b)] != 1 {
		t.Fatalf("the updated pair must still report its begin event, got %d", counter.begins[MakeB3PairKey(a, b)])
	}
	if counter.begins[MakeB3PairKey(c, d)] != 0 {
		t.Fatalf("the pair that was not reached must not report anything")
	}

	sphere.M_evaluator = evaluator
	if err := mgr.CollideParallel(context.Background(), 1.0/60.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter.begins[MakeB3PairKey(a, b)] != 1 || counter.begins[MakeB3PairKey(c, d)] != 1 {
		t.Fatalf("every pair should begin exactly once, got %v", counter.begins)
	}
}
