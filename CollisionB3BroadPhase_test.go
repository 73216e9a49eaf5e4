package box3d_test

import (
	"math/rand"
	"testing"

	"github.com/bytearena/box3d"
	"github.com/go-gl/mathgl/mgl64"
)

func cubeAABB(center mgl64.Vec3, half float64) box3d.B3AABB {
	e := mgl64.Vec3{half, half, half}
	return box3d.B3AABB{LowerBound: center.Sub(e), UpperBound: center.Add(e)}
}

func TestDynamicTreeQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tree := box3d.NewB3DynamicTree()

	randomPoint := func() mgl64.Vec3 {
		return mgl64.Vec3{rng.Float64() * 50, rng.Float64() * 50, rng.Float64() * 50}
	}

	proxies := make(map[int]bool)
	for i := 0; i < 200; i++ {
		proxies[tree.CreateProxy(cubeAABB(randomPoint(), 1.0), i)] = true
	}
	tree.Validate()

	// Move a third, destroy a third.
	i := 0
	for proxyId := range proxies {
		switch i % 3 {
		case 0:
			tree.MoveProxy(proxyId, cubeAABB(randomPoint(), 1.0), mgl64.Vec3{1, 0, 0})
		case 1:
			tree.DestroyProxy(proxyId)
			delete(proxies, proxyId)
		}
		i++
	}
	tree.Validate()

	for q := 0; q < 20; q++ {
		query := cubeAABB(randomPoint(), 5.0)

		found := make(map[int]bool)
		tree.Query(func(proxyId int) bool {
			found[proxyId] = true
			return true
		}, query)

		for proxyId := range proxies {
			expected := box3d.B3TestOverlapBoundingBoxes(tree.GetFatAABB(proxyId), query)
			if expected != found[proxyId] {
				t.Fatalf("query %d: proxy %d expected %v, got %v", q, proxyId, expected, found[proxyId])
			}
		}
		if len(found) > len(proxies) {
			t.Fatalf("query reported destroyed proxies")
		}
	}

	if tree.GetHeight() <= 0 || tree.GetMaxBalance() > tree.GetHeight() {
		t.Fatalf("unexpected tree shape: height %d balance %d", tree.GetHeight(), tree.GetMaxBalance())
	}
	if tree.GetAreaRatio() < 1.0 {
		t.Fatalf("area ratio cannot be below 1, got %v", tree.GetAreaRatio())
	}
}

func TestDynamicTreeMoveInsideFatAABB(t *testing.T) {
	tree := box3d.NewB3DynamicTree()
	proxyId := tree.CreateProxy(cubeAABB(box3d.B3Vec3_zero, 1.0), nil)

	if tree.MoveProxy(proxyId, cubeAABB(mgl64.Vec3{0.05, 0, 0}, 1.0), mgl64.Vec3{0.05, 0, 0}) {
		t.Fatalf("a move inside the fat AABB should not re-insert")
	}
	if !tree.MoveProxy(proxyId, cubeAABB(mgl64.Vec3{3, 0, 0}, 1.0), mgl64.Vec3{3, 0, 0}) {
		t.Fatalf("a move outside the fat AABB should re-insert")
	}

	// The displacement is predicted along the direction of motion.
	fat := tree.GetFatAABB(proxyId)
	if fat.UpperBound[0] <= 4.0+box3d.B3_aabbExtension {
		t.Fatalf("fat AABB not extended along the displacement: %v", fat)
	}
	tree.Validate()
}

func TestBroadPhasePairEvents(t *testing.T) {
	bp := box3d.NewB3BroadPhase()

	a := bp.CreateProxy(cubeAABB(mgl64.Vec3{0, 0, 0}, 1.0), "a")
	b := bp.CreateProxy(cubeAABB(mgl64.Vec3{1.5, 0, 0}, 1.0), "b")
	// Far enough that b's predicted fat box after the move below misses it.
	bp.CreateProxy(cubeAABB(mgl64.Vec3{40, 0, 0}, 1.0), "c")

	events := bp.UpdatePairs()
	if len(events) != 1 || events[0].Type != box3d.B3PairEvent_Type.E_add {
		t.Fatalf("expected one add event, got %+v", events)
	}
	names := map[interface{}]bool{events[0].UserDataA: true, events[0].UserDataB: true}
	if !names["a"] || !names["b"] {
		t.Fatalf("add event for the wrong pair: %+v", events[0])
	}
	if bp.GetPairCount() != 1 {
		t.Fatalf("expected 1 pair, got %d", bp.GetPairCount())
	}

	// Nothing moved: nothing to report.
	if events := bp.UpdatePairs(); len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}

	// Touching reports nothing new for an existing pair.
	bp.TouchProxy(a)
	if events := bp.UpdatePairs(); len(events) != 0 {
		t.Fatalf("touching an existing pair should not re-add it, got %+v", events)
	}

	bp.MoveProxy(b, cubeAABB(mgl64.Vec3{10, 0, 0}, 1.0), mgl64.Vec3{8.5, 0, 0})
	events = bp.UpdatePairs()
	if len(events) != 1 || events[0].Type != box3d.B3PairEvent_Type.E_remove {
		t.Fatalf("expected one remove event, got %+v", events)
	}
	if bp.GetPairCount() != 0 {
		t.Fatalf("expected no pairs, got %d", bp.GetPairCount())
	}

	bp.DestroyProxy(a)
	if bp.GetProxyCount() != 2 {
		t.Fatalf("expected 2 proxies, got %d", bp.GetProxyCount())
	}
}

func TestBroadPhaseRemovalsBeforeAdditions(t *testing.T) {
	bp := box3d.NewB3BroadPhase()

	a := bp.CreateProxy(cubeAABB(mgl64.Vec3{0, 0, 0}, 1.0), "a")
	bp.CreateProxy(cubeAABB(mgl64.Vec3{1.5, 0, 0}, 1.0), "b")
	bp.CreateProxy(cubeAABB(mgl64.Vec3{30, 0, 0}, 1.0), "c")
	bp.UpdatePairs()

	// a leaves b and joins c in the same step.
	bp.MoveProxy(a, cubeAABB(mgl64.Vec3{29, 0, 0}, 1.0), mgl64.Vec3{29, 0, 0})
	events := bp.UpdatePairs()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %+v", events)
	}
	if events[0].Type != box3d.B3PairEvent_Type.E_remove || events[1].Type != box3d.B3PairEvent_Type.E_add {
		t.Fatalf("removals must come before additions: %+v", events)
	}
}
