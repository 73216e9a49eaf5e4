package box3d

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

type B3Pair struct {
	ProxyIdA int
	ProxyIdB int
}

const E_nullProxy = -1

/// This is used to sort pairs.
func B3PairLessThan(pair1 B3Pair, pair2 B3Pair) bool {
	if pair1.ProxyIdA != pair2.ProxyIdA {
		return pair1.ProxyIdA < pair2.ProxyIdA
	}
	return pair1.ProxyIdB < pair2.ProxyIdB
}

func makeB3Pair(proxyId1, proxyId2 int) B3Pair {
	if proxyId2 < proxyId1 {
		proxyId1, proxyId2 = proxyId2, proxyId1
	}
	return B3Pair{ProxyIdA: proxyId1, ProxyIdB: proxyId2}
}

var B3PairEvent_Type = struct {
	E_add    uint8
	E_remove uint8
}{
	E_add:    0,
	E_remove: 1,
}

/// One entry of the broad-phase feed: the fat boxes of two proxies started
/// or stopped overlapping.
type B3PairEvent struct {
	Type      uint8
	UserDataA interface{}
	UserDataB interface{}
}

/// The broad-phase is used for computing pairs. It keeps the set of
/// overlapping proxy pairs and, once per step, reports the difference to
/// the previous step as add and remove events. Only proxies that moved out
/// of their fat AABB are re-examined.
type B3BroadPhase struct {
	M_tree B3DynamicTree

	M_proxyCount int

	M_moveBuffer []int
	M_pairBuffer []B3Pair
	M_events     []B3PairEvent

	M_queryProxyId int

	M_pairs map[B3Pair]struct{}
}

func MakeB3BroadPhase() B3BroadPhase {
	return B3BroadPhase{
		M_tree:       MakeB3DynamicTree(),
		M_moveBuffer: make([]int, 0, 16),
		M_pairBuffer: make([]B3Pair, 0, 16),
		M_pairs:      make(map[B3Pair]struct{}),
	}
}

func NewB3BroadPhase() *B3BroadPhase {
	res := MakeB3BroadPhase()
	return &res
}

func (bp B3BroadPhase) GetUserData(proxyId int) interface{} {
	return bp.M_tree.GetUserData(proxyId)
}

func (bp B3BroadPhase) TestOverlap(proxyIdA int, proxyIdB int) bool {
	return B3TestOverlapBoundingBoxes(
		bp.M_tree.GetFatAABB(proxyIdA),
		bp.M_tree.GetFatAABB(proxyIdB),
	)
}

func (bp B3BroadPhase) GetFatAABB(proxyId int) B3AABB {
	return bp.M_tree.GetFatAABB(proxyId)
}

func (bp B3BroadPhase) GetProxyCount() int {
	return bp.M_proxyCount
}

func (bp B3BroadPhase) GetPairCount() int {
	return len(bp.M_pairs)
}

func (bp B3BroadPhase) GetTreeHeight() int {
	return bp.M_tree.GetHeight()
}

func (bp B3BroadPhase) GetTreeBalance() int {
	return bp.M_tree.GetMaxBalance()
}

func (bp B3BroadPhase) GetTreeQuality() float64 {
	return bp.M_tree.GetAreaRatio()
}

/// Create a proxy with an initial AABB. Pairs are not reported until
/// UpdatePairs is called.
func (bp *B3BroadPhase) CreateProxy(aabb B3AABB, userData interface{}) int {
	proxyId := bp.M_tree.CreateProxy(aabb, userData)
	bp.M_proxyCount++
	bp.BufferMove(proxyId)
	return proxyId
}

/// Destroy a proxy. Its pairs are dropped without events: the owner tears
/// down its contacts before its proxy.
func (bp *B3BroadPhase) DestroyProxy(proxyId int) {
	bp.UnBufferMove(proxyId)
	for pair := range bp.M_pairs {
		if pair.ProxyIdA == proxyId || pair.ProxyIdB == proxyId {
			delete(bp.M_pairs, pair)
		}
	}
	bp.M_proxyCount--
	bp.M_tree.DestroyProxy(proxyId)
}

/// Call MoveProxy as many times as you like, then when you are done
/// call UpdatePairs to finalize the proxy pairs (for your time step).
func (bp *B3BroadPhase) MoveProxy(proxyId int, aabb B3AABB, displacement mgl64.Vec3) {
	if bp.M_tree.MoveProxy(proxyId, aabb, displacement) {
		bp.BufferMove(proxyId)
	}
}

/// Call to trigger a re-processing of it's pairs on the next call to UpdatePairs.
func (bp *B3BroadPhase) TouchProxy(proxyId int) {
	bp.BufferMove(proxyId)
}

func (bp *B3BroadPhase) BufferMove(proxyId int) {
	bp.M_moveBuffer = append(bp.M_moveBuffer, proxyId)
}

func (bp *B3BroadPhase) UnBufferMove(proxyId int) {
	for i := range bp.M_moveBuffer {
		if bp.M_moveBuffer[i] == proxyId {
			bp.M_moveBuffer[i] = E_nullProxy
		}
	}
}

// This is called from B3DynamicTree.Query when we are gathering pairs.
func (bp *B3BroadPhase) QueryCallback(proxyId int) bool {
	// A proxy cannot form a pair with itself.
	if proxyId == bp.M_queryProxyId {
		return true
	}

	bp.M_pairBuffer = append(bp.M_pairBuffer, makeB3Pair(proxyId, bp.M_queryProxyId))
	return true
}

/// Update the pairs and return this step's events: removals first, then
/// additions, each sorted by proxy ids. The returned slice is reused by the
/// next call.
func (bp *B3BroadPhase) UpdatePairs() []B3PairEvent {
	bp.M_events = bp.M_events[:0]

	moved := make(map[int]bool, len(bp.M_moveBuffer))
	for _, proxyId := range bp.M_moveBuffer {
		if proxyId != E_nullProxy {
			moved[proxyId] = true
		}
	}
	if len(moved) == 0 {
		bp.M_moveBuffer = bp.M_moveBuffer[:0]
		return bp.M_events
	}

	// Pairs of moved proxies whose fat boxes separated.
	var removed []B3Pair
	for pair := range bp.M_pairs {
		if !moved[pair.ProxyIdA] && !moved[pair.ProxyIdB] {
			continue
		}
		if !bp.TestOverlap(pair.ProxyIdA, pair.ProxyIdB) {
			removed = append(removed, pair)
		}
	}
	sort.Slice(removed, func(i, j int) bool {
		return B3PairLessThan(removed[i], removed[j])
	})
	for _, pair := range removed {
		delete(bp.M_pairs, pair)
		bp.M_events = append(bp.M_events, B3PairEvent{
			Type:      B3PairEvent_Type.E_remove,
			UserDataA: bp.M_tree.GetUserData(pair.ProxyIdA),
			UserDataB: bp.M_tree.GetUserData(pair.ProxyIdB),
		})
	}

	// Perform tree queries for all moving proxies.
	bp.M_pairBuffer = bp.M_pairBuffer[:0]
	for _, proxyId := range bp.M_moveBuffer {
		bp.M_queryProxyId = proxyId
		if proxyId == E_nullProxy {
			continue
		}

		// We have to query the tree with the fat AABB so that
		// we don't fail to create a pair that may touch later.
		bp.M_tree.Query(bp.QueryCallback, bp.M_tree.GetFatAABB(proxyId))
	}
	bp.M_moveBuffer = bp.M_moveBuffer[:0]

	// Sort the pair buffer to expose duplicates.
	sort.Slice(bp.M_pairBuffer, func(i, j int) bool {
		return B3PairLessThan(bp.M_pairBuffer[i], bp.M_pairBuffer[j])
	})

	for i, pair := range bp.M_pairBuffer {
		if i > 0 && bp.M_pairBuffer[i-1] == pair {
			continue
		}
		if _, ok := bp.M_pairs[pair]; ok {
			continue
		}
		bp.M_pairs[pair] = struct{}{}
		bp.M_events = append(bp.M_events, B3PairEvent{
			Type:      B3PairEvent_Type.E_add,
			UserDataA: bp.M_tree.GetUserData(pair.ProxyIdA),
			UserDataB: bp.M_tree.GetUserData(pair.ProxyIdB),
		})
	}

	return bp.M_events
}

func (bp B3BroadPhase) Query(callback B3TreeQueryCallback, aabb B3AABB) {
	bp.M_tree.Query(callback, aabb)
}
