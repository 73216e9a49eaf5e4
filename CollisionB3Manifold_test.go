package box3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func makeTestID(index int) B3ContactID {
	return B3ContactID{
		IndexA: 0,
		IndexB: uint8(index),
		TypeA:  B3ContactFeature_Type.E_face,
		TypeB:  B3ContactFeature_Type.E_vertex,
	}
}

func TestReduceManifoldKeepsDeepest(t *testing.T) {
	var raw B3RawManifold
	raw.Reset(7)
	raw.Normal = mgl64.Vec3{0, 0, 1}

	// Ten points on a circle, the seventh one deepest.
	for i := 0; i < 10; i++ {
		angle := float64(i) * 2.0 * B3_pi / 10.0
		penetration := 0.01 * float64(i%3)
		if i == 7 {
			penetration = 0.5
		}
		point := mgl64.Vec3{math.Cos(angle), math.Sin(angle), 0}
		raw.AddPoint(point, raw.Normal, penetration, makeTestID(i))
	}

	var manifold B3Manifold
	B3ReduceManifold(&manifold, &raw)

	if manifold.PointCount != B3_maxManifoldPoints {
		t.Fatalf("expected %d points, got %d", B3_maxManifoldPoints, manifold.PointCount)
	}
	if manifold.ChildKey != 7 {
		t.Fatalf("child key not carried over, got %d", manifold.ChildKey)
	}

	deepest := manifold.GetDeepestIndex()
	if manifold.Points[deepest].Id.IndexB != 7 {
		t.Fatalf("deepest point dropped, kept %v", manifold.Points[deepest].Id)
	}

	// Points are ordered by id key.
	for i := 1; i < manifold.PointCount; i++ {
		if manifold.Points[i-1].Id.Key() >= manifold.Points[i].Id.Key() {
			t.Fatalf("points not ordered by id: %v", manifold.Points[:manifold.PointCount])
		}
	}

	// The second point is the one opposite the deepest.
	found := false
	for i := 0; i < manifold.PointCount; i++ {
		if manifold.Points[i].Id.IndexB == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("farthest point from the deepest was dropped")
	}
}

func TestReduceManifoldCollapsesDuplicateIds(t *testing.T) {
	var raw B3RawManifold
	raw.Reset(0)
	raw.Normal = mgl64.Vec3{0, 2, 0}

	raw.AddPoint(mgl64.Vec3{0, 0, 0}, raw.Normal, 0.1, makeTestID(1))
	raw.AddPoint(mgl64.Vec3{0, 0, 0}, raw.Normal, 0.3, makeTestID(1))
	raw.AddPoint(mgl64.Vec3{1, 0, 0}, raw.Normal, 0.2, makeTestID(2))

	var manifold B3Manifold
	B3ReduceManifold(&manifold, &raw)

	if manifold.PointCount != 2 {
		t.Fatalf("expected 2 points, got %d", manifold.PointCount)
	}
	if manifold.Points[0].Penetration != 0.3 {
		t.Fatalf("expected the deeper duplicate to win, got %v", manifold.Points[0].Penetration)
	}
	if manifold.Normal != (mgl64.Vec3{0, 1, 0}) {
		t.Fatalf("normal should be normalized, got %v", manifold.Normal)
	}
	if d := manifold.Tangents[0].Dot(manifold.Normal); d > 1e-12 || d < -1e-12 {
		t.Fatalf("tangent not orthogonal to the normal")
	}
}

func TestReduceManifoldDegenerateNormal(t *testing.T) {
	var raw B3RawManifold
	raw.Reset(0)
	raw.AddPoint(mgl64.Vec3{0, 0, 0}, B3Vec3_zero, 0.1, makeTestID(1))

	var manifold B3Manifold
	B3ReduceManifold(&manifold, &raw)
	if manifold.PointCount != 0 {
		t.Fatalf("a manifold without normal should be empty, got %d points", manifold.PointCount)
	}
}

func TestMergeManifoldCarriesImpulses(t *testing.T) {
	var old B3Manifold
	old.PointCount = 2
	old.Points[0].Id = makeTestID(1)
	old.Points[0].NormalImpulse = 3.0
	old.Points[0].TangentImpulse = [2]float64{1.0, -1.0}
	old.Points[1].Id = makeTestID(2)
	old.Points[1].NormalImpulse = 5.0

	var manifold B3Manifold
	manifold.PointCount = 2
	manifold.Points[0].Id = makeTestID(1)
	manifold.Points[0].NormalImpulse = 99.0
	manifold.Points[1].Id = makeTestID(3)
	manifold.Points[1].NormalImpulse = 99.0

	changed := b3MergeManifold(&manifold, &old)
	if !changed {
		t.Fatalf("a lost and a new point should report a change")
	}
	if manifold.Points[0].NormalImpulse != 3.0 || manifold.Points[0].TangentImpulse != [2]float64{1.0, -1.0} {
		t.Fatalf("impulse not carried over: %+v", manifold.Points[0])
	}
	if manifold.Points[1].NormalImpulse != 0.0 {
		t.Fatalf("new point should start from zero, got %v", manifold.Points[1].NormalImpulse)
	}

	// Merging the same ids again is idempotent and reports no change.
	again := manifold
	if b3MergeManifold(&again, &manifold) {
		t.Fatalf("identical id sets should not report a change")
	}
	if again.Points[0].NormalImpulse != 3.0 || again.Points[1].NormalImpulse != 0.0 {
		t.Fatalf("second merge altered impulses: %+v", again.Points[:2])
	}
}

func TestMergeManifoldWithoutHistory(t *testing.T) {
	var manifold B3Manifold
	manifold.PointCount = 1
	manifold.Points[0].NormalImpulse = 4.0

	if !b3MergeManifold(&manifold, nil) {
		t.Fatalf("a first manifold with points is a change")
	}
	if manifold.Points[0].NormalImpulse != 0.0 {
		t.Fatalf("impulse should be reset, got %v", manifold.Points[0].NormalImpulse)
	}
}

func TestGetPointStates(t *testing.T) {
	var manifold1, manifold2 B3Manifold
	manifold1.PointCount = 2
	manifold1.Points[0].Id = makeTestID(1)
	manifold1.Points[1].Id = makeTestID(2)
	manifold2.PointCount = 2
	manifold2.Points[0].Id = makeTestID(2)
	manifold2.Points[1].Id = makeTestID(3)

	var state1, state2 [B3_maxManifoldPoints]uint8
	B3GetPointStates(&state1, &state2, manifold1, manifold2)

	if state1[0] != B3PointState.B3_removeState || state1[1] != B3PointState.B3_persistState {
		t.Fatalf("unexpected old states %v", state1)
	}
	if state2[0] != B3PointState.B3_persistState || state2[1] != B3PointState.B3_addState {
		t.Fatalf("unexpected new states %v", state2)
	}
	if state1[2] != B3PointState.B3_nullState || state2[3] != B3PointState.B3_nullState {
		t.Fatalf("unused slots should be null")
	}
}

func TestClipPolygonToPlane(t *testing.T) {
	square := []B3ClipVertex{
		{V: mgl64.Vec3{-1, -1, 0}, Id: makeTestID(0), Forward: 0},
		{V: mgl64.Vec3{1, -1, 0}, Id: makeTestID(1), Forward: 1},
		{V: mgl64.Vec3{1, 1, 0}, Id: makeTestID(2), Forward: 2},
		{V: mgl64.Vec3{-1, 1, 0}, Id: makeTestID(3), Forward: 3},
	}

	var out [8]B3ClipVertex
	count := B3ClipPolygonToPlane(out[:], square, mgl64.Vec3{1, 0, 0}, 0.0, 5)
	if count != 4 {
		t.Fatalf("expected 4 vertices, got %d", count)
	}

	clipped := 0
	for _, v := range out[:count] {
		if v.V[0] > 1e-12 {
			t.Fatalf("vertex %v on the wrong side of the plane", v.V)
		}
		if v.Id.TypeA == B3ContactFeature_Type.E_edge && v.Id.IndexA == 5 {
			clipped++
		}
	}
	if clipped != 2 {
		t.Fatalf("expected 2 vertices created on the clip plane, got %d", clipped)
	}

	// Entirely outside.
	if count := B3ClipPolygonToPlane(out[:], square, mgl64.Vec3{1, 0, 0}, -2.0, 0); count != 0 {
		t.Fatalf("expected no vertices, got %d", count)
	}
}

func TestReduceManifoldDoesNotAllocate(t *testing.T) {
	var raw B3RawManifold
	raw.Reset(0)
	raw.Normal = mgl64.Vec3{0, 1, 0}
	for i := 0; i < 10; i++ {
		angle := float64(i) * 2.0 * B3_pi / 10.0
		point := mgl64.Vec3{math.Cos(angle), 0, math.Sin(angle)}
		raw.AddPoint(point, raw.Normal, 0.01*float64(i), makeTestID(9-i))
	}

	var manifold B3Manifold
	allocs := testing.AllocsPerRun(100, func() {
		B3ReduceManifold(&manifold, &raw)
	})
	if allocs != 0 {
		t.Fatalf("reduction allocated %v times per call", allocs)
	}
	if manifold.PointCount != B3_maxManifoldPoints {
		t.Fatalf("expected %d points, got %d", B3_maxManifoldPoints, manifold.PointCount)
	}
	for i := 1; i < manifold.PointCount; i++ {
		if manifold.Points[i-1].Id.Key() >= manifold.Points[i].Id.Key() {
			t.Fatalf("points not ordered by id: %v", manifold.Points[:manifold.PointCount])
		}
	}
}
