package box3d

import (
	"math"
)

// B3ReduceManifold turns a raw point set into a manifold of at most
// B3_maxManifoldPoints points. When there are too many, the kept points are
// chosen to cover the contact area:
//
//  1. the deepest point,
//  2. the point farthest from it,
//  3. the point farthest from the line through the first two,
//  4. the point with the largest summed distance to the first three.
//
// Points sharing an id are collapsed to the deepest one first. The result is
// ordered by id key so the same feature pairs land in the same slots every
// step.
func B3ReduceManifold(manifold *B3Manifold, raw *B3RawManifold) {
	manifold.PointCount = 0
	manifold.ChildKey = raw.ChildKey
	manifold.Normal = raw.Normal

	normal, _, ok := B3Vec3Normalize(raw.Normal)
	if !ok {
		return
	}
	manifold.Normal = normal
	manifold.Tangents[0], manifold.Tangents[1] = B3TangentBasis(normal)

	var unique [B3_maxRawManifoldPoints]int
	uniqueCount := 0
	for i := 0; i < raw.PointCount; i++ {
		key := raw.Points[i].Id.Key()
		found := -1
		for j := 0; j < uniqueCount; j++ {
			if raw.Points[unique[j]].Id.Key() == key {
				found = j
				break
			}
		}
		if found < 0 {
			unique[uniqueCount] = i
			uniqueCount++
			continue
		}
		if raw.Points[i].Penetration > raw.Points[unique[found]].Penetration {
			unique[found] = i
		}
	}

	if uniqueCount <= B3_maxManifoldPoints {
		for i := 0; i < uniqueCount; i++ {
			manifold.Points[i] = raw.Points[unique[i]]
		}
		manifold.PointCount = uniqueCount
		sortB3ManifoldPoints(manifold)
		return
	}

	var chosen [B3_maxManifoldPoints]int
	var used [B3_maxRawManifoldPoints]bool

	// 1. deepest
	chosen[0] = unique[0]
	for i := 1; i < uniqueCount; i++ {
		if raw.Points[unique[i]].Penetration > raw.Points[chosen[0]].Penetration {
			chosen[0] = unique[i]
		}
	}
	used[chosen[0]] = true
	p0 := raw.Points[chosen[0]].Point

	// 2. farthest from the deepest
	chosen[1] = b3PickFarthest(raw, unique[:uniqueCount], &used, func(i int) float64 {
		return B3Vec3DistanceSquared(raw.Points[i].Point, p0)
	})
	used[chosen[1]] = true
	p1 := raw.Points[chosen[1]].Point

	// 3. farthest from the line p0-p1
	axis, _, axisOk := B3Vec3Normalize(p1.Sub(p0))
	chosen[2] = b3PickFarthest(raw, unique[:uniqueCount], &used, func(i int) float64 {
		d := raw.Points[i].Point.Sub(p0)
		if !axisOk {
			return d.LenSqr()
		}
		return d.Sub(axis.Mul(d.Dot(axis))).LenSqr()
	})
	used[chosen[2]] = true
	p2 := raw.Points[chosen[2]].Point

	// 4. largest summed distance to the first three
	chosen[3] = b3PickFarthest(raw, unique[:uniqueCount], &used, func(i int) float64 {
		p := raw.Points[i].Point
		return math.Sqrt(B3Vec3DistanceSquared(p, p0)) +
			math.Sqrt(B3Vec3DistanceSquared(p, p1)) +
			math.Sqrt(B3Vec3DistanceSquared(p, p2))
	})

	for i := 0; i < B3_maxManifoldPoints; i++ {
		manifold.Points[i] = raw.Points[chosen[i]]
	}
	manifold.PointCount = B3_maxManifoldPoints
	sortB3ManifoldPoints(manifold)
}

func b3PickFarthest(raw *B3RawManifold, candidates []int, used *[B3_maxRawManifoldPoints]bool, score func(i int) float64) int {
	best := -1
	bestScore := -1.0
	for _, i := range candidates {
		if used[i] {
			continue
		}
		s := score(i)
		if s > bestScore {
			best = i
			bestScore = s
		}
	}
	B3Assert(best >= 0)
	return best
}

// Insertion sort by id key, stable. There are at most B3_maxManifoldPoints
// points and this runs for every manifold of every step.
func sortB3ManifoldPoints(manifold *B3Manifold) {
	for i := 1; i < manifold.PointCount; i++ {
		point := manifold.Points[i]
		key := point.Id.Key()
		j := i
		for j > 0 && manifold.Points[j-1].Id.Key() > key {
			manifold.Points[j] = manifold.Points[j-1]
			j--
		}
		manifold.Points[j] = point
	}
}

// b3MergeManifold copies the accumulated impulses of every point in old
// whose id reappears in manifold. New points start from zero. It reports
// whether a point was added or removed.
func b3MergeManifold(manifold *B3Manifold, old *B3Manifold) bool {
	if old == nil {
		for i := 0; i < manifold.PointCount; i++ {
			manifold.Points[i].NormalImpulse = 0.0
			manifold.Points[i].TangentImpulse = [2]float64{}
		}
		return manifold.PointCount > 0
	}

	matched := 0
	for i := 0; i < manifold.PointCount; i++ {
		mp2 := &manifold.Points[i]
		mp2.NormalImpulse = 0.0
		mp2.TangentImpulse = [2]float64{}

		id2 := mp2.Id.Key()
		for j := 0; j < old.PointCount; j++ {
			mp1 := &old.Points[j]
			if mp1.Id.Key() == id2 {
				mp2.NormalImpulse = mp1.NormalImpulse
				mp2.TangentImpulse = mp1.TangentImpulse
				matched++
				break
			}
		}
	}

	return matched != manifold.PointCount || matched != old.PointCount
}
