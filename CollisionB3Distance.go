package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B3Distance.h
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

/// A distance proxy is used by the GJK algorithm.
/// It encapsulates any convex shape as a vertex cloud plus a radius.
type B3DistanceProxy struct {
	M_buffer   [1]mgl64.Vec3
	M_vertices []mgl64.Vec3
	M_radius   float64
}

func MakeB3DistanceProxy() B3DistanceProxy {
	return B3DistanceProxy{}
}

func NewB3DistanceProxy() *B3DistanceProxy {
	res := MakeB3DistanceProxy()
	return &res
}

/// Used to warm start B3Distance.
/// Set count to zero on first call.
type B3SimplexCache struct {
	Count  int
	IndexA [4]int ///< vertices on shape A
	IndexB [4]int ///< vertices on shape B
}

func MakeB3SimplexCache() B3SimplexCache {
	return B3SimplexCache{}
}

/// Input for B3Distance.
/// You have to option to use the shape radii
/// in the computation.
type B3DistanceInput struct {
	ProxyA     B3DistanceProxy
	ProxyB     B3DistanceProxy
	TransformA B3Transform
	TransformB B3Transform
	UseRadii   bool
}

func MakeB3DistanceInput() B3DistanceInput {
	return B3DistanceInput{
		TransformA: MakeB3Transform(),
		TransformB: MakeB3Transform(),
	}
}

/// Output for B3Distance.
type B3DistanceOutput struct {
	PointA     mgl64.Vec3 ///< closest point on shapeA
	PointB     mgl64.Vec3 ///< closest point on shapeB
	Distance   float64
	Iterations int ///< number of GJK iterations used
}

// //////////////////////////////////////////////////////////////////////////

func (p B3DistanceProxy) GetVertexCount() int {
	return len(p.M_vertices)
}

func (p B3DistanceProxy) GetVertex(index int) mgl64.Vec3 {
	B3Assert(0 <= index && index < len(p.M_vertices))
	return p.M_vertices[index]
}

func (p B3DistanceProxy) GetSupport(d mgl64.Vec3) int {
	bestIndex := 0
	bestValue := p.M_vertices[0].Dot(d)
	for i := 1; i < len(p.M_vertices); i++ {
		value := p.M_vertices[i].Dot(d)
		if value > bestValue {
			bestIndex = i
			bestValue = value
		}
	}

	return bestIndex
}

func (p B3DistanceProxy) GetSupportVertex(d mgl64.Vec3) mgl64.Vec3 {
	return p.M_vertices[p.GetSupport(d)]
}

/// Farthest distance from the local origin to the rounded hull.
func (p B3DistanceProxy) GetMaximumRadius() float64 {
	maximum := 0.0
	for _, v := range p.M_vertices {
		maximum = math.Max(maximum, v.Len())
	}
	return maximum + p.M_radius
}

/// Initialize the proxy using the given convex shape. The shape
/// must remain in scope while the proxy is in use.
func (p *B3DistanceProxy) Set(shape B3ShapeInterface) {
	switch shape.GetType() {
	case B3Shape_Type.E_sphere:
		sphere := shape.(*B3SphereShape)
		p.M_buffer[0] = sphere.M_p
		p.M_vertices = p.M_buffer[:]
		p.M_radius = sphere.M_radius

	case B3Shape_Type.E_polyhedron:
		poly := shape.(*B3PolyhedronShape)
		p.M_vertices = poly.M_vertices
		p.M_radius = poly.M_radius

	default:
		B3Assertf(false, "distance proxy needs a convex shape, got %s", B3ShapeTypeName(shape.GetType()))
	}
}

/// Initialize the proxy from a raw vertex cloud.
func (p *B3DistanceProxy) SetVertices(vertices []mgl64.Vec3, radius float64) {
	B3Assert(len(vertices) > 0)
	p.M_vertices = vertices
	p.M_radius = radius
}

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B3Distance.cpp
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

type B3SimplexVertex struct {
	WA     mgl64.Vec3 // support point in proxyA
	WB     mgl64.Vec3 // support point in proxyB
	W      mgl64.Vec3 // wB - wA
	A      float64    // barycentric coordinate for closest point
	IndexA int        // wA index
	IndexB int        // wB index
}

type B3Simplex struct {
	M_vs    [4]B3SimplexVertex
	M_count int
}

func (simplex *B3Simplex) ReadCache(cache *B3SimplexCache, proxyA *B3DistanceProxy, transformA B3Transform, proxyB *B3DistanceProxy, transformB B3Transform) {
	B3Assert(cache.Count <= 4)

	// Copy data from cache.
	simplex.M_count = 0
	for i := 0; i < cache.Count; i++ {
		if cache.IndexA[i] >= proxyA.GetVertexCount() || cache.IndexB[i] >= proxyB.GetVertexCount() {
			// Stale cache from a different shape.
			simplex.M_count = 0
			break
		}
		v := &simplex.M_vs[simplex.M_count]
		v.IndexA = cache.IndexA[i]
		v.IndexB = cache.IndexB[i]
		v.WA = B3TransformVec3Mul(transformA, proxyA.GetVertex(v.IndexA))
		v.WB = B3TransformVec3Mul(transformB, proxyB.GetVertex(v.IndexB))
		v.W = v.WB.Sub(v.WA)
		v.A = 1.0 / float64(cache.Count)
		simplex.M_count++
	}

	// If the cache is empty or invalid ...
	if simplex.M_count == 0 {
		v := &simplex.M_vs[0]
		v.IndexA = 0
		v.IndexB = 0
		v.WA = B3TransformVec3Mul(transformA, proxyA.GetVertex(0))
		v.WB = B3TransformVec3Mul(transformB, proxyB.GetVertex(0))
		v.W = v.WB.Sub(v.WA)
		v.A = 1.0
		simplex.M_count = 1
	}
}

func (simplex B3Simplex) WriteCache(cache *B3SimplexCache) {
	cache.Count = simplex.M_count
	for i := 0; i < simplex.M_count; i++ {
		cache.IndexA[i] = simplex.M_vs[i].IndexA
		cache.IndexB[i] = simplex.M_vs[i].IndexB
	}
}

func (simplex B3Simplex) GetClosestPoint() mgl64.Vec3 {
	p := B3Vec3_zero
	for i := 0; i < simplex.M_count; i++ {
		p = p.Add(simplex.M_vs[i].W.Mul(simplex.M_vs[i].A))
	}
	return p
}

func (simplex B3Simplex) GetWitnessPoints(pA *mgl64.Vec3, pB *mgl64.Vec3) {
	*pA = B3Vec3_zero
	*pB = B3Vec3_zero
	for i := 0; i < simplex.M_count; i++ {
		*pA = pA.Add(simplex.M_vs[i].WA.Mul(simplex.M_vs[i].A))
		*pB = pB.Add(simplex.M_vs[i].WB.Mul(simplex.M_vs[i].A))
	}
}

// Keep the vertices with a positive weight, in order.
func (simplex *B3Simplex) reduce(weights [4]float64) {
	count := 0
	for i := 0; i < simplex.M_count; i++ {
		if weights[i] <= 0.0 {
			continue
		}
		simplex.M_vs[count] = simplex.M_vs[i]
		simplex.M_vs[count].A = weights[i]
		count++
	}
	B3Assert(count > 0)
	simplex.M_count = count
}

// Solve a line segment using barycentric coordinates.
func b3SolveSegment(w1, w2 mgl64.Vec3) (float64, float64) {
	e12 := w2.Sub(w1)

	// w1 region
	d12_2 := -w1.Dot(e12)
	if d12_2 <= 0.0 {
		return 1.0, 0.0
	}

	// w2 region
	d12_1 := w2.Dot(e12)
	if d12_1 <= 0.0 {
		return 0.0, 1.0
	}

	// Must be in e12 region.
	inv_d12 := 1.0 / (d12_1 + d12_2)
	return d12_1 * inv_d12, d12_2 * inv_d12
}

// Closest point of triangle abc to the origin as barycentric weights.
// Voronoi region walk from Real-Time Collision Detection, 5.1.5.
func b3SolveTriangle(a, b, c mgl64.Vec3) [3]float64 {
	ab := b.Sub(a)
	ac := c.Sub(a)

	d1 := -ab.Dot(a)
	d2 := -ac.Dot(a)
	if d1 <= 0.0 && d2 <= 0.0 {
		return [3]float64{1.0, 0.0, 0.0}
	}

	d3 := -ab.Dot(b)
	d4 := -ac.Dot(b)
	if d3 >= 0.0 && d4 <= d3 {
		return [3]float64{0.0, 1.0, 0.0}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0.0 && d1 >= 0.0 && d3 <= 0.0 {
		w1, w2 := b3SolveSegment(a, b)
		return [3]float64{w1, w2, 0.0}
	}

	d5 := -ab.Dot(c)
	d6 := -ac.Dot(c)
	if d6 >= 0.0 && d5 <= d6 {
		return [3]float64{0.0, 0.0, 1.0}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0.0 && d2 >= 0.0 && d6 <= 0.0 {
		w1, w3 := b3SolveSegment(a, c)
		return [3]float64{w1, 0.0, w3}
	}

	va := d3*d6 - d5*d4
	if va <= 0.0 && (d4-d3) >= 0.0 && (d5-d6) >= 0.0 {
		w2, w3 := b3SolveSegment(b, c)
		return [3]float64{0.0, w2, w3}
	}

	sum := va + vb + vc
	if sum <= B3_epsilon {
		// Degenerate triangle: take the best edge.
		return b3SolveDegenerateTriangle(a, b, c)
	}

	inv := 1.0 / sum
	v := vb * inv
	w := vc * inv
	return [3]float64{1.0 - v - w, v, w}
}

func b3SolveDegenerateTriangle(a, b, c mgl64.Vec3) [3]float64 {
	vertices := [3]mgl64.Vec3{a, b, c}
	edges := [3][2]int{{0, 1}, {0, 2}, {1, 2}}

	var best [3]float64
	bestDistance := B3_maxFloat
	for _, edge := range edges {
		w1, w2 := b3SolveSegment(vertices[edge[0]], vertices[edge[1]])
		p := vertices[edge[0]].Mul(w1).Add(vertices[edge[1]].Mul(w2))
		if d := p.LenSqr(); d < bestDistance {
			bestDistance = d
			best = [3]float64{}
			best[edge[0]] = w1
			best[edge[1]] = w2
		}
	}
	return best
}

// Closest point of the tetrahedron to the origin. Returns ok == false
// with all four weights when the origin is inside.
func b3SolveTetrahedron(w [4]mgl64.Vec3) (weights [4]float64, inside bool) {
	faces := [4][4]int{
		{0, 1, 2, 3},
		{0, 2, 3, 1},
		{0, 3, 1, 2},
		{1, 3, 2, 0},
	}

	bestDistance := B3_maxFloat
	outsideAny := false
	for _, face := range faces {
		a, b, c, d := w[face[0]], w[face[1]], w[face[2]], w[face[3]]
		n := b.Sub(a).Cross(c.Sub(a))
		signOrigin := -a.Dot(n)
		signOpposite := d.Sub(a).Dot(n)

		// Origin on the far side of this face, or a flat tetrahedron.
		if signOrigin*signOpposite > 0.0 && math.Abs(signOpposite) > B3_epsilon {
			continue
		}
		outsideAny = true

		tri := b3SolveTriangle(a, b, c)
		p := a.Mul(tri[0]).Add(b.Mul(tri[1])).Add(c.Mul(tri[2]))
		if distance := p.LenSqr(); distance < bestDistance {
			bestDistance = distance
			weights = [4]float64{}
			weights[face[0]] = tri[0]
			weights[face[1]] = tri[1]
			weights[face[2]] = tri[2]
		}
	}

	if outsideAny {
		return weights, false
	}

	// Barycentric coordinates of the origin from signed volumes.
	volume := w[1].Sub(w[0]).Cross(w[2].Sub(w[0])).Dot(w[3].Sub(w[0]))
	if math.Abs(volume) <= B3_epsilon {
		return b3SolveTetrahedronFaces(w), false
	}
	inv := 1.0 / volume
	weights[1] = w[0].Mul(-1).Cross(w[2].Sub(w[0])).Dot(w[3].Sub(w[0])) * inv
	weights[2] = w[1].Sub(w[0]).Cross(w[0].Mul(-1)).Dot(w[3].Sub(w[0])) * inv
	weights[3] = w[1].Sub(w[0]).Cross(w[2].Sub(w[0])).Dot(w[0].Mul(-1)) * inv
	weights[0] = 1.0 - weights[1] - weights[2] - weights[3]
	return weights, true
}

func b3SolveTetrahedronFaces(w [4]mgl64.Vec3) [4]float64 {
	var best [4]float64
	bestDistance := B3_maxFloat
	for skip := 0; skip < 4; skip++ {
		var idx [3]int
		k := 0
		for i := 0; i < 4; i++ {
			if i != skip {
				idx[k] = i
				k++
			}
		}
		tri := b3SolveTriangle(w[idx[0]], w[idx[1]], w[idx[2]])
		p := w[idx[0]].Mul(tri[0]).Add(w[idx[1]].Mul(tri[1])).Add(w[idx[2]].Mul(tri[2]))
		if distance := p.LenSqr(); distance < bestDistance {
			bestDistance = distance
			best = [4]float64{}
			for j := 0; j < 3; j++ {
				best[idx[j]] = tri[j]
			}
		}
	}
	return best
}

// Solve reduces the simplex to the smallest sub-simplex containing the
// closest point to the origin. It reports whether the origin is enclosed.
func (simplex *B3Simplex) Solve() bool {
	vs := &simplex.M_vs
	switch simplex.M_count {
	case 1:
		vs[0].A = 1.0
		return false

	case 2:
		w1, w2 := b3SolveSegment(vs[0].W, vs[1].W)
		simplex.reduce([4]float64{w1, w2})
		return false

	case 3:
		tri := b3SolveTriangle(vs[0].W, vs[1].W, vs[2].W)
		simplex.reduce([4]float64{tri[0], tri[1], tri[2]})
		return false

	case 4:
		weights, inside := b3SolveTetrahedron([4]mgl64.Vec3{vs[0].W, vs[1].W, vs[2].W, vs[3].W})
		if inside {
			for i := 0; i < 4; i++ {
				vs[i].A = weights[i]
			}
			return true
		}
		simplex.reduce(weights)
		return false
	}

	B3Assert(false)
	return false
}

/// Compute the closest points between two shapes. Supports any combination of:
/// B3SphereShape, B3PolyhedronShape or raw vertex clouds. On the first call
/// set B3SimplexCache.Count to zero.
func B3Distance(output *B3DistanceOutput, cache *B3SimplexCache, input *B3DistanceInput) {
	proxyA := &input.ProxyA
	proxyB := &input.ProxyB

	transformA := input.TransformA
	transformB := input.TransformB

	// Initialize the simplex.
	simplex := B3Simplex{}
	simplex.ReadCache(cache, proxyA, transformA, proxyB, transformB)

	vertices := &simplex.M_vs

	// These store the vertices of the last simplex so that we
	// can check for duplicates and prevent cycling.
	var saveA, saveB [4]int
	saveCount := 0

	overlapped := false

	// Main iteration loop.
	iter := 0
	for iter < B3_maxGJKIterations {
		// Copy simplex so we can identify duplicates.
		saveCount = simplex.M_count
		for i := 0; i < saveCount; i++ {
			saveA[i] = vertices[i].IndexA
			saveB[i] = vertices[i].IndexB
		}

		// If we have 4 points, then the origin is in the corresponding tetrahedron.
		if simplex.Solve() {
			overlapped = true
			break
		}

		// Search toward the origin from the closest point.
		closest := simplex.GetClosestPoint()
		if closest.LenSqr() < B3_epsilon*B3_epsilon {
			// The origin is on the simplex: the cores touch or overlap.
			overlapped = true
			break
		}
		d := closest.Mul(-1)

		// Compute a tentative new simplex vertex using support points.
		vertex := &vertices[simplex.M_count]
		vertex.IndexA = proxyA.GetSupport(B3RotVec3MulT(transformA.Q, closest))
		vertex.WA = B3TransformVec3Mul(transformA, proxyA.GetVertex(vertex.IndexA))
		vertex.IndexB = proxyB.GetSupport(B3RotVec3MulT(transformB.Q, d))
		vertex.WB = B3TransformVec3Mul(transformB, proxyB.GetVertex(vertex.IndexB))
		vertex.W = vertex.WB.Sub(vertex.WA)

		// Iteration count is equated to the number of support point calls.
		iter++

		// Check for duplicate support points. This is the main termination criteria.
		duplicate := false
		for i := 0; i < saveCount; i++ {
			if vertex.IndexA == saveA[i] && vertex.IndexB == saveB[i] {
				duplicate = true
				break
			}
		}
		if duplicate {
			break
		}

		// No progress toward the origin along d.
		if vertex.W.Dot(d)-closest.Dot(d) <= B3_epsilon*math.Max(1.0, closest.LenSqr()) {
			break
		}

		// New vertex is ok and needed.
		simplex.M_count++
	}

	// Prepare output.
	simplex.GetWitnessPoints(&output.PointA, &output.PointB)
	output.Distance = output.PointB.Sub(output.PointA).Len()
	if overlapped {
		output.Distance = 0.0
	}
	output.Iterations = iter

	// Cache the simplex.
	simplex.WriteCache(cache)

	// Apply radii if requested.
	if input.UseRadii {
		rA := proxyA.M_radius
		rB := proxyB.M_radius

		if output.Distance > rA+rB && output.Distance > B3_epsilon {
			// Shapes are still no overlapped.
			// Move the witness points to the outer surface.
			output.Distance -= rA + rB
			normal, _, _ := B3Vec3Normalize(output.PointB.Sub(output.PointA))
			output.PointA = output.PointA.Add(normal.Mul(rA))
			output.PointB = output.PointB.Sub(normal.Mul(rB))
		} else {
			// Shapes are overlapped when radii are considered.
			// Move the witness points to the middle.
			p := output.PointA.Add(output.PointB).Mul(0.5)
			output.PointA = p
			output.PointB = p
			output.Distance = 0.0
		}
	}
}

/// Determine if two generic convex shapes overlap.
func B3TestOverlapShapes(shapeA B3ShapeInterface, shapeB B3ShapeInterface, xfA B3Transform, xfB B3Transform) bool {
	input := MakeB3DistanceInput()
	input.ProxyA.Set(shapeA)
	input.ProxyB.Set(shapeB)
	input.TransformA = xfA
	input.TransformB = xfB
	input.UseRadii = true

	cache := MakeB3SimplexCache()
	output := B3DistanceOutput{}

	B3Distance(&output, &cache, &input)

	return output.Distance < 10.0*B3_epsilon
}
