package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B3Collision.h
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

const B3_nullFeature uint8 = math.MaxUint8

var B3ContactFeature_Type = struct {
	E_vertex uint8
	E_edge   uint8
	E_face   uint8
}{
	E_vertex: 0,
	E_edge:   1,
	E_face:   2,
}

/// The features that intersect to form the contact point
/// This must be 4 bytes or less.
type B3ContactFeature struct {
	IndexA uint8 ///< Feature index on shapeA
	IndexB uint8 ///< Feature index on shapeB
	TypeA  uint8 ///< The feature type on shapeA
	TypeB  uint8 ///< The feature type on shapeB
}

func MakeB3ContactFeature() B3ContactFeature {
	return B3ContactFeature{}
}

type B3ContactID B3ContactFeature

/// Contact ids to facilitate warm starting.
///< Used to quickly compare contact ids.
func (v B3ContactID) Key() uint32 {
	var key uint32 = 0
	key |= uint32(v.IndexA)
	key |= uint32(v.IndexB) << 8
	key |= uint32(v.TypeA) << 16
	key |= uint32(v.TypeB) << 24
	return key
}

func (v *B3ContactID) SetKey(key uint32) {
	(*v).IndexA = uint8(key & 0xFF)
	(*v).IndexB = byte(key >> 8 & 0xFF)
	(*v).TypeA = byte(key >> 16 & 0xFF)
	(*v).TypeB = byte(key >> 24 & 0xFF)
}

// Swapped exchanges the A and B halves, used when a test ran with its
// arguments flipped.
func (v B3ContactID) Swapped() B3ContactID {
	return B3ContactID{
		IndexA: v.IndexB,
		IndexB: v.IndexA,
		TypeA:  v.TypeB,
		TypeB:  v.TypeA,
	}
}

/// A manifold point is a contact point belonging to a contact
/// manifold. It holds details related to the geometry and dynamics
/// of the contact points. Geometry is recomputed every step in world
/// space; only the impulses survive from one step to the next.
/// Note: the impulses are used for internal caching and may not
/// provide reliable contact forces, especially for high speed collisions.
type B3ManifoldPoint struct {
	Point          mgl64.Vec3  ///< world contact point, midway between the surfaces
	Normal         mgl64.Vec3  ///< world normal pointing from A to B
	Penetration    float64     ///< overlap depth, negative for a speculative (separated) point
	NormalImpulse  float64     ///< the non-penetration impulse
	TangentImpulse [2]float64  ///< the friction impulses along the manifold tangents
	Id             B3ContactID ///< uniquely identifies a contact point between two shapes
}

/// A manifold for one convex sub-pair. Compound, terrain and mesh pairs
/// hold one manifold per sub-pair, told apart by ChildKey.
/// This structure is stored across time steps, so we keep it small.
type B3Manifold struct {
	Points     [B3_maxManifoldPoints]B3ManifoldPoint ///< the points of contact
	Normal     mgl64.Vec3                            ///< world normal pointing from A to B
	Tangents   [2]mgl64.Vec3                         ///< friction directions
	ChildKey   uint64                                ///< identifies the sub-pair
	PointCount int                                   ///< the number of manifold points
}

func NewB3Manifold() *B3Manifold {
	return &B3Manifold{}
}

func (m B3Manifold) GetDeepestIndex() int {
	if m.PointCount == 0 {
		return -1
	}
	best := 0
	for i := 1; i < m.PointCount; i++ {
		if m.Points[i].Penetration > m.Points[best].Penetration {
			best = i
		}
	}
	return best
}

/// Output of a single narrow-phase test before reduction. Clipping two
/// faces can produce more points than a manifold keeps.
type B3RawManifold struct {
	Points     [B3_maxRawManifoldPoints]B3ManifoldPoint
	Normal     mgl64.Vec3
	ChildKey   uint64
	PointCount int
}

func (m *B3RawManifold) Reset(childKey uint64) {
	m.PointCount = 0
	m.ChildKey = childKey
	m.Normal = B3Vec3_zero
}

func (m *B3RawManifold) AddPoint(point mgl64.Vec3, normal mgl64.Vec3, penetration float64, id B3ContactID) {
	if m.PointCount == B3_maxRawManifoldPoints {
		return
	}
	if !B3Vec3IsValid(point) || !B3Vec3IsValid(normal) || !B3IsValid(penetration) {
		return
	}
	mp := &m.Points[m.PointCount]
	mp.Point = point
	mp.Normal = normal
	mp.Penetration = penetration
	mp.NormalImpulse = 0.0
	mp.TangentImpulse = [2]float64{}
	mp.Id = id
	m.PointCount++
}

// Flip converts a manifold computed for (B, A) into one for (A, B).
func (m *B3RawManifold) Flip() {
	m.Normal = m.Normal.Mul(-1)
	for i := 0; i < m.PointCount; i++ {
		m.Points[i].Normal = m.Points[i].Normal.Mul(-1)
		m.Points[i].Id = m.Points[i].Id.Swapped()
	}
}

var B3PointState = struct {
	B3_nullState    uint8 ///< point does not exist
	B3_addState     uint8 ///< point was added in the update
	B3_persistState uint8 ///< point persisted across the update
	B3_removeState  uint8 ///< point was removed in the update
}{
	B3_nullState:    0,
	B3_addState:     1,
	B3_persistState: 2,
	B3_removeState:  3,
}

/// Used for computing contact manifolds.
type B3ClipVertex struct {
	V  mgl64.Vec3
	Id B3ContactID

	// Feature carrying the polygon from this vertex to the next one: an
	// incident edge, or a clip plane once clipping has cut a corner.
	Forward       uint8
	ForwardOnClip bool
}

/// An axis aligned bounding box.
type B3AABB struct {
	LowerBound mgl64.Vec3 ///< the lower vertex
	UpperBound mgl64.Vec3 ///< the upper vertex
}

func MakeB3AABB() B3AABB {
	return B3AABB{}
}

func NewB3AABB() *B3AABB {
	res := MakeB3AABB()
	return &res
}

func MakeB3AABBFromPoints(points ...mgl64.Vec3) B3AABB {
	B3Assert(len(points) > 0)
	bb := B3AABB{LowerBound: points[0], UpperBound: points[0]}
	for _, p := range points[1:] {
		bb.LowerBound = B3Vec3Min(bb.LowerBound, p)
		bb.UpperBound = B3Vec3Max(bb.UpperBound, p)
	}
	return bb
}

/// Get the center of the AABB.
func (bb B3AABB) GetCenter() mgl64.Vec3 {
	return bb.LowerBound.Add(bb.UpperBound).Mul(0.5)
}

/// Get the extents of the AABB (half-widths).
func (bb B3AABB) GetExtents() mgl64.Vec3 {
	return bb.UpperBound.Sub(bb.LowerBound).Mul(0.5)
}

/// Get the surface area. Used as the tree insertion cost.
func (bb B3AABB) GetPerimeter() float64 {
	d := bb.UpperBound.Sub(bb.LowerBound)
	return 2.0 * (d[0]*d[1] + d[1]*d[2] + d[2]*d[0])
}

/// Combine an AABB into this one.
func (bb *B3AABB) CombineInPlace(aabb B3AABB) {
	bb.LowerBound = B3Vec3Min(bb.LowerBound, aabb.LowerBound)
	bb.UpperBound = B3Vec3Max(bb.UpperBound, aabb.UpperBound)
}

/// Combine two AABBs into this one.
func (bb *B3AABB) CombineTwoInPlace(aabb1, aabb2 B3AABB) {
	bb.LowerBound = B3Vec3Min(aabb1.LowerBound, aabb2.LowerBound)
	bb.UpperBound = B3Vec3Max(aabb1.UpperBound, aabb2.UpperBound)
}

/// Does this aabb contain the provided AABB.
func (bb B3AABB) Contains(aabb B3AABB) bool {
	for i := 0; i < 3; i++ {
		if aabb.LowerBound[i] < bb.LowerBound[i] || bb.UpperBound[i] < aabb.UpperBound[i] {
			return false
		}
	}
	return true
}

func (bb B3AABB) IsValid() bool {
	d := bb.UpperBound.Sub(bb.LowerBound)
	valid := d[0] >= 0.0 && d[1] >= 0.0 && d[2] >= 0.0
	valid = valid && B3Vec3IsValid(bb.LowerBound) && B3Vec3IsValid(bb.UpperBound)
	return valid
}

// Extended grows the box by r on every side.
func (bb B3AABB) Extended(r float64) B3AABB {
	e := mgl64.Vec3{r, r, r}
	return B3AABB{
		LowerBound: bb.LowerBound.Sub(e),
		UpperBound: bb.UpperBound.Add(e),
	}
}

// Transformed returns the world box enclosing this local box under xf.
func (bb B3AABB) Transformed(xf B3Transform) B3AABB {
	center := B3TransformVec3Mul(xf, bb.GetCenter())
	extents := bb.GetExtents()

	m := xf.Q.Mat4()
	var e mgl64.Vec3
	for i := 0; i < 3; i++ {
		e[i] = math.Abs(m.At(i, 0))*extents[0] + math.Abs(m.At(i, 1))*extents[1] + math.Abs(m.At(i, 2))*extents[2]
	}

	return B3AABB{
		LowerBound: center.Sub(e),
		UpperBound: center.Add(e),
	}
}

func B3TestOverlapBoundingBoxes(a, b B3AABB) bool {
	for i := 0; i < 3; i++ {
		if b.LowerBound[i] > a.UpperBound[i] || a.LowerBound[i] > b.UpperBound[i] {
			return false
		}
	}
	return true
}

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B3Collision.cpp
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

/// Compute the point states given two manifolds. The states pertain to the transition from manifold1
/// to manifold2. So state1 is either persist or remove while state2 is either add or persist.
func B3GetPointStates(state1 *[B3_maxManifoldPoints]uint8, state2 *[B3_maxManifoldPoints]uint8, manifold1 B3Manifold, manifold2 B3Manifold) {

	for i := 0; i < B3_maxManifoldPoints; i++ {
		state1[i] = B3PointState.B3_nullState
		state2[i] = B3PointState.B3_nullState
	}

	// Detect persists and removes.
	for i := 0; i < manifold1.PointCount; i++ {
		id := manifold1.Points[i].Id

		state1[i] = B3PointState.B3_removeState

		for j := 0; j < manifold2.PointCount; j++ {
			if manifold2.Points[j].Id.Key() == id.Key() {
				state1[i] = B3PointState.B3_persistState
				break
			}
		}
	}

	// Detect persists and adds.
	for i := 0; i < manifold2.PointCount; i++ {
		id := manifold2.Points[i].Id

		state2[i] = B3PointState.B3_addState

		for j := 0; j < manifold1.PointCount; j++ {
			if manifold1.Points[j].Id.Key() == id.Key() {
				state2[i] = B3PointState.B3_persistState
				break
			}
		}
	}
}

// Sutherland-Hodgman clipping of a convex polygon against the plane
// dot(normal, x) = offset, keeping the side with dot(normal, x) <= offset.
// Points created on the plane are tagged with the clip plane on A and the
// feature the crossing segment lies on. Returns the number of output vertices.
func B3ClipPolygonToPlane(vOut []B3ClipVertex, vIn []B3ClipVertex, normal mgl64.Vec3, offset float64, clipPlaneIndex int) int {
	numIn := len(vIn)
	if numIn == 0 {
		return 0
	}

	numOut := 0
	prev := vIn[numIn-1]
	prevDistance := normal.Dot(prev.V) - offset

	for i := 0; i < numIn; i++ {
		current := vIn[i]
		distance := normal.Dot(current.V) - offset

		prevInside := prevDistance <= 0.0
		inside := distance <= 0.0

		// If the points are on different sides of the plane
		if prevInside != inside {
			denominator := prevDistance - distance
			if math.Abs(denominator) > B3_epsilon && numOut < len(vOut) {
				interp := prevDistance / denominator
				cv := &vOut[numOut]
				cv.V = prev.V.Add(current.V.Sub(prev.V).Mul(interp))

				cv.Id.IndexA = uint8(clipPlaneIndex)
				cv.Id.TypeA = B3ContactFeature_Type.E_edge
				cv.Id.IndexB = prev.Forward
				if prev.ForwardOnClip {
					cv.Id.TypeB = B3ContactFeature_Type.E_face
				} else {
					cv.Id.TypeB = B3ContactFeature_Type.E_edge
				}

				if prevInside {
					// Leaving: the next segment runs along the clip plane.
					cv.Forward = uint8(clipPlaneIndex)
					cv.ForwardOnClip = true
				} else {
					cv.Forward = prev.Forward
					cv.ForwardOnClip = prev.ForwardOnClip
				}
				numOut++
			}
		}

		if inside && numOut < len(vOut) {
			vOut[numOut] = current
			numOut++
		}

		prev = current
		prevDistance = distance
	}

	return numOut
}
