package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var B3Contact_Flag = struct {
	// Set when the shapes are touching.
	E_touchingFlag uint32

	// This contact can be disabled (by user)
	E_enabledFlag uint32

	// This contact needs filtering because a collidable filter was changed.
	E_filterFlag uint32

	// This contact has a valid TOI in M_toi
	E_toiFlag uint32
}{
	E_touchingFlag: 0x0002,
	E_enabledFlag:  0x0004,
	E_filterFlag:   0x0008,
	E_toiFlag:      0x0020,
}

/// Life cycle of a pair handler. Pooled handlers sit in E_uninitialized;
/// E_stale means one of the collidables disappeared under the handler.
var B3Contact_State = struct {
	E_uninitialized uint8
	E_active        uint8
	E_stale         uint8
}{
	E_uninitialized: 0,
	E_active:        1,
	E_stale:         2,
}

/// Bits returned by UpdateContacts. The contact manager turns them into
/// listener calls; handlers never call listeners themselves.
var B3ContactEvent = struct {
	E_stale         uint32
	E_pointsChanged uint32
	E_beginTouch    uint32
	E_endTouch      uint32
}{
	E_stale:         0x0001,
	E_pointsChanged: 0x0002,
	E_beginTouch:    0x0004,
	E_endTouch:      0x0008,
}

/// Read-only view of one contact point for the solver and for telemetry.
/// Forces are the accumulated impulses divided by the last step length.
type B3ContactInformation struct {
	Point            mgl64.Vec3
	Normal           mgl64.Vec3
	Penetration      float64
	NormalForce      mgl64.Vec3
	FrictionForce    mgl64.Vec3
	RelativeVelocity mgl64.Vec3 ///< velocity of B relative to A at the point
}

///////////////////////////////////////////////////////////////////////////////
// Narrow phase scratch
///////////////////////////////////////////////////////////////////////////////

/// Raw manifolds produced by one Evaluate call, one per sub-pair.
type B3ContactBuffer struct {
	Manifolds []B3RawManifold
	Count     int
	M_inUse   bool
}

func NewB3ContactBuffer() *B3ContactBuffer {
	return &B3ContactBuffer{
		Manifolds: make([]B3RawManifold, 0, 4),
	}
}

func (buffer *B3ContactBuffer) Begin() {
	buffer.Count = 0
	buffer.M_inUse = true
}

/// Next hands out a cleared raw manifold for the sub-pair childKey. The
/// pointer is only valid until the following call.
func (buffer *B3ContactBuffer) Next(childKey uint64) *B3RawManifold {
	if buffer.Count == len(buffer.Manifolds) {
		buffer.Manifolds = append(buffer.Manifolds, B3RawManifold{})
	}
	manifold := &buffer.Manifolds[buffer.Count]
	buffer.Count++
	manifold.Reset(childKey)
	return manifold
}

func (buffer *B3ContactBuffer) End() {
	buffer.Count = 0
	buffer.M_inUse = false
}

func (buffer *B3ContactBuffer) IsValid() bool {
	return buffer.M_inUse
}

/// Per-worker scratch state of the narrow phase. A context is never
/// shared between goroutines.
type B3NarrowPhaseContext struct {
	M_settings *B3Settings

	M_buffers   *B3Pool[*B3ContactBuffer]
	M_triangles *B3Pool[*B3TriangleBuffer]

	// Triangles of terrains and meshes are collided as flat polyhedra.
	M_triangle B3PolyhedronShape

	// Pre-transformed child vertices for time of impact proxies.
	M_verticesA []mgl64.Vec3
	M_verticesB []mgl64.Vec3
}

func NewB3NarrowPhaseContext(settings *B3Settings) *B3NarrowPhaseContext {
	grow := settings.PoolGrowIncrement
	return &B3NarrowPhaseContext{
		M_settings: settings,
		M_buffers: NewB3Pool(NewB3ContactBuffer, func(buffer *B3ContactBuffer) bool {
			return buffer.IsValid()
		}, grow),
		M_triangles: NewB3Pool(NewB3TriangleBuffer, func(buffer *B3TriangleBuffer) bool {
			return buffer.IsValid()
		}, grow),
		M_triangle: MakeB3PolyhedronShape(),
	}
}

func (ctx *B3NarrowPhaseContext) AcquireContactBuffer() *B3ContactBuffer {
	buffer := ctx.M_buffers.Acquire()
	buffer.Begin()
	return buffer
}

func (ctx *B3NarrowPhaseContext) AcquireTriangleBuffer() *B3TriangleBuffer {
	buffer := ctx.M_triangles.Acquire()
	buffer.Begin()
	return buffer
}

/// Return finished buffers to the free partitions of both pools.
func (ctx *B3NarrowPhaseContext) Reclaim() {
	ctx.M_buffers.Reclaim()
	ctx.M_triangles.Reclaim()
}

///////////////////////////////////////////////////////////////////////////////
// Pair handler
///////////////////////////////////////////////////////////////////////////////

/// The shape-pair specific half of a pair handler.
type B3ContactEvaluatorInterface interface {
	/// Run the narrow-phase test for the pair and write one raw manifold per
	/// sub-pair into buffer. The normal points from A to B.
	Evaluate(ctx *B3NarrowPhaseContext, buffer *B3ContactBuffer, collidableA *B3Collidable, collidableB *B3Collidable)

	/// Report the convex proxy pairs a time of impact query has to sweep.
	/// Proxies are expressed in the frame of their collidable.
	CollectTOIProxies(ctx *B3NarrowPhaseContext, collidableA *B3Collidable, collidableB *B3Collidable, sweepA B3Sweep, sweepB B3Sweep, fn func(proxyA *B3DistanceProxy, proxyB *B3DistanceProxy))
}

/// A pair handler manages the narrow phase between two collidables. One
/// exists for each overlapping broad-phase pair (except if filtered).
/// Therefore a pair handler may exist that has no contact points.
type B3ContactInterface interface {
	B3ContactEvaluatorInterface

	GetFlags() uint32
	SetFlags(flags uint32)

	GetState() uint8
	GetHandlerType() uint8

	GetHandleA() B3CollidableHandle
	GetHandleB() B3CollidableHandle

	GetCollidableA() *B3Collidable
	GetCollidableB() *B3Collidable

	GetManifoldCount() int
	GetManifold(index int) *B3Manifold
	GetPointCount() int
	GetPointStates(index int, state1 *[B3_maxManifoldPoints]uint8, state2 *[B3_maxManifoldPoints]uint8)

	GetTOI() float64

	GetFriction() float64
	SetFriction(friction float64)
	ResetFriction()

	GetRestitution() float64
	SetRestitution(restitution float64)
	ResetRestitution()

	IsTouching() bool
	IsEnabled() bool
	SetEnabled(bool)
	IsSensor() bool

	FlagForFiltering()

	Initialize(arena *B3CollidableArena, settings *B3Settings, collidableA *B3Collidable, collidableB *B3Collidable)
	UpdateContacts(ctx *B3NarrowPhaseContext, dt float64) uint32
	UpdateTimeOfImpact(ctx *B3NarrowPhaseContext, requester B3CollidableHandle, dt float64) float64
	GetContactInformation(index int) B3ContactInformation
	CleanUp()
}

/// Generic pair handler core shared by every variant. Variants embed it
/// and supply the narrow-phase test through M_evaluator.
type B3Contact struct {
	M_flags uint32
	M_state uint8

	M_handlerType uint8
	M_evaluator   B3ContactEvaluatorInterface

	M_arena    *B3CollidableArena
	M_settings *B3Settings

	M_handleA B3CollidableHandle
	M_handleB B3CollidableHandle

	M_manifolds    []B3Manifold
	M_oldManifolds []B3Manifold

	M_toi         float64
	M_friction    float64
	M_restitution float64

	// Length of the last step, used to turn impulses into forces.
	M_dt float64
}

func MakeB3Contact(handlerType uint8, evaluator B3ContactEvaluatorInterface) B3Contact {
	return B3Contact{
		M_state:       B3Contact_State.E_uninitialized,
		M_handlerType: handlerType,
		M_evaluator:   evaluator,
		M_toi:         1.0,
	}
}

func (contact B3Contact) GetFlags() uint32 {
	return contact.M_flags
}

func (contact *B3Contact) SetFlags(flags uint32) {
	contact.M_flags = flags
}

func (contact B3Contact) GetState() uint8 {
	return contact.M_state
}

func (contact B3Contact) GetHandlerType() uint8 {
	return contact.M_handlerType
}

func (contact B3Contact) GetHandleA() B3CollidableHandle {
	return contact.M_handleA
}

func (contact B3Contact) GetHandleB() B3CollidableHandle {
	return contact.M_handleB
}

/// Resolve collidable A. Nil once it was destroyed.
func (contact B3Contact) GetCollidableA() *B3Collidable {
	if contact.M_arena == nil {
		return nil
	}
	return contact.M_arena.Get(contact.M_handleA)
}

/// Resolve collidable B. Nil once it was destroyed.
func (contact B3Contact) GetCollidableB() *B3Collidable {
	if contact.M_arena == nil {
		return nil
	}
	return contact.M_arena.Get(contact.M_handleB)
}

func (contact B3Contact) GetManifoldCount() int {
	return len(contact.M_manifolds)
}

func (contact *B3Contact) GetManifold(index int) *B3Manifold {
	B3Assert(0 <= index && index < len(contact.M_manifolds))
	return &contact.M_manifolds[index]
}

func (contact B3Contact) GetPointCount() int {
	count := 0
	for i := range contact.M_manifolds {
		count += contact.M_manifolds[i].PointCount
	}
	return count
}

/// Compare manifold index with the manifold of the same sub-pair from the
/// previous update.
func (contact B3Contact) GetPointStates(index int, state1 *[B3_maxManifoldPoints]uint8, state2 *[B3_maxManifoldPoints]uint8) {
	B3Assert(0 <= index && index < len(contact.M_manifolds))
	manifold := contact.M_manifolds[index]
	old := B3Manifold{}
	if prev := b3FindManifold(contact.M_oldManifolds, manifold.ChildKey); prev != nil {
		old = *prev
	}
	B3GetPointStates(state1, state2, old, manifold)
}

func (contact B3Contact) GetTOI() float64 {
	return contact.M_toi
}

func (contact B3Contact) GetFriction() float64 {
	return contact.M_friction
}

/// Override the default friction mixture. You can call this in
/// OnPairCreated. The value persists until ResetFriction is called.
func (contact *B3Contact) SetFriction(friction float64) {
	contact.M_friction = friction
}

func (contact *B3Contact) ResetFriction() {
	contact.M_friction = contact.mixFriction(contact.GetCollidableA(), contact.GetCollidableB())
}

func (contact B3Contact) GetRestitution() float64 {
	return contact.M_restitution
}

/// Override the default restitution mixture. The value persists until
/// ResetRestitution is called.
func (contact *B3Contact) SetRestitution(restitution float64) {
	contact.M_restitution = restitution
}

func (contact *B3Contact) ResetRestitution() {
	contact.M_restitution = contact.mixRestitution(contact.GetCollidableA(), contact.GetCollidableB())
}

func (contact B3Contact) mixFriction(a, b *B3Collidable) float64 {
	if a == nil || b == nil {
		return contact.M_friction
	}
	return B3Mix(contact.M_settings.FrictionRule, a.M_friction, b.M_friction)
}

func (contact B3Contact) mixRestitution(a, b *B3Collidable) float64 {
	if a == nil || b == nil {
		return contact.M_restitution
	}
	return B3Mix(contact.M_settings.RestitutionRule, a.M_restitution, b.M_restitution)
}

/// Is this contact touching?
func (contact B3Contact) IsTouching() bool {
	return (contact.M_flags & B3Contact_Flag.E_touchingFlag) == B3Contact_Flag.E_touchingFlag
}

/// Enable/disable this contact. A disabled contact keeps its manifold up
/// to date but the solver is expected to skip it.
func (contact *B3Contact) SetEnabled(flag bool) {
	if flag {
		contact.M_flags |= B3Contact_Flag.E_enabledFlag
	} else {
		contact.M_flags &= ^B3Contact_Flag.E_enabledFlag
	}
}

func (contact B3Contact) IsEnabled() bool {
	return (contact.M_flags & B3Contact_Flag.E_enabledFlag) == B3Contact_Flag.E_enabledFlag
}

func (contact B3Contact) IsSensor() bool {
	a := contact.GetCollidableA()
	b := contact.GetCollidableB()
	return (a != nil && a.IsSensor()) || (b != nil && b.IsSensor())
}

/// Flag this contact for filtering. Filtering will occur the next time step.
func (contact *B3Contact) FlagForFiltering() {
	contact.M_flags |= B3Contact_Flag.E_filterFlag
}

/// Bind the handler to a pair and cache the mixed material. Variants
/// check the shape types before calling this.
func (contact *B3Contact) Initialize(arena *B3CollidableArena, settings *B3Settings, collidableA *B3Collidable, collidableB *B3Collidable) {
	B3Assertf(contact.M_state == B3Contact_State.E_uninitialized, "pair handler initialized twice")
	B3Assert(arena != nil && settings != nil)
	B3Assert(collidableA != nil && collidableB != nil)

	contact.M_arena = arena
	contact.M_settings = settings
	contact.M_handleA = collidableA.M_handle
	contact.M_handleB = collidableB.M_handle

	contact.M_flags = B3Contact_Flag.E_enabledFlag
	contact.M_manifolds = contact.M_manifolds[:0]
	contact.M_oldManifolds = contact.M_oldManifolds[:0]
	contact.M_toi = 1.0
	contact.M_dt = 0.0

	contact.M_friction = contact.mixFriction(collidableA, collidableB)
	contact.M_restitution = contact.mixRestitution(collidableA, collidableB)

	contact.M_state = B3Contact_State.E_active
}

/// Release the collidable references and drop the manifolds. The handler
/// can then be handed out again by its pool.
func (contact *B3Contact) CleanUp() {
	contact.M_arena = nil
	contact.M_settings = nil
	contact.M_handleA = B3CollidableHandle_null
	contact.M_handleB = B3CollidableHandle_null
	contact.M_flags = 0
	contact.M_manifolds = contact.M_manifolds[:0]
	contact.M_oldManifolds = contact.M_oldManifolds[:0]
	contact.M_toi = 1.0
	contact.M_dt = 0.0
	contact.M_friction = 0.0
	contact.M_restitution = 0.0
	contact.M_state = B3Contact_State.E_uninitialized
}

func b3FindManifold(manifolds []B3Manifold, childKey uint64) *B3Manifold {
	for i := range manifolds {
		if manifolds[i].ChildKey == childKey {
			return &manifolds[i]
		}
	}
	return nil
}

/// Recompute the manifolds from scratch and carry the accumulated
/// impulses over by feature id. Returns B3ContactEvent bits.
/// Note: do not assume the collidable AABBs are overlapping or are valid.
func (contact *B3Contact) UpdateContacts(ctx *B3NarrowPhaseContext, dt float64) uint32 {
	if contact.M_state == B3Contact_State.E_stale {
		return B3ContactEvent.E_stale
	}
	B3Assertf(contact.M_state == B3Contact_State.E_active, "update of an unbound pair handler")

	collidableA := contact.GetCollidableA()
	collidableB := contact.GetCollidableB()
	if collidableA == nil || collidableB == nil {
		contact.M_state = B3Contact_State.E_stale
		return B3ContactEvent.E_stale
	}

	contact.M_dt = dt
	wasTouching := contact.IsTouching()
	touching := false
	changed := false
	sensor := collidableA.IsSensor() || collidableB.IsSensor()

	buffer := ctx.AcquireContactBuffer()
	contact.M_evaluator.Evaluate(ctx, buffer, collidableA, collidableB)

	// The previous manifolds become the warm start source.
	contact.M_oldManifolds, contact.M_manifolds = contact.M_manifolds, contact.M_oldManifolds[:0]

	if sensor {
		// Sensors don't generate manifolds.
		for i := 0; i < buffer.Count && !touching; i++ {
			raw := &buffer.Manifolds[i]
			for j := 0; j < raw.PointCount; j++ {
				if raw.Points[j].Penetration >= 0.0 {
					touching = true
					break
				}
			}
		}
		changed = len(contact.M_oldManifolds) > 0
	} else {
		for i := 0; i < buffer.Count; i++ {
			var manifold B3Manifold
			B3ReduceManifold(&manifold, &buffer.Manifolds[i])
			if manifold.PointCount == 0 {
				continue
			}

			if b3MergeManifold(&manifold, b3FindManifold(contact.M_oldManifolds, manifold.ChildKey)) {
				changed = true
			}

			for j := 0; j < manifold.PointCount; j++ {
				if manifold.Points[j].Penetration >= 0.0 {
					touching = true
				}
			}
			contact.M_manifolds = append(contact.M_manifolds, manifold)
		}

		// Whole sub-pairs that lost all their points.
		for i := range contact.M_oldManifolds {
			if b3FindManifold(contact.M_manifolds, contact.M_oldManifolds[i].ChildKey) == nil {
				changed = true
				break
			}
		}
	}

	buffer.End()

	if touching {
		contact.M_flags |= B3Contact_Flag.E_touchingFlag
	} else {
		contact.M_flags &= ^B3Contact_Flag.E_touchingFlag
	}

	var events uint32
	if changed {
		events |= B3ContactEvent.E_pointsChanged
	}
	if !wasTouching && touching {
		events |= B3ContactEvent.E_beginTouch
	}
	if wasTouching && !touching {
		events |= B3ContactEvent.E_endTouch
	}

	return events
}

/// Earliest fraction of the step at which requester hits the other
/// collidable, 1 when it cannot or does not. Only continuous entities are
/// swept; an entity that cannot travel its own minimum radius in the step
/// cannot tunnel and is skipped. Hits at or below TOIEpsilon are start of
/// step overlaps and are rejected.
func (contact *B3Contact) UpdateTimeOfImpact(ctx *B3NarrowPhaseContext, requester B3CollidableHandle, dt float64) float64 {
	contact.M_flags &= ^B3Contact_Flag.E_toiFlag
	contact.M_toi = 1.0

	if contact.M_state != B3Contact_State.E_active {
		return 1.0
	}

	collidableA := contact.GetCollidableA()
	collidableB := contact.GetCollidableB()
	if collidableA == nil || collidableB == nil {
		contact.M_state = B3Contact_State.E_stale
		return 1.0
	}
	if collidableA.IsSensor() || collidableB.IsSensor() {
		return 1.0
	}

	var self, other *B3Collidable
	switch requester {
	case contact.M_handleA:
		self, other = collidableA, collidableB
	case contact.M_handleB:
		self, other = collidableB, collidableA
	default:
		B3Assertf(false, "collidable %s is not part of this pair", requester)
		return 1.0
	}

	entity := self.GetEntity()
	if entity == nil || !entity.IsContinuous() {
		return 1.0
	}

	relative := entity.GetLinearVelocity()
	if otherEntity := other.GetEntity(); otherEntity != nil {
		relative = relative.Sub(otherEntity.GetLinearVelocity())
	}
	displacement := relative.Mul(dt)
	minimumRadius := self.GetShape().GetMinimumRadius()
	if minimumRadius*minimumRadius >= displacement.LenSqr() {
		return 1.0
	}

	settings := contact.M_settings
	sweepA := collidableA.GetSweep(dt)
	sweepB := collidableB.GetSweep(dt)

	best := 1.0
	contact.M_evaluator.CollectTOIProxies(ctx, collidableA, collidableB, sweepA, sweepB, func(proxyA *B3DistanceProxy, proxyB *B3DistanceProxy) {
		input := MakeB3TOIInput(*settings)
		input.ProxyA = *proxyA
		input.ProxyB = *proxyB
		input.SweepA = sweepA
		input.SweepB = sweepB

		var output B3TOIOutput
		B3TimeOfImpact(&output, &input)

		if output.State != B3TOIOutput_State.E_touching && output.State != B3TOIOutput_State.E_failed {
			return
		}
		if output.T > settings.TOIEpsilon && output.T < best {
			best = output.T
		}
	})

	contact.M_toi = best
	contact.M_flags |= B3Contact_Flag.E_toiFlag
	return best
}

/// Describe point index, counted across all manifolds in order. Does not
/// mutate the handler.
func (contact B3Contact) GetContactInformation(index int) B3ContactInformation {
	B3Assert(0 <= index && index < contact.GetPointCount())

	var manifold *B3Manifold
	var point *B3ManifoldPoint
	for i := range contact.M_manifolds {
		if index < contact.M_manifolds[i].PointCount {
			manifold = &contact.M_manifolds[i]
			point = &manifold.Points[index]
			break
		}
		index -= contact.M_manifolds[i].PointCount
	}

	info := B3ContactInformation{
		Point:       point.Point,
		Normal:      point.Normal,
		Penetration: point.Penetration,
	}

	if contact.M_dt > 0.0 {
		invDt := 1.0 / contact.M_dt
		info.NormalForce = point.Normal.Mul(point.NormalImpulse * invDt)
		info.FrictionForce = manifold.Tangents[0].Mul(point.TangentImpulse[0] * invDt).
			Add(manifold.Tangents[1].Mul(point.TangentImpulse[1] * invDt))
	}

	vA, vB := B3Vec3_zero, B3Vec3_zero
	if a := contact.GetCollidableA(); a != nil {
		vA = a.GetVelocityAtPoint(point.Point)
	}
	if b := contact.GetCollidableB(); b != nil {
		vB = b.GetVelocityAtPoint(point.Point)
	}
	info.RelativeVelocity = vB.Sub(vA)

	return info
}

///////////////////////////////////////////////////////////////////////////////
// Shared sub-pair helpers
///////////////////////////////////////////////////////////////////////////////

// Set proxy from a convex shape placed by xf inside its collidable. Child
// vertices are copied into scratch when xf is not the identity.
func b3SetChildProxy(proxy *B3DistanceProxy, scratch *[]mgl64.Vec3, shape B3ShapeInterface, xf B3Transform) {
	if b3IsIdentityTransform(xf) {
		proxy.Set(shape)
		return
	}

	vertices := (*scratch)[:0]
	switch shape.GetType() {
	case B3Shape_Type.E_sphere:
		sphere := shape.(*B3SphereShape)
		vertices = append(vertices, B3TransformVec3Mul(xf, sphere.M_p))
		proxy.SetVertices(vertices, sphere.M_radius)
	case B3Shape_Type.E_polyhedron:
		poly := shape.(*B3PolyhedronShape)
		for _, v := range poly.M_vertices {
			vertices = append(vertices, B3TransformVec3Mul(xf, v))
		}
		proxy.SetVertices(vertices, poly.M_radius)
	default:
		B3Assertf(false, "distance proxy needs a convex shape, got %s", B3ShapeTypeName(shape.GetType()))
	}
	*scratch = vertices
}

// Collide a convex shape placed at world transform xfC with every triangle
// of source (world transform xfT) near it. Child keys are keyBase plus the
// triangle index.
func b3CollideConvexAndTriangles(ctx *B3NarrowPhaseContext, buffer *B3ContactBuffer, convex B3ShapeInterface, xfC B3Transform, source B3TriangleSourceInterface, xfT B3Transform, keyBase uint64) {
	margin := ctx.M_settings.ContactMargin

	// Query with the convex bounds expressed in the source frame.
	var localAABB B3AABB
	convex.ComputeAABB(&localAABB, B3TransformMulT(xfT, xfC))
	localAABB = localAABB.Extended(margin)

	triangles := ctx.AcquireTriangleBuffer()
	source.QueryTriangles(triangles, localAABB)

	for _, triangle := range triangles.Triangles {
		ctx.M_triangle.SetAsTriangle(triangle.Vertices[0], triangle.Vertices[1], triangle.Vertices[2])
		manifold := buffer.Next(keyBase | uint64(triangle.Index))
		B3CollideConvex(manifold, convex, xfC, &ctx.M_triangle, xfT, margin)
	}

	triangles.End()
	ctx.M_triangles.Reclaim()
}

// Time of impact proxies for a convex shape against the triangles its swept
// bounds touch. childXf places the convex inside its collidable.
func b3CollectConvexAndTrianglesTOI(ctx *B3NarrowPhaseContext, convex B3ShapeInterface, childXf B3Transform, sweepC B3Sweep, source B3TriangleSourceInterface, xfT B3Transform, fn func(proxyA *B3DistanceProxy, proxyB *B3DistanceProxy)) {
	var xf0, xf1 B3Transform
	sweepC.GetTransform(&xf0, 0.0)
	sweepC.GetTransform(&xf1, 1.0)

	var swept, end B3AABB
	convex.ComputeAABB(&swept, B3TransformMulT(xfT, B3TransformMul(xf0, childXf)))
	convex.ComputeAABB(&end, B3TransformMulT(xfT, B3TransformMul(xf1, childXf)))
	swept.CombineInPlace(end)
	swept = swept.Extended(ctx.M_settings.LinearSlop)

	var proxyC B3DistanceProxy
	b3SetChildProxy(&proxyC, &ctx.M_verticesA, convex, childXf)

	triangles := ctx.AcquireTriangleBuffer()
	source.QueryTriangles(triangles, swept)

	for _, triangle := range triangles.Triangles {
		vertices := triangle.Vertices
		var proxyT B3DistanceProxy
		proxyT.SetVertices(vertices[:], 0.0)
		fn(&proxyC, &proxyT)
	}

	triangles.End()
	ctx.M_triangles.Reclaim()
}

func b3IsIdentityTransform(xf B3Transform) bool {
	return xf.P.LenSqr() == 0.0 && math.Abs(xf.Q.W) == 1.0
}
