package box3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

/// This holds contact filtering data.
type B3Filter struct {
	/// The collision category bits. Normally you would just set one bit.
	CategoryBits uint16

	/// The collision mask bits. This states the categories that this
	/// collidable would accept for collision.
	MaskBits uint16

	/// Collision groups allow a certain group of objects to never collide (negative)
	/// or always collide (positive). Zero means no collision group. Non-zero group
	/// filtering always wins against the mask bits.
	GroupIndex int16
}

func MakeB3Filter() B3Filter {
	return B3Filter{
		CategoryBits: 0x0001,
		MaskBits:     0xFFFF,
		GroupIndex:   0,
	}
}

///////////////////////////////////////////////////////////////////////////////
// Entity
///////////////////////////////////////////////////////////////////////////////

/// The moving owner of one or more collidables. The integrator writes its
/// velocities before the narrow phase runs; collision code only reads them.
type B3Entity struct {
	M_linearVelocity  mgl64.Vec3
	M_angularVelocity mgl64.Vec3

	/// Fast movers opt into time of impact computation.
	M_continuous bool

	/// Earliest impact fraction found by the last time of impact pass.
	M_toi float64

	M_userData interface{}
}

func MakeB3Entity() B3Entity {
	return B3Entity{
		M_toi: 1.0,
	}
}

func NewB3Entity() *B3Entity {
	res := MakeB3Entity()
	return &res
}

func (entity B3Entity) GetLinearVelocity() mgl64.Vec3 {
	return entity.M_linearVelocity
}

func (entity *B3Entity) SetLinearVelocity(v mgl64.Vec3) {
	entity.M_linearVelocity = v
}

func (entity B3Entity) GetAngularVelocity() mgl64.Vec3 {
	return entity.M_angularVelocity
}

func (entity *B3Entity) SetAngularVelocity(w mgl64.Vec3) {
	entity.M_angularVelocity = w
}

func (entity B3Entity) IsContinuous() bool {
	return entity.M_continuous
}

func (entity *B3Entity) SetContinuous(flag bool) {
	entity.M_continuous = flag
}

/// Earliest time of impact in [0,1] found during the last step, 1 when
/// nothing was hit.
func (entity B3Entity) GetTimeOfImpact() float64 {
	return entity.M_toi
}

func (entity B3Entity) GetUserData() interface{} {
	return entity.M_userData
}

func (entity *B3Entity) SetUserData(data interface{}) {
	entity.M_userData = data
}

///////////////////////////////////////////////////////////////////////////////
// Collidable
///////////////////////////////////////////////////////////////////////////////

/// A collidable definition is used to create a collidable. You can reuse
/// definitions safely.
type B3CollidableDef struct {
	/// The shape, this must be set. The shape will be cloned.
	Shape B3ShapeInterface

	/// The world transform.
	Transform B3Transform

	/// The owner. Nil for static world geometry such as terrain.
	Entity *B3Entity

	/// Receives pair notifications for this collidable. May be nil.
	Listener B3PairListenerInterface

	/// Use this to store application specific collidable data.
	UserData interface{}

	/// The friction coefficient, usually in the range [0,1].
	Friction float64

	/// The restitution (elasticity) usually in the range [0,1].
	Restitution float64

	/// A sensor collidable reports overlap but never produces manifold points.
	IsSensor bool

	/// Contact filtering data.
	Filter B3Filter
}

/// The constructor sets the default collidable definition values.
func MakeB3CollidableDef() B3CollidableDef {
	return B3CollidableDef{
		Transform:   MakeB3Transform(),
		Friction:    0.2,
		Restitution: 0.0,
		Filter:      MakeB3Filter(),
	}
}

/// A generational reference to a collidable. A handle outlives the
/// collidable safely: once the slot is reused the generation differs and
/// lookups report the collidable as gone. The zero value is the null handle.
type B3CollidableHandle struct {
	Index      uint32
	Generation uint32
}

var B3CollidableHandle_null = B3CollidableHandle{}

func (h B3CollidableHandle) IsNull() bool {
	return h.Generation == 0
}

func (h B3CollidableHandle) Less(other B3CollidableHandle) bool {
	if h.Index != other.Index {
		return h.Index < other.Index
	}
	return h.Generation < other.Generation
}

func (h B3CollidableHandle) String() string {
	return fmt.Sprintf("%d:%d", h.Index, h.Generation)
}

/// A spatial proxy in the world: a shape placed by a transform, owned by an
/// entity or static. Pair handlers never own collidables; they refer to
/// them through handles.
type B3Collidable struct {
	M_handle B3CollidableHandle

	M_shape B3ShapeInterface
	M_xf    B3Transform
	M_aabb  B3AABB

	M_entity   *B3Entity
	M_listener B3PairListenerInterface

	M_friction    float64
	M_restitution float64
	M_isSensor    bool
	M_filter      B3Filter

	M_proxyId int

	M_userData interface{}
}

func (c B3Collidable) GetHandle() B3CollidableHandle {
	return c.M_handle
}

/// Get the type of the child shape. You can use this to down cast to the concrete shape.
func (c B3Collidable) GetType() uint8 {
	return c.M_shape.GetType()
}

func (c B3Collidable) GetShape() B3ShapeInterface {
	return c.M_shape
}

func (c B3Collidable) GetTransform() B3Transform {
	return c.M_xf
}

func (c B3Collidable) GetAABB() B3AABB {
	return c.M_aabb
}

func (c B3Collidable) GetEntity() *B3Entity {
	return c.M_entity
}

func (c B3Collidable) IsStatic() bool {
	return c.M_entity == nil
}

func (c B3Collidable) IsSensor() bool {
	return c.M_isSensor
}

func (c B3Collidable) GetFilterData() B3Filter {
	return c.M_filter
}

func (c B3Collidable) GetFriction() float64 {
	return c.M_friction
}

func (c *B3Collidable) SetFriction(friction float64) {
	c.M_friction = friction
}

func (c B3Collidable) GetRestitution() float64 {
	return c.M_restitution
}

func (c *B3Collidable) SetRestitution(restitution float64) {
	c.M_restitution = restitution
}

func (c B3Collidable) GetListener() B3PairListenerInterface {
	return c.M_listener
}

func (c *B3Collidable) SetListener(listener B3PairListenerInterface) {
	c.M_listener = listener
}

func (c B3Collidable) GetUserData() interface{} {
	return c.M_userData
}

func (c *B3Collidable) SetUserData(data interface{}) {
	c.M_userData = data
}

/// Velocity of the material point at world point p. Static collidables
/// do not move.
func (c B3Collidable) GetVelocityAtPoint(p mgl64.Vec3) mgl64.Vec3 {
	if c.M_entity == nil {
		return B3Vec3_zero
	}
	r := p.Sub(c.M_xf.P)
	return c.M_entity.M_linearVelocity.Add(c.M_entity.M_angularVelocity.Cross(r))
}

/// The motion of this collidable over a step of length dt.
func (c B3Collidable) GetSweep(dt float64) B3Sweep {
	if c.M_entity == nil {
		return MakeB3Sweep(c.M_xf, B3Vec3_zero, B3Vec3_zero, dt)
	}
	return MakeB3Sweep(c.M_xf, c.M_entity.M_linearVelocity, c.M_entity.M_angularVelocity, dt)
}

// Recompute the world box after the transform changed.
func (c *B3Collidable) synchronize() {
	c.M_shape.ComputeAABB(&c.M_aabb, c.M_xf)
}

///////////////////////////////////////////////////////////////////////////////
// Arena
///////////////////////////////////////////////////////////////////////////////

type b3ArenaSlot struct {
	collidable *B3Collidable
	generation uint32
}

/// Stable storage for collidables. Slots are recycled through a free list
/// and every reuse bumps the slot generation, so stale handles resolve to
/// nil instead of to whatever took their place.
type B3CollidableArena struct {
	M_slots []b3ArenaSlot
	M_free  []uint32
	M_count int
}

func MakeB3CollidableArena() B3CollidableArena {
	return B3CollidableArena{}
}

func NewB3CollidableArena() *B3CollidableArena {
	res := MakeB3CollidableArena()
	return &res
}

func (arena *B3CollidableArena) Create(def *B3CollidableDef) *B3Collidable {
	B3Assertf(def.Shape != nil, "collidable definition has no shape")
	if B3IsTriangleSourceType(def.Shape.GetType()) {
		B3Assertf(def.Entity == nil, "%s collidables must be static", B3ShapeTypeName(def.Shape.GetType()))
	}

	var index uint32
	if n := len(arena.M_free); n > 0 {
		index = arena.M_free[n-1]
		arena.M_free = arena.M_free[:n-1]
	} else {
		index = uint32(len(arena.M_slots))
		arena.M_slots = append(arena.M_slots, b3ArenaSlot{})
	}

	slot := &arena.M_slots[index]
	slot.generation++
	if slot.generation == 0 {
		// Skip the null generation on wrap around.
		slot.generation = 1
	}

	collidable := &B3Collidable{
		M_handle:      B3CollidableHandle{Index: index, Generation: slot.generation},
		M_shape:       def.Shape.Clone(),
		M_xf:          def.Transform,
		M_entity:      def.Entity,
		M_listener:    def.Listener,
		M_friction:    def.Friction,
		M_restitution: def.Restitution,
		M_isSensor:    def.IsSensor,
		M_filter:      def.Filter,
		M_proxyId:     E_nullProxy,
		M_userData:    def.UserData,
	}
	collidable.synchronize()

	slot.collidable = collidable
	arena.M_count++

	return collidable
}

/// Resolve a handle. Returns nil when the collidable was destroyed.
func (arena B3CollidableArena) Get(h B3CollidableHandle) *B3Collidable {
	if h.IsNull() || int(h.Index) >= len(arena.M_slots) {
		return nil
	}
	slot := arena.M_slots[h.Index]
	if slot.generation != h.Generation {
		return nil
	}
	return slot.collidable
}

func (arena *B3CollidableArena) Destroy(h B3CollidableHandle) bool {
	if arena.Get(h) == nil {
		return false
	}
	arena.M_slots[h.Index].collidable = nil
	arena.M_free = append(arena.M_free, h.Index)
	arena.M_count--
	return true
}

func (arena B3CollidableArena) GetCount() int {
	return arena.M_count
}

/// Visit live collidables in slot order.
func (arena B3CollidableArena) Each(fn func(c *B3Collidable)) {
	for i := range arena.M_slots {
		if c := arena.M_slots[i].collidable; c != nil {
			fn(c)
		}
	}
}
