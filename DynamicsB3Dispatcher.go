package box3d

/// Pair handler variants. Each one covers one or more shape type pairs.
var B3ContactHandler_Type = struct {
	E_sphere              uint8
	E_polyhedronAndSphere uint8
	E_polyhedron          uint8
	E_convexAndTriangles  uint8
	E_compound            uint8
	E_typeCount           uint8
}{
	E_sphere:              0,
	E_polyhedronAndSphere: 1,
	E_polyhedron:          2,
	E_convexAndTriangles:  3,
	E_compound:            4,
	E_typeCount:           5,
}

func B3ContactHandlerTypeName(handlerType uint8) string {
	switch handlerType {
	case B3ContactHandler_Type.E_sphere:
		return "sphere"
	case B3ContactHandler_Type.E_polyhedronAndSphere:
		return "polyhedron-sphere"
	case B3ContactHandler_Type.E_polyhedron:
		return "polyhedron"
	case B3ContactHandler_Type.E_convexAndTriangles:
		return "convex-triangles"
	case B3ContactHandler_Type.E_compound:
		return "compound"
	}
	return "unknown"
}

type B3ContactCreateFcn func() B3ContactInterface // returned contact should be a pointer

type B3ContactRegister struct {
	CreateFcn   B3ContactCreateFcn
	HandlerType uint8
	Primary     bool
}

/// The dispatcher maps a pair of shape types to the pair handler variant
/// that knows how to collide them, and recycles handlers through one pool
/// per variant. The register table belongs to the instance; there is no
/// package level state.
type B3Dispatcher struct {
	M_registers [][]B3ContactRegister
	M_pools     []*B3Pool[B3ContactInterface]

	M_arena    *B3CollidableArena
	M_settings *B3Settings
}

func MakeB3Dispatcher(arena *B3CollidableArena, settings *B3Settings) B3Dispatcher {
	B3Assert(arena != nil && settings != nil)

	dispatcher := B3Dispatcher{
		M_registers: make([][]B3ContactRegister, B3Shape_Type.E_typeCount),
		M_pools:     make([]*B3Pool[B3ContactInterface], B3ContactHandler_Type.E_typeCount),
		M_arena:     arena,
		M_settings:  settings,
	}
	for i := range dispatcher.M_registers {
		dispatcher.M_registers[i] = make([]B3ContactRegister, B3Shape_Type.E_typeCount)
	}

	dispatcher.AddType(B3SphereContact_Create, B3ContactHandler_Type.E_sphere, B3Shape_Type.E_sphere, B3Shape_Type.E_sphere)
	dispatcher.AddType(B3PolyhedronAndSphereContact_Create, B3ContactHandler_Type.E_polyhedronAndSphere, B3Shape_Type.E_polyhedron, B3Shape_Type.E_sphere)
	dispatcher.AddType(B3PolyhedronContact_Create, B3ContactHandler_Type.E_polyhedron, B3Shape_Type.E_polyhedron, B3Shape_Type.E_polyhedron)

	// Terrain and meshes are always B.
	dispatcher.AddType(B3ConvexAndTrianglesContact_Create, B3ContactHandler_Type.E_convexAndTriangles, B3Shape_Type.E_sphere, B3Shape_Type.E_terrain)
	dispatcher.AddType(B3ConvexAndTrianglesContact_Create, B3ContactHandler_Type.E_convexAndTriangles, B3Shape_Type.E_polyhedron, B3Shape_Type.E_terrain)
	dispatcher.AddType(B3ConvexAndTrianglesContact_Create, B3ContactHandler_Type.E_convexAndTriangles, B3Shape_Type.E_sphere, B3Shape_Type.E_mesh)
	dispatcher.AddType(B3ConvexAndTrianglesContact_Create, B3ContactHandler_Type.E_convexAndTriangles, B3Shape_Type.E_polyhedron, B3Shape_Type.E_mesh)

	// Compounds are always A.
	dispatcher.AddType(B3CompoundContact_Create, B3ContactHandler_Type.E_compound, B3Shape_Type.E_compound, B3Shape_Type.E_sphere)
	dispatcher.AddType(B3CompoundContact_Create, B3ContactHandler_Type.E_compound, B3Shape_Type.E_compound, B3Shape_Type.E_polyhedron)
	dispatcher.AddType(B3CompoundContact_Create, B3ContactHandler_Type.E_compound, B3Shape_Type.E_compound, B3Shape_Type.E_compound)
	dispatcher.AddType(B3CompoundContact_Create, B3ContactHandler_Type.E_compound, B3Shape_Type.E_compound, B3Shape_Type.E_terrain)
	dispatcher.AddType(B3CompoundContact_Create, B3ContactHandler_Type.E_compound, B3Shape_Type.E_compound, B3Shape_Type.E_mesh)

	return dispatcher
}

func NewB3Dispatcher(arena *B3CollidableArena, settings *B3Settings) *B3Dispatcher {
	res := MakeB3Dispatcher(arena, settings)
	return &res
}

/// Register createFcn for (type1, type2). The swapped pair is registered
/// too and marked non primary, so Acquire swaps its arguments for it.
func (dispatcher *B3Dispatcher) AddType(createFcn B3ContactCreateFcn, handlerType uint8, type1 uint8, type2 uint8) {
	B3Assert(type1 < B3Shape_Type.E_typeCount)
	B3Assert(type2 < B3Shape_Type.E_typeCount)
	B3Assert(handlerType < B3ContactHandler_Type.E_typeCount)

	dispatcher.M_registers[type1][type2] = B3ContactRegister{
		CreateFcn:   createFcn,
		HandlerType: handlerType,
		Primary:     true,
	}

	if type1 != type2 {
		dispatcher.M_registers[type2][type1] = B3ContactRegister{
			CreateFcn:   createFcn,
			HandlerType: handlerType,
			Primary:     false,
		}
	}

	if dispatcher.M_pools[handlerType] == nil {
		dispatcher.M_pools[handlerType] = NewB3Pool[B3ContactInterface](createFcn, func(contact B3ContactInterface) bool {
			return contact.GetState() != B3Contact_State.E_uninitialized
		}, dispatcher.M_settings.PoolGrowIncrement)
	}
}

func (dispatcher B3Dispatcher) GetRegister(type1 uint8, type2 uint8) B3ContactRegister {
	B3Assert(type1 < B3Shape_Type.E_typeCount)
	B3Assert(type2 < B3Shape_Type.E_typeCount)
	return dispatcher.M_registers[type1][type2]
}

/// Hand out an initialized pair handler for the two collidables. The
/// handler's A and B follow the registered order, which may be the
/// reverse of the arguments. A type pair without a register is a wiring
/// error and panics.
func (dispatcher *B3Dispatcher) Acquire(collidableA *B3Collidable, collidableB *B3Collidable) B3ContactInterface {
	type1 := collidableA.GetType()
	type2 := collidableB.GetType()

	register := dispatcher.GetRegister(type1, type2)
	B3Assertf(register.CreateFcn != nil, "no pair handler registered for %s and %s", B3ShapeTypeName(type1), B3ShapeTypeName(type2))

	if !register.Primary {
		collidableA, collidableB = collidableB, collidableA
	}

	contact := dispatcher.M_pools[register.HandlerType].Acquire()
	contact.Initialize(dispatcher.M_arena, dispatcher.M_settings, collidableA, collidableB)
	return contact
}

/// Unbind the handler. It goes back to its pool on the next Reclaim.
func (dispatcher *B3Dispatcher) Release(contact B3ContactInterface) {
	contact.CleanUp()
}

func (dispatcher *B3Dispatcher) Reclaim() {
	for _, pool := range dispatcher.M_pools {
		if pool != nil {
			pool.Reclaim()
		}
	}
}

/// Number of pooled handlers of one variant that are ready for reuse.
func (dispatcher B3Dispatcher) GetFreeCount(handlerType uint8) int {
	pool := dispatcher.M_pools[handlerType]
	if pool == nil {
		return 0
	}
	return pool.InvalidCount()
}
