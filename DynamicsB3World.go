package box3d

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

var B3World_Flags = struct {
	E_locked uint32
}{
	E_locked: 0x0002,
}

/// The world owns the collidables, the reference broad-phase and the
/// contact manager, and runs the collision pipeline once per step:
/// broad-phase pair events, narrow phase, then time of impact.
/// The world is handed out by pointer only; its parts refer to each other.
type B3World struct {
	M_flags uint32

	M_settings B3Settings

	M_arena          B3CollidableArena
	M_broadPhase     B3BroadPhase
	M_contactManager B3ContactManager
	M_defaultFilter  B3ContactFilter

	// Run the narrow phase over Settings.Workers goroutines.
	M_parallel bool

	M_watcher *B3SettingsWatcher
	M_logger  *slog.Logger

	M_profile B3Profile
}

/// Construct a world. Invalid settings are a configuration error and panic.
func NewB3World(settings B3Settings) *B3World {
	err := settings.Validate()
	B3Assertf(err == nil, "invalid settings: %v", err)

	world := &B3World{
		M_settings:   settings,
		M_arena:      MakeB3CollidableArena(),
		M_broadPhase: MakeB3BroadPhase(),
		M_logger:     slog.Default(),
	}

	world.M_contactManager = MakeB3ContactManager(&world.M_arena, &world.M_settings)
	world.M_contactManager.M_contactFilter = &world.M_defaultFilter

	return world
}

/// Stop watching the settings file, if any.
func (world *B3World) Close() error {
	if world.M_watcher == nil {
		return nil
	}
	err := world.M_watcher.Close()
	world.M_watcher = nil
	return err
}

func (world *B3World) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	world.M_logger = logger
	world.M_contactManager.SetLogger(logger)
}

/// Register a contact filter to provide specific control over collision.
/// Otherwise the default filter is used (category, mask and group bits).
func (world *B3World) SetContactFilter(filter B3ContactFilterInterface) {
	if filter == nil {
		filter = &world.M_defaultFilter
	}
	world.M_contactManager.M_contactFilter = filter
}

/// Register a contact event listener.
func (world *B3World) SetContactListener(listener B3ContactListenerInterface) {
	world.M_contactManager.M_contactListener = listener
}

func (world *B3World) SetParallel(flag bool) {
	world.M_parallel = flag
}

func (world B3World) IsParallel() bool {
	return world.M_parallel
}

func (world B3World) IsLocked() bool {
	return (world.M_flags & B3World_Flags.E_locked) == B3World_Flags.E_locked
}

func (world B3World) GetSettings() B3Settings {
	return world.M_settings
}

/// Replace the settings between steps. Pair handlers keep the material
/// mixture computed when they were created.
func (world *B3World) SetSettings(settings B3Settings) error {
	B3Assert(world.IsLocked() == false)
	if err := settings.Validate(); err != nil {
		return err
	}
	world.M_settings = settings
	return nil
}

/// Watch a YAML settings file. Changes are picked up at the start of the
/// next step.
func (world *B3World) WatchSettings(filename string) error {
	watcher, err := NewB3SettingsWatcher(filename)
	if err != nil {
		return fmt.Errorf("box3d: watch %s: %w", filename, err)
	}
	if world.M_watcher != nil {
		_ = world.M_watcher.Close()
	}
	world.M_watcher = watcher
	return nil
}

func (world *B3World) applyPendingSettings() {
	if world.M_watcher == nil {
		return
	}

	for {
		select {
		case settings, ok := <-world.M_watcher.Settings:
			if !ok {
				return
			}
			world.M_settings = settings
			world.M_logger.Info("settings reloaded",
				"contact_margin", settings.ContactMargin,
				"workers", settings.Workers,
				"debug", settings.Debug,
			)
		case err, ok := <-world.M_watcher.Errors:
			if !ok {
				return
			}
			world.M_logger.Warn("settings reload failed", "err", err)
		default:
			return
		}
	}
}

func (world B3World) GetProfile() B3Profile {
	return world.M_profile
}

func (world *B3World) GetContactManager() *B3ContactManager {
	return &world.M_contactManager
}

func (world B3World) GetContactCount() int {
	return world.M_contactManager.GetContactCount()
}

func (world B3World) GetContact(index int) B3ContactInterface {
	return world.M_contactManager.GetContact(index)
}

func (world B3World) FindContact(a, b B3CollidableHandle) B3ContactInterface {
	return world.M_contactManager.FindContact(a, b)
}

func (world B3World) GetCollidableCount() int {
	return world.M_arena.GetCount()
}

/// Resolve a handle. Returns nil when the collidable was destroyed.
func (world *B3World) GetCollidable(h B3CollidableHandle) *B3Collidable {
	return world.M_arena.Get(h)
}

/// Create a collidable given a definition. No reference to the definition
/// is retained.
/// @warning This function is locked during callbacks.
func (world *B3World) CreateCollidable(def *B3CollidableDef) B3CollidableHandle {
	B3Assert(world.IsLocked() == false)

	collidable := world.M_arena.Create(def)
	collidable.M_proxyId = world.M_broadPhase.CreateProxy(collidable.M_aabb, collidable.M_handle)

	world.M_logger.Debug("collidable created",
		"handle", collidable.M_handle.String(),
		"shape", B3ShapeTypeName(collidable.GetType()),
		"static", collidable.IsStatic(),
	)

	return collidable.M_handle
}

/// Destroy a collidable. Its pair handlers are torn down first, with their
/// removal notifications, then its proxy and finally its arena slot.
/// Returns false for a stale handle.
/// @warning This function is locked during callbacks.
func (world *B3World) DestroyCollidable(h B3CollidableHandle) bool {
	B3Assert(world.IsLocked() == false)

	collidable := world.M_arena.Get(h)
	if collidable == nil {
		return false
	}

	world.M_contactManager.RemoveCollidablePairs(h)
	world.M_broadPhase.DestroyProxy(collidable.M_proxyId)
	collidable.M_proxyId = E_nullProxy
	world.M_arena.Destroy(h)

	world.M_logger.Debug("collidable destroyed", "handle", h.String())
	return true
}

/// Move a collidable. This is how the integrator publishes new
/// positions; the broad-phase picks the move up on the next step.
func (world *B3World) SetTransform(h B3CollidableHandle, xf B3Transform) bool {
	B3Assert(world.IsLocked() == false)

	collidable := world.M_arena.Get(h)
	if collidable == nil {
		return false
	}

	displacement := xf.P.Sub(collidable.M_xf.P)
	collidable.M_xf = xf
	collidable.synchronize()
	world.M_broadPhase.MoveProxy(collidable.M_proxyId, collidable.M_aabb, displacement)
	return true
}

/// Publish the velocities of the entity owning h.
func (world *B3World) SetVelocity(h B3CollidableHandle, linear mgl64.Vec3, angular mgl64.Vec3) bool {
	collidable := world.M_arena.Get(h)
	if collidable == nil || collidable.M_entity == nil {
		return false
	}
	collidable.M_entity.SetLinearVelocity(linear)
	collidable.M_entity.SetAngularVelocity(angular)
	return true
}

/// Set the contact filtering data. Existing pairs are re-filtered on the
/// next step and pairs the old filter rejected are created now.
func (world *B3World) SetFilterData(h B3CollidableHandle, filter B3Filter) bool {
	B3Assert(world.IsLocked() == false)

	collidable := world.M_arena.Get(h)
	if collidable == nil {
		return false
	}

	collidable.M_filter = filter
	world.M_contactManager.FlagForFiltering(h)

	proxyId := collidable.M_proxyId
	world.M_broadPhase.Query(func(otherId int) bool {
		if otherId != proxyId && world.M_broadPhase.TestOverlap(proxyId, otherId) {
			world.M_contactManager.AddPair(h, world.M_broadPhase.GetUserData(otherId).(B3CollidableHandle))
		}
		return true
	}, world.M_broadPhase.GetFatAABB(proxyId))

	return true
}

/// Run one step of the collision pipeline.
func (world *B3World) Step(dt float64) {
	err := world.StepContext(context.Background(), dt)
	B3Assertf(err == nil, "step failed: %v", err)
}

/// Run one step of the collision pipeline. The context only matters for
/// the parallel narrow phase, which stops early when it is cancelled.
func (world *B3World) StepContext(ctx context.Context, dt float64) error {
	B3Assertf(world.IsLocked() == false, "step called from a callback")

	world.applyPendingSettings()

	stepTimer := MakeB3Timer()
	step := MakeB3TimeStep(dt)

	world.M_flags |= B3World_Flags.E_locked
	defer func() {
		world.M_flags &= ^B3World_Flags.E_locked
	}()

	// Pair adds and removes are fully applied before any narrow phase.
	{
		timer := MakeB3Timer()
		world.M_contactManager.ApplyPairEvents(world.M_broadPhase.UpdatePairs())
		world.M_profile.Broadphase = timer.GetMilliseconds()
	}

	// Update contacts. This is where stale pairs are destroyed.
	{
		timer := MakeB3Timer()
		if world.M_parallel {
			if err := world.M_contactManager.CollideParallel(ctx, step.Dt); err != nil {
				return fmt.Errorf("box3d: narrow phase: %w", err)
			}
		} else {
			world.M_contactManager.Collide(step.Dt)
		}
		world.M_profile.Collide = timer.GetMilliseconds()
	}

	// Handle TOI events with the same transforms.
	world.M_profile.SolveTOI = 0.0
	if step.Dt > 0.0 {
		timer := MakeB3Timer()
		world.M_arena.Each(func(collidable *B3Collidable) {
			if collidable.M_entity != nil {
				collidable.M_entity.M_toi = 1.0
			}
		})
		world.M_contactManager.UpdateTimeOfImpacts(step.Dt)
		world.M_profile.SolveTOI = timer.GetMilliseconds()
	}

	world.M_contactManager.Reclaim()

	world.M_profile.Step = stepTimer.GetMilliseconds()
	return nil
}

/// Query the world for all collidables that potentially overlap the
/// provided AABB.
/// @param callback a user implemented callback class.
/// @param aabb the query box.
func (world *B3World) QueryAABB(callback B3BroadPhaseQueryCallback, aabb B3AABB) {
	world.M_broadPhase.Query(func(proxyId int) bool {
		collidable := world.M_arena.Get(world.M_broadPhase.GetUserData(proxyId).(B3CollidableHandle))
		if collidable == nil {
			return true
		}
		return callback(collidable)
	}, aabb)
}

/// Get the number of broad-phase proxies.
func (world B3World) GetProxyCount() int {
	return world.M_broadPhase.GetProxyCount()
}

/// Get the height of the dynamic tree.
func (world B3World) GetTreeHeight() int {
	return world.M_broadPhase.GetTreeHeight()
}

/// Get the balance of the dynamic tree.
func (world B3World) GetTreeBalance() int {
	return world.M_broadPhase.GetTreeBalance()
}

/// Get the quality metric of the dynamic tree. The smaller the better.
/// The minimum is 1.
func (world B3World) GetTreeQuality() float64 {
	return world.M_broadPhase.GetTreeQuality()
}
