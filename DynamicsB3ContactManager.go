package box3d

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

/// Unordered pair of collidables, stored with the smaller handle first.
type B3PairKey struct {
	A B3CollidableHandle
	B B3CollidableHandle
}

func MakeB3PairKey(a, b B3CollidableHandle) B3PairKey {
	if b.Less(a) {
		a, b = b, a
	}
	return B3PairKey{A: a, B: b}
}

type b3ContactEntry struct {
	key     B3PairKey
	contact B3ContactInterface
}

/// Delegate of B3World. Owns exactly one pair handler per unordered
/// collidable pair whose bounding boxes overlap in the broad-phase.
/// Handlers are created and destroyed only by pair events and by
/// collidable destruction, never by the narrow phase.
type B3ContactManager struct {
	M_arena      *B3CollidableArena
	M_settings   *B3Settings
	M_dispatcher B3Dispatcher

	M_contacts    map[B3PairKey]int
	M_contactList []b3ContactEntry

	M_contactFilter   B3ContactFilterInterface
	M_contactListener B3ContactListenerInterface

	// Scratch of the serial narrow phase, and one per parallel worker.
	M_context        *B3NarrowPhaseContext
	M_workerContexts []*B3NarrowPhaseContext
	M_events         []uint32

	M_logger *slog.Logger
}

func MakeB3ContactManager(arena *B3CollidableArena, settings *B3Settings) B3ContactManager {
	return B3ContactManager{
		M_arena:      arena,
		M_settings:   settings,
		M_dispatcher: MakeB3Dispatcher(arena, settings),
		M_contacts:   make(map[B3PairKey]int),
		M_context:    NewB3NarrowPhaseContext(settings),
		M_logger:     slog.Default(),
	}
}

func NewB3ContactManager(arena *B3CollidableArena, settings *B3Settings) *B3ContactManager {
	res := MakeB3ContactManager(arena, settings)
	return &res
}

func (mgr *B3ContactManager) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	mgr.M_logger = logger
}

func (mgr B3ContactManager) GetContactCount() int {
	return len(mgr.M_contactList)
}

/// Pair handlers in creation order, with removals filled from the tail.
func (mgr B3ContactManager) GetContact(index int) B3ContactInterface {
	B3Assert(0 <= index && index < len(mgr.M_contactList))
	return mgr.M_contactList[index].contact
}

func (mgr B3ContactManager) FindContact(a, b B3CollidableHandle) B3ContactInterface {
	index, ok := mgr.M_contacts[MakeB3PairKey(a, b)]
	if !ok {
		return nil
	}
	return mgr.M_contactList[index].contact
}

/// Apply one step of the broad-phase feed. Removals are applied before
/// additions so a pair that left and came back gets a fresh handler.
func (mgr *B3ContactManager) ApplyPairEvents(events []B3PairEvent) {
	for _, event := range events {
		if event.Type == B3PairEvent_Type.E_remove {
			mgr.RemovePair(event.UserDataA.(B3CollidableHandle), event.UserDataB.(B3CollidableHandle))
		}
	}
	for _, event := range events {
		if event.Type == B3PairEvent_Type.E_add {
			mgr.AddPair(event.UserDataA.(B3CollidableHandle), event.UserDataB.(B3CollidableHandle))
		}
	}
}

/// Create the pair handler for a and b unless the pair is filtered out or
/// already tracked. Returns the handler or nil.
func (mgr *B3ContactManager) AddPair(a, b B3CollidableHandle) B3ContactInterface {
	collidableA := mgr.M_arena.Get(a)
	collidableB := mgr.M_arena.Get(b)
	if collidableA == nil || collidableB == nil {
		return nil
	}

	// Are the collidables the same?
	if a == b {
		return nil
	}

	// Does a contact already exist?
	key := MakeB3PairKey(a, b)
	if index, ok := mgr.M_contacts[key]; ok {
		return mgr.M_contactList[index].contact
	}

	// Static geometry never collides with static geometry.
	if collidableA.IsStatic() && collidableB.IsStatic() {
		return nil
	}

	// Are the collidables on the same entity?
	if collidableA.M_entity != nil && collidableA.M_entity == collidableB.M_entity {
		return nil
	}

	// Check user filtering.
	if mgr.M_contactFilter != nil && !mgr.M_contactFilter.ShouldCollide(collidableA, collidableB) {
		return nil
	}

	// Call the factory. It may swap A and B.
	contact := mgr.M_dispatcher.Acquire(collidableA, collidableB)

	mgr.M_contacts[key] = len(mgr.M_contactList)
	mgr.M_contactList = append(mgr.M_contactList, b3ContactEntry{key: key, contact: contact})

	mgr.M_logger.Debug("pair created",
		"a", contact.GetHandleA().String(),
		"b", contact.GetHandleB().String(),
		"handler", B3ContactHandlerTypeName(contact.GetHandlerType()),
	)

	pairA := contact.GetCollidableA()
	pairB := contact.GetCollidableB()
	if listener := pairA.GetListener(); listener != nil {
		listener.OnPairCreated(pairB, contact)
	}
	if listener := pairB.GetListener(); listener != nil {
		listener.OnPairCreated(pairA, contact)
	}

	return contact
}

func (mgr *B3ContactManager) RemovePair(a, b B3CollidableHandle) bool {
	index, ok := mgr.M_contacts[MakeB3PairKey(a, b)]
	if !ok {
		return false
	}
	mgr.destroyAt(index)
	return true
}

func (mgr *B3ContactManager) Destroy(contact B3ContactInterface) {
	index, ok := mgr.M_contacts[MakeB3PairKey(contact.GetHandleA(), contact.GetHandleB())]
	B3Assertf(ok && mgr.M_contactList[index].contact == contact, "pair handler is not owned by this manager")
	mgr.destroyAt(index)
}

func (mgr *B3ContactManager) destroyAt(index int) {
	entry := mgr.M_contactList[index]
	contact := entry.contact

	collidableA := contact.GetCollidableA()
	collidableB := contact.GetCollidableB()

	if mgr.M_contactListener != nil && contact.IsTouching() {
		mgr.M_contactListener.EndContact(contact)
	}

	if collidableA != nil {
		if listener := collidableA.GetListener(); listener != nil {
			listener.OnPairRemoved(collidableB)
		}
	}
	if collidableB != nil {
		if listener := collidableB.GetListener(); listener != nil {
			listener.OnPairRemoved(collidableA)
		}
	}

	mgr.M_logger.Debug("pair removed",
		"a", contact.GetHandleA().String(),
		"b", contact.GetHandleB().String(),
	)

	// Remove from the list by moving the tail into the hole.
	last := len(mgr.M_contactList) - 1
	if index != last {
		mgr.M_contactList[index] = mgr.M_contactList[last]
		mgr.M_contacts[mgr.M_contactList[index].key] = index
	}
	mgr.M_contactList[last] = b3ContactEntry{}
	mgr.M_contactList = mgr.M_contactList[:last]
	delete(mgr.M_contacts, entry.key)

	mgr.M_dispatcher.Release(contact)
}

/// Tear down every pair handler of h. Call this before the collidable is
/// destroyed so listeners still see both sides.
func (mgr *B3ContactManager) RemoveCollidablePairs(h B3CollidableHandle) int {
	removed := 0
	for i := len(mgr.M_contactList) - 1; i >= 0; i-- {
		key := mgr.M_contactList[i].key
		if key.A == h || key.B == h {
			mgr.destroyAt(i)
			removed++
		}
	}
	return removed
}

/// Flag every pair handler of h for filtering.
func (mgr *B3ContactManager) FlagForFiltering(h B3CollidableHandle) {
	for _, entry := range mgr.M_contactList {
		if entry.key.A == h || entry.key.B == h {
			entry.contact.FlagForFiltering()
		}
	}
}

// Drop handlers whose filter flag is set and that no longer pass the filter.
func (mgr *B3ContactManager) applyFiltering() {
	for i := len(mgr.M_contactList) - 1; i >= 0; i-- {
		contact := mgr.M_contactList[i].contact
		if contact.GetFlags()&B3Contact_Flag.E_filterFlag == 0 {
			continue
		}

		collidableA := contact.GetCollidableA()
		collidableB := contact.GetCollidableB()
		if collidableA != nil && collidableB != nil && mgr.M_contactFilter != nil && !mgr.M_contactFilter.ShouldCollide(collidableA, collidableB) {
			mgr.destroyAt(i)
			continue
		}

		// Clear the filtering flag.
		contact.SetFlags(contact.GetFlags() & ^B3Contact_Flag.E_filterFlag)
	}
}

/// This is the top level collision call for the time step. Here
/// all the narrow phase collision is processed for the contact list.
func (mgr *B3ContactManager) Collide(dt float64) {
	mgr.applyFiltering()

	mgr.M_events = mgr.M_events[:0]
	for _, entry := range mgr.M_contactList {
		mgr.M_events = append(mgr.M_events, entry.contact.UpdateContacts(mgr.M_context, dt))
		mgr.M_context.Reclaim()
	}

	mgr.flushEvents()
}

/// Same as Collide with the handlers split into contiguous chunks over
/// Settings.Workers goroutines. Each worker owns a private narrow phase
/// context; collidables are only read. Listener calls are deferred and
/// made afterwards in list order, so the observable outcome matches
/// Collide. When ctx is cancelled the handlers that were already updated
/// still report their events; the others keep last step's state and are
/// updated on the next call.
func (mgr *B3ContactManager) CollideParallel(ctx context.Context, dt float64) error {
	mgr.applyFiltering()

	count := len(mgr.M_contactList)
	workers := mgr.M_settings.Workers
	if workers < 1 {
		workers = 1
	}
	for len(mgr.M_workerContexts) < workers {
		mgr.M_workerContexts = append(mgr.M_workerContexts, NewB3NarrowPhaseContext(mgr.M_settings))
	}

	if cap(mgr.M_events) < count {
		mgr.M_events = make([]uint32, count)
	}
	mgr.M_events = mgr.M_events[:count]
	// Handlers a cancelled pass never reaches report nothing.
	clear(mgr.M_events)

	chunk := (count + workers - 1) / workers
	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, count)
		if start >= end {
			break
		}

		narrowPhase := mgr.M_workerContexts[w]
		eg.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				mgr.M_events[i] = mgr.M_contactList[i].contact.UpdateContacts(narrowPhase, dt)
				narrowPhase.Reclaim()
			}
			return nil
		})
	}

	err := eg.Wait()
	mgr.flushEvents()
	return err
}

// Turn the event bits of the last narrow phase pass into listener calls,
// then drop stale handlers.
func (mgr *B3ContactManager) flushEvents() {
	var stale []B3PairKey

	for i, events := range mgr.M_events {
		entry := mgr.M_contactList[i]
		contact := entry.contact

		if events&B3ContactEvent.E_stale != 0 {
			// Destruction order should make this unreachable.
			B3Assertf(!mgr.M_settings.Debug, "pair %s-%s references a destroyed collidable", entry.key.A, entry.key.B)
			mgr.M_logger.Warn("skipping stale pair",
				"a", entry.key.A.String(),
				"b", entry.key.B.String(),
			)
			stale = append(stale, entry.key)
			continue
		}

		if mgr.M_contactListener != nil {
			if events&B3ContactEvent.E_beginTouch != 0 {
				mgr.M_contactListener.BeginContact(contact)
			}
			if events&B3ContactEvent.E_endTouch != 0 {
				mgr.M_contactListener.EndContact(contact)
			}
		}

		if events&B3ContactEvent.E_pointsChanged != 0 {
			collidableA := contact.GetCollidableA()
			collidableB := contact.GetCollidableB()
			if listener := collidableA.GetListener(); listener != nil {
				listener.OnPairUpdated(collidableB, contact)
			}
			if listener := collidableB.GetListener(); listener != nil {
				listener.OnPairUpdated(collidableA, contact)
			}
		}
	}
	mgr.M_events = mgr.M_events[:0]

	for _, key := range stale {
		if index, ok := mgr.M_contacts[key]; ok {
			mgr.destroyAt(index)
		}
	}
}

/// Time of impact pass. Every continuous entity gets the earliest impact
/// over all of its pairs, 1 when nothing is hit. Must run after the
/// narrow phase of the same step so both see the same transforms.
func (mgr *B3ContactManager) UpdateTimeOfImpacts(dt float64) {
	for _, entry := range mgr.M_contactList {
		contact := entry.contact
		if contact.GetState() != B3Contact_State.E_active {
			continue
		}

		for _, h := range [2]B3CollidableHandle{contact.GetHandleA(), contact.GetHandleB()} {
			collidable := mgr.M_arena.Get(h)
			if collidable == nil {
				continue
			}
			entity := collidable.GetEntity()
			if entity == nil || !entity.IsContinuous() {
				continue
			}

			toi := contact.UpdateTimeOfImpact(mgr.M_context, h, dt)
			mgr.M_context.Reclaim()
			if toi < entity.M_toi {
				entity.M_toi = toi
			}
		}
	}
}

/// Recycle released pair handlers and narrow phase scratch.
func (mgr *B3ContactManager) Reclaim() {
	mgr.M_dispatcher.Reclaim()
	mgr.M_context.Reclaim()
	for _, narrowPhase := range mgr.M_workerContexts {
		narrowPhase.Reclaim()
	}
}
