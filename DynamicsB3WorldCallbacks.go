package box3d

//go:generate go tool mockgen -destination=./mocks/world_callbacks_mock.go -package=mocks . B3PairListenerInterface,B3ContactListenerInterface,B3ContactFilterInterface

/// Per-collidable event triggerer. Notifications are fire-and-forget: the
/// pipeline never looks at what the listener does with them. A listener
/// must not create or destroy collidables from inside a callback.
type B3PairListenerInterface interface {
	/// Called once when a pair handler starts tracking this collidable and other.
	OnPairCreated(other *B3Collidable, pair B3ContactInterface) // pair is backed by a pointer

	/// Called when the contact point set of the pair gained or lost points.
	OnPairUpdated(other *B3Collidable, pair B3ContactInterface) // pair is backed by a pointer

	/// Called when the pair handler is released. other may already be
	/// destroyed, in which case it is nil.
	OnPairRemoved(other *B3Collidable)
}

/// World-level touch notifications, the counterpart of the per-collidable
/// listener for game code that wants a single sink.
type B3ContactListenerInterface interface {
	/// Called when two collidables begin to touch.
	BeginContact(contact B3ContactInterface) // contact has to be backed by a pointer

	/// Called when two collidables cease to touch.
	EndContact(contact B3ContactInterface) // contact has to be backed by a pointer
}

type B3ContactFilterInterface interface {
	ShouldCollide(collidableA *B3Collidable, collidableB *B3Collidable) bool
}

type B3ContactFilter struct {
}

// Return true if contact calculations should be performed between these two collidables.
// If you implement your own collision filter you may want to build from this implementation.
func (cf *B3ContactFilter) ShouldCollide(collidableA *B3Collidable, collidableB *B3Collidable) bool {
	filterA := collidableA.GetFilterData()
	filterB := collidableB.GetFilterData()

	if filterA.GroupIndex == filterB.GroupIndex && filterA.GroupIndex != 0 {
		return filterA.GroupIndex > 0
	}

	collide := (filterA.MaskBits&filterB.CategoryBits) != 0 && (filterA.CategoryBits&filterB.MaskBits) != 0
	return collide
}

type B3BroadPhaseQueryCallback func(collidable *B3Collidable) bool
