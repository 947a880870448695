package ecs

// EntityId identifies an entity for the lifetime of a Storage.
// Ids are handed out sequentially starting at 1 and are never reused, so a
// stale id held by a system simply stops resolving once the entity is gone.
type EntityId uint64

// Valid reports whether the id could have been issued by a Storage.
func (e EntityId) Valid() bool {
	return e != 0
}
