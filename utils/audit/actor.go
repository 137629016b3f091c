package audit

// Actor identifies who performed a write. The zero value is "unknown", which
// is stored as NULL in the created_by / updated_by / deleted_by columns.
type Actor struct {
	id    uint
	known bool
}

// None is the unresolved actor.
func None() Actor {
	return Actor{}
}

// User returns an actor for the given user id. Id 0 is treated as unknown.
func User(id uint) Actor {
	if id == 0 {
		return None()
	}
	return Actor{id: id, known: true}
}

// ID returns the user id and whether the actor is known.
func (a Actor) ID() (uint, bool) {
	return a.id, a.known
}

// Known reports whether the actor was resolved.
func (a Actor) Known() bool {
	return a.known
}

// Ptr returns the value to persist in an audit column.
func (a Actor) Ptr() *uint {
	if !a.known {
		return nil
	}
	id := a.id
	return &id
}
