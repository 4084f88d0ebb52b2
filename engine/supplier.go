package engine

// EntitySupplier is a one-shot handoff buffer for newly created entities.
// Membership is by identity and duplicates are ignored. Suppliers themselves
// are compared by pointer, so two suppliers holding the same entities remain
// distinct when used as map keys.
type EntitySupplier struct {
	members []Entity
	index   map[Entity]struct{}
}

// NewEntitySupplier creates an empty supplier.
func NewEntitySupplier() *EntitySupplier {
	return &EntitySupplier{
		index: make(map[Entity]struct{}),
	}
}

// Add queues an entity. It returns false when the entity is already queued.
// Non-pointer entities are a wiring bug and panic with ErrNotPointer.
func (s *EntitySupplier) Add(e Entity) bool {
	if err := checkEntity(e); err != nil {
		panic(err)
	}
	if s.index == nil {
		s.index = make(map[Entity]struct{})
	}
	if _, ok := s.index[e]; ok {
		return false
	}
	s.index[e] = struct{}{}
	s.members = append(s.members, e)
	return true
}

// Contains reports whether e is queued.
func (s *EntitySupplier) Contains(e Entity) bool {
	if checkEntity(e) != nil {
		return false
	}
	_, ok := s.index[e]
	return ok
}

// Len returns the number of queued entities.
func (s *EntitySupplier) Len() int {
	return len(s.members)
}

// Drain returns every queued entity and empties the supplier in the same call.
// An empty supplier yields a new empty slice, never nil.
func (s *EntitySupplier) Drain() []Entity {
	if len(s.members) == 0 {
		return []Entity{}
	}

	drained := s.members
	s.members = nil
	clear(s.index)
	return drained
}

// Clear discards every queued entity.
func (s *EntitySupplier) Clear() {
	s.members = nil
	clear(s.index)
}
