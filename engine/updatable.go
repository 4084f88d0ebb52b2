package engine

// Updatable represents a unit of per-frame work. Update is called at most once
// per frame with the frame clock timestamp in nanoseconds and must not block.
type Updatable interface {
	Update(timestamp int64)
}

// UpdateFunc adapts a plain function to the Updatable interface.
type UpdateFunc func(timestamp int64)

// Update calls f(timestamp).
func (f UpdateFunc) Update(timestamp int64) {
	f(timestamp)
}

// UpdateDelegator is an Updatable whose update fans out to its own Updater.
// Update providers and timers declared by an entity are registered on this Updater.
type UpdateDelegator interface {
	Updatable
	Updater() *Updater
}

// Updater holds an ordered list of Updatables that are invoked on every Update.
// Clearing is deferred: Clear only raises a flag that the next Update honors,
// so the list is never mutated while it is being iterated.
type Updater struct {
	updatables   []Updatable
	clearPending bool
}

// NewUpdater creates an empty Updater.
func NewUpdater() *Updater {
	return &Updater{
		updatables: make([]Updatable, 0),
	}
}

// Add appends an Updatable to the end of the list.
func (u *Updater) Add(updatable Updatable) {
	u.AddUpdatable(updatable, false)
}

// AddUpdatable adds an Updatable to the list. When runFirst is true it is
// inserted at index 0 and will run before every entry added so far.
func (u *Updater) AddUpdatable(updatable Updatable, runFirst bool) {
	if runFirst {
		u.updatables = append([]Updatable{updatable}, u.updatables...)
		return
	}
	u.updatables = append(u.updatables, updatable)
}

// Update invokes every Updatable in order. If a clear is pending the list is
// emptied instead and nothing is invoked. Panics raised by an entry propagate.
func (u *Updater) Update(timestamp int64) {
	if u.clearPending {
		clear(u.updatables)
		u.updatables = u.updatables[:0]
		u.clearPending = false
		return
	}

	// The range expression is evaluated once; entries added mid-iteration run next frame.
	for _, updatable := range u.updatables {
		updatable.Update(timestamp)
	}
}

// Clear requests that the list be emptied on the next Update.
func (u *Updater) Clear() {
	u.clearPending = true
}

// Len returns the number of registered Updatables.
func (u *Updater) Len() int {
	return len(u.updatables)
}
