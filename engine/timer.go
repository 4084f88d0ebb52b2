package engine

import "time"

// Timer fires a callback every time at least interval has elapsed between frame
// timestamps. The first Update only records the starting timestamp.
type Timer struct {
	interval int64
	previous int64
	started  bool
	paused   bool
	fire     func(timestamp int64)
}

var _ Updatable = (*Timer)(nil)

// NewTimer creates a timer with the given interval and callback.
func NewTimer(interval time.Duration, fire func(timestamp int64)) *Timer {
	return &Timer{
		interval: int64(interval),
		fire:     fire,
	}
}

// Update advances the timer to timestamp and fires when the interval elapsed.
func (t *Timer) Update(timestamp int64) {
	if t.paused {
		return
	}
	if !t.started {
		t.started = true
		t.previous = timestamp
		return
	}
	if timestamp-t.previous >= t.interval {
		t.previous = timestamp
		t.fire(timestamp)
	}
}

// Pause stops the timer from firing until Resume is called.
func (t *Timer) Pause() {
	t.paused = true
}

// Resume restarts a paused timer. The interval is measured from the next Update.
func (t *Timer) Resume() {
	t.paused = false
	t.started = false
}

// Reset restarts the interval from the next Update.
func (t *Timer) Reset() {
	t.started = false
}

func (t *Timer) Paused() bool            { return t.paused }
func (t *Timer) Interval() time.Duration { return time.Duration(t.interval) }

// TimerContainer entities own timers that run on their own Updater.
type TimerContainer interface {
	Timers() []*Timer
}

// Spawner is a timed source of new entities. Every interval it calls spawn,
// which hands entities to Spawn; the owning EntityCollection drains them at the
// start of the next frame.
type Spawner struct {
	supplier *EntitySupplier
	timer    *Timer
}

var _ Updatable = (*Spawner)(nil)

// NewSpawner creates a spawner that calls spawn every interval.
func NewSpawner(interval time.Duration, spawn func(s *Spawner)) *Spawner {
	s := &Spawner{
		supplier: NewEntitySupplier(),
	}
	s.timer = NewTimer(interval, func(int64) {
		spawn(s)
	})
	return s
}

// Spawn queues an entity for the next frame.
func (s *Spawner) Spawn(e Entity) {
	s.supplier.Add(e)
}

// Supplier returns the buffer this spawner fills.
func (s *Spawner) Supplier() *EntitySupplier {
	return s.supplier
}

// Update drives the spawn timer.
func (s *Spawner) Update(timestamp int64) {
	s.timer.Update(timestamp)
}

func (s *Spawner) Pause()  { s.timer.Pause() }
func (s *Spawner) Resume() { s.timer.Resume() }
