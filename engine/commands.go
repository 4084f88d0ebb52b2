package engine

// commands buffers structural changes requested while a frame is running so
// that the partitions of an EntityCollection are never mutated mid-iteration.
// Adds are taken at the start of the next Draining phase. Removals and deferred
// callbacks are flushed at the end of the GarbageCollecting phase.
type commands struct {
	adds    *EntitySupplier
	removes []*entityRecord
	defers  []deferCommand
}

type deferCommand struct {
	fn func()
}

func newCommands() *commands {
	return &commands{
		adds: NewEntitySupplier(),
	}
}

// Add queues an entity for activation.
func (c *commands) Add(e Entity) bool {
	return c.adds.Add(e)
}

// Remove queues the excision of an activated entity.
func (c *commands) Remove(rec *entityRecord) {
	c.removes = append(c.removes, rec)
}

// Defer queues a function to run after the next garbage collection.
func (c *commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// takeAdds returns the queued entities and empties the add buffer.
func (c *commands) takeAdds() []Entity {
	return c.adds.Drain()
}

// Flush excises every queued removal through excise, then runs the deferred
// callbacks. Callbacks deferred while flushing run on the next flush.
func (c *commands) Flush(excise func(rec *entityRecord), run func(fn func())) {
	for _, rec := range c.removes {
		excise(rec)
	}
	clear(c.removes)
	c.removes = c.removes[:0]

	defers := c.defers
	c.defers = nil
	for _, df := range defers {
		run(df.fn)
	}
}

func (c *commands) reset() {
	c.adds.Clear()
	clear(c.removes)
	c.removes = c.removes[:0]
	c.defers = nil
}
