package engine_test

import (
	"testing"

	"github.com/plus3/sprout/engine"
	"github.com/stretchr/testify/assert"
)

func TestUpdater(t *testing.T) {
	t.Run("runs updatables in insertion order", func(t *testing.T) {
		var order []string
		updater := engine.NewUpdater()
		updater.Add(engine.UpdateFunc(func(int64) { order = append(order, "a") }))
		updater.Add(engine.UpdateFunc(func(int64) { order = append(order, "b") }))

		updater.Update(1)

		assert.Equal(t, []string{"a", "b"}, order)
	})

	t.Run("runFirst inserts at the front", func(t *testing.T) {
		var order []string
		updater := engine.NewUpdater()
		updater.AddUpdatable(engine.UpdateFunc(func(int64) { order = append(order, "a") }), false)
		updater.AddUpdatable(engine.UpdateFunc(func(int64) { order = append(order, "b") }), true)
		updater.AddUpdatable(engine.UpdateFunc(func(int64) { order = append(order, "c") }), true)

		updater.Update(1)

		assert.Equal(t, []string{"c", "b", "a"}, order)
	})

	t.Run("passes the timestamp through", func(t *testing.T) {
		var got int64
		updater := engine.NewUpdater()
		updater.Add(engine.UpdateFunc(func(ts int64) { got = ts }))

		updater.Update(37)

		if got != 37 {
			t.Errorf("expected timestamp 37, got %d", got)
		}
	})

	t.Run("clear is deferred to the next update", func(t *testing.T) {
		calls := 0
		updater := engine.NewUpdater()
		updater.Add(engine.UpdateFunc(func(int64) { calls++ }))

		updater.Clear()
		assert.Equal(t, 1, updater.Len(), "clear must not empty the list immediately")

		updater.Update(1)
		assert.Equal(t, 0, calls, "the clearing update must not invoke anything")
		assert.Equal(t, 0, updater.Len())

		updater.Update(2)
		assert.Equal(t, 0, calls)
	})

	t.Run("clear from inside an update applies to the next one", func(t *testing.T) {
		calls := 0
		updater := engine.NewUpdater()
		updater.Add(engine.UpdateFunc(func(int64) { calls++; updater.Clear() }))
		updater.Add(engine.UpdateFunc(func(int64) { calls++ }))

		updater.Update(1)
		assert.Equal(t, 2, calls, "the running update finishes")
		assert.Equal(t, 2, updater.Len())

		updater.Update(2)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 0, updater.Len())

		updater.Update(3)
		assert.Equal(t, 2, calls)
	})

	t.Run("clear flag is consumed", func(t *testing.T) {
		calls := 0
		updater := engine.NewUpdater()
		updater.Clear()
		updater.Update(1)

		updater.Add(engine.UpdateFunc(func(int64) { calls++ }))
		updater.Update(2)

		assert.Equal(t, 1, calls)
	})

	t.Run("panics propagate", func(t *testing.T) {
		updater := engine.NewUpdater()
		updater.Add(engine.UpdateFunc(func(int64) { panic("boom") }))

		assert.Panics(t, func() { updater.Update(1) })
	})
}
