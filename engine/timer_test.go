package engine_test

import (
	"testing"
	"time"

	"github.com/plus3/sprout/engine"
	"github.com/stretchr/testify/assert"
)

func TestTimer(t *testing.T) {
	t.Run("first update only starts the clock", func(t *testing.T) {
		var fired []int64
		timer := engine.NewTimer(100, func(ts int64) { fired = append(fired, ts) })

		timer.Update(1000)
		timer.Update(1099)
		timer.Update(1100)
		timer.Update(1150)
		timer.Update(1200)

		assert.Equal(t, []int64{1100, 1200}, fired)
	})

	t.Run("paused timers do not fire", func(t *testing.T) {
		fired := 0
		timer := engine.NewTimer(10, func(int64) { fired++ })
		timer.Update(0)
		timer.Pause()
		timer.Update(100)
		assert.Equal(t, 0, fired)
		assert.True(t, timer.Paused())

		timer.Resume()
		timer.Update(200)
		assert.Equal(t, 0, fired, "resume restarts the interval")
		timer.Update(210)
		assert.Equal(t, 1, fired)
	})

	t.Run("reset restarts the interval", func(t *testing.T) {
		fired := 0
		timer := engine.NewTimer(10, func(int64) { fired++ })
		timer.Update(0)
		timer.Reset()
		timer.Update(15)
		timer.Update(20)
		assert.Equal(t, 0, fired)
		timer.Update(25)
		assert.Equal(t, 1, fired)
	})

	if got := engine.NewTimer(time.Second, nil).Interval(); got != time.Second {
		t.Errorf("expected interval of 1s, got %v", got)
	}
}

func TestSpawner(t *testing.T) {
	spawner := engine.NewSpawner(10, func(s *engine.Spawner) {
		s.Spawn(newRock(0, 0, 1, 1))
	})

	spawner.Update(0)
	assert.Equal(t, 0, spawner.Supplier().Len())

	spawner.Update(10)
	spawner.Update(20)
	assert.Equal(t, 2, spawner.Supplier().Len())

	spawner.Pause()
	spawner.Update(100)
	assert.Equal(t, 2, spawner.Supplier().Len())

	drained := spawner.Supplier().Drain()
	assert.Len(t, drained, 2)
	assert.Equal(t, 0, spawner.Supplier().Len())
}

func TestEntitySupplier(t *testing.T) {
	t.Run("deduplicates by identity", func(t *testing.T) {
		supplier := engine.NewEntitySupplier()
		a, b := newRock(0, 0, 1, 1), newRock(0, 0, 1, 1)

		assert.True(t, supplier.Add(a))
		assert.False(t, supplier.Add(a))
		assert.True(t, supplier.Add(b), "equal values are distinct entities")
		assert.Equal(t, 2, supplier.Len())
		assert.True(t, supplier.Contains(a))
	})

	t.Run("drain empties the supplier", func(t *testing.T) {
		supplier := engine.NewEntitySupplier()
		a := newRock(0, 0, 1, 1)
		supplier.Add(a)

		drained := supplier.Drain()

		assert.Equal(t, []engine.Entity{a}, drained)
		assert.Equal(t, 0, supplier.Len())
		assert.False(t, supplier.Contains(a))
		assert.True(t, supplier.Add(a), "drained entities can be supplied again")
	})

	t.Run("drain of an empty supplier is empty not nil", func(t *testing.T) {
		drained := engine.NewEntitySupplier().Drain()
		assert.NotNil(t, drained)
		assert.Empty(t, drained)
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var supplier engine.EntitySupplier
		assert.True(t, supplier.Add(newRock(0, 0, 1, 1)))
		assert.Len(t, supplier.Drain(), 1)
	})

	t.Run("rejects non-pointer entities", func(t *testing.T) {
		supplier := engine.NewEntitySupplier()
		assert.PanicsWithError(t, engine.ErrNotPointer.Error(), func() {
			supplier.Add(valueEntity{})
		})
	})

	t.Run("clear", func(t *testing.T) {
		supplier := engine.NewEntitySupplier()
		supplier.Add(newRock(0, 0, 1, 1))
		supplier.Clear()
		assert.Equal(t, 0, supplier.Len())
	})
}

func TestSpriteAnimation(t *testing.T) {
	t.Run("viewports slice the sheet horizontally", func(t *testing.T) {
		sprite := engine.NewSpriteAnimation(300, 50, 3)

		assert.Equal(t, 3, sprite.Frames())
		assert.Equal(t, engine.NewBounds(0, 0, 100, 50), sprite.Viewport())

		sprite.SetIndex(4)
		assert.Equal(t, 1, sprite.Index())
		assert.Equal(t, engine.NewBounds(100, 0, 100, 50), sprite.Viewport())
	})

	t.Run("next wraps around", func(t *testing.T) {
		sprite := engine.NewSpriteAnimation(200, 50, 2)
		sprite.Next()
		sprite.Next()
		assert.Equal(t, 0, sprite.Index())
	})

	t.Run("auto cycle interval is in milliseconds", func(t *testing.T) {
		sprite := engine.NewSpriteAnimation(200, 50, 2)
		sprite.SetAutoCycle(100)

		sprite.Update(100_000_000)
		assert.Equal(t, 0, sprite.Index(), "the timestamp must exceed the interval")

		sprite.Update(100_000_001)
		assert.Equal(t, 1, sprite.Index())

		sprite.Update(200_000_001)
		assert.Equal(t, 1, sprite.Index())

		sprite.Update(200_000_002)
		assert.Equal(t, 0, sprite.Index())
	})

	t.Run("zero interval never cycles", func(t *testing.T) {
		sprite := engine.NewSpriteAnimation(200, 50, 2)
		sprite.Update(1 << 40)
		assert.Equal(t, 0, sprite.Index())
	})
}

func TestServices(t *testing.T) {
	type score struct{ points int }

	services := engine.NewServices()
	engine.Provide(services, &score{points: 3})

	got, ok := engine.Resolve[*score](services)
	if assert.True(t, ok) {
		assert.Equal(t, 3, got.points)
	}
	assert.Same(t, got, engine.MustResolve[*score](services))

	_, ok = engine.Resolve[string](services)
	assert.False(t, ok)

	_, ok = engine.Resolve[*score](nil)
	assert.False(t, ok, "a nil registry resolves nothing")
	assert.PanicsWithValue(t, "engine: Provide on a nil *Services", func() {
		engine.Provide[*score](nil, &score{})
	})

	defer func() {
		r := recover()
		_, ok := r.(*engine.ServiceNotFoundError)
		assert.True(t, ok, "expected *ServiceNotFoundError, got %T", r)
	}()
	engine.MustResolve[string](services)
}

func TestGlide(t *testing.T) {
	var last engine.Point
	glide := engine.NewGlide(engine.Point{}, engine.Point{X: 10, Y: 20}, time.Second, nil, func(p engine.Point) {
		last = p
	})

	glide.Update(0)
	assert.False(t, glide.Done())

	glide.Update(int64(500 * time.Millisecond))
	assert.InDelta(t, 5, last.X, 1e-3)
	assert.InDelta(t, 10, last.Y, 1e-3)

	glide.Update(int64(1500 * time.Millisecond))
	assert.True(t, glide.Done())
	assert.InDelta(t, 10, last.X, 1e-3)
	assert.InDelta(t, 20, last.Y, 1e-3)
}
