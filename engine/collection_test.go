package engine_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sprout/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func newCollection() *engine.EntityCollection {
	c := engine.NewEntityCollection(scene{width: 640, height: 480}, nil)
	c.SetLogger(zap.NewNop())
	return c
}

func TestEntityCollectionLifecycleOrder(t *testing.T) {
	var log []string
	c := newCollection()
	p := newProbe("p", &log)
	c.Add(p)

	assert.Empty(t, log, "entities are not activated before the next frame")

	require.NoError(t, c.Update(1))
	assert.Equal(t, []string{
		"p:init",
		"p:activate-1",
		"p:activate-2",
		"p:update",
		"p:post-activate",
	}, log)

	log = log[:0]
	require.NoError(t, c.Update(2))
	assert.Equal(t, []string{"p:update"}, log, "hooks run only once")
}

func TestEntityCollectionPartitions(t *testing.T) {
	c := newCollection()
	supplier := engine.NewEntitySupplier()
	require.True(t, c.RegisterSupplier(supplier))
	assert.False(t, c.RegisterSupplier(supplier), "suppliers are deduplicated by identity")

	supplier.Add(newProbe("p", nil))
	supplier.Add(newWall(0, 0, 5, 5))
	supplier.Add(newRock(0, 0, 5, 5))
	c.Add(newMover())

	require.NoError(t, c.Update(1))

	stats := c.Statistics()
	assert.Equal(t, engine.Statistics{
		Suppliers:    1,
		Updatables:   2,
		KeyListeners: 1,
		Garbage:      0,
		Statics:      2,
		Colliders:    1,
		Collideds:    1,
		Entities:     4,
	}, stats)
	assert.Equal(t, 0, supplier.Len(), "suppliers are drained every frame")
}

func TestEntityCollectionActivatesOnce(t *testing.T) {
	c := newCollection()
	supplier := engine.NewEntitySupplier()
	c.RegisterSupplier(supplier)

	m := newMover()
	c.Add(m)
	supplier.Add(m)
	require.NoError(t, c.Update(1))

	c.Add(m)
	require.NoError(t, c.Update(2))

	assert.Equal(t, 1, c.Statistics().Entities)
	assert.Equal(t, 2, m.updates)
}

func TestEntityCollectionIds(t *testing.T) {
	c := newCollection()
	a, b := newMover(), newMover()
	c.Add(a)
	c.Add(b)
	require.NoError(t, c.Update(1))

	idA, ok := c.IdOf(a)
	require.True(t, ok)
	idB, ok := c.IdOf(b)
	require.True(t, ok)
	assert.Equal(t, engine.EntityId(1), idA)
	assert.Equal(t, engine.EntityId(2), idB)

	got, ok := c.Lookup(idB)
	require.True(t, ok)
	assert.Same(t, b, got)

	assert.Equal(t, []engine.Entity{a, b}, slices.Collect(c.Entities()))

	c.Remove(a)
	require.NoError(t, c.Update(2))

	_, ok = c.Lookup(idA)
	assert.False(t, ok)
	c.Add(a)
	require.NoError(t, c.Update(3))
	idA, _ = c.IdOf(a)
	assert.Equal(t, engine.EntityId(3), idA, "ids are never reused")
}

func TestEntityCollectionRemoval(t *testing.T) {
	t.Run("removed entities are skipped and excised at the frame boundary", func(t *testing.T) {
		c := newCollection()
		a, b := newMover(), newMover()
		a.onUpdate = func() { c.Remove(b) }
		c.Add(a)
		c.Add(b)

		require.NoError(t, c.Update(1))

		assert.Equal(t, 1, a.updates)
		assert.Equal(t, 0, b.updates, "b was marked before its turn")
		assert.False(t, c.Contains(b))
		assert.Equal(t, 0, c.Statistics().Garbage)
		assert.Equal(t, 1, c.Statistics().Entities)
	})

	t.Run("remove between frames", func(t *testing.T) {
		c := newCollection()
		m := newMover()
		c.Add(m)
		require.NoError(t, c.Update(1))

		assert.True(t, c.Remove(m))
		assert.False(t, c.Remove(m), "second removal is a no-op")
		assert.Equal(t, 1, c.Statistics().Garbage)
		assert.True(t, c.Contains(m), "removal waits for garbage collection")

		require.NoError(t, c.Update(2))
		assert.Equal(t, 1, m.updates)
		assert.False(t, c.Contains(m))
		assert.Equal(t, engine.Statistics{}, c.Statistics())
	})

	t.Run("bound remover", func(t *testing.T) {
		c := newCollection()
		w := newWall(0, 0, 1, 1)
		c.Add(w)
		require.NoError(t, c.Update(1))

		w.Remove()
		require.NoError(t, c.Update(2))

		assert.Equal(t, 0, c.Statistics().Colliders)
		assert.Equal(t, 0, c.Statistics().Statics)
	})

	t.Run("unknown entities", func(t *testing.T) {
		c := newCollection()
		assert.False(t, c.Remove(newMover()))
		assert.False(t, c.Remove(valueEntity{}))
	})

	t.Run("deferred callbacks run after collection", func(t *testing.T) {
		c := newCollection()
		m := newMover()
		c.Add(m)
		require.NoError(t, c.Update(1))

		var stillThere bool
		c.Remove(m)
		c.Defer(func() { stillThere = c.Contains(m) })
		require.NoError(t, c.Update(2))

		assert.False(t, stillThere)
	})
}

func TestEntityCollectionCollisions(t *testing.T) {
	c := newCollection()
	p := newProbe("p", nil)
	first := newWall(12, 12, 4, 4)
	second := newWall(14, 14, 4, 4)
	far := newWall(200, 200, 4, 4)
	c.Add(first)
	c.Add(p)
	c.Add(far)
	c.Add(second)

	require.NoError(t, c.Update(1))

	if assert.Len(t, p.hits, 1) {
		assert.Same(t, first, p.hits[0], "colliders are checked in registration order")
	}

	c.Remove(first)
	require.NoError(t, c.Update(2))
	require.NoError(t, c.Update(3))
	if assert.Len(t, p.hits, 3) {
		assert.Same(t, second, p.hits[1], "colliders marked for removal are no longer tested")
		assert.Same(t, second, p.hits[2])
	}
}

func TestEntityCollectionIsolation(t *testing.T) {
	t.Run("a panicking entity does not stop the frame", func(t *testing.T) {
		c := newCollection()
		before, after := newMover(), newMover()
		bad := &panicker{}
		c.Add(before)
		c.Add(bad)
		c.Add(after)

		err := c.Update(1)

		require.Error(t, err)
		assert.Equal(t, 1, before.updates)
		assert.Equal(t, 1, after.updates)

		var entityErr *engine.EntityError
		require.ErrorAs(t, err, &entityErr)
		assert.Equal(t, engine.PhaseUpdating, entityErr.Phase)
		assert.Same(t, bad, entityErr.Entity)

		var panicErr *engine.PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Equal(t, "boom", panicErr.Value)
		assert.True(t, c.Contains(bad), "failing updates do not remove the entity")
	})

	t.Run("activation failures fail closed and are aggregated", func(t *testing.T) {
		c := newCollection()
		good := newMover()
		initFails := newProbe("x", nil)
		initFails.failWith = errors.New("no assets")
		c.Add(&brokenHook{})
		c.Add(initFails)
		c.Add(good)

		err := c.Update(1)

		require.Error(t, err)
		errs := multierr.Errors(err)
		assert.Len(t, errs, 2)
		for _, e := range errs {
			var entityErr *engine.EntityError
			if assert.ErrorAs(t, e, &entityErr) {
				assert.Equal(t, engine.PhaseActivating, entityErr.Phase)
				assert.Zero(t, entityErr.Id)
			}
			var cfgErr *engine.ConfigurationError
			assert.ErrorAs(t, e, &cfgErr)
		}
		assert.Equal(t, 1, c.Statistics().Entities)
		assert.True(t, c.Contains(good))
		assert.False(t, c.Contains(initFails))
		assert.Zero(t, initFails.updates)
	})

	t.Run("a panicking collision handler does not stop the batch", func(t *testing.T) {
		c := newCollection()
		good := newProbe("good", nil)
		bad := &clumsy{StaticBody: engine.NewStaticBody(engine.Point{X: 10, Y: 10}, 10, 10)}
		c.Add(newWall(5, 5, 10, 10))
		c.Add(bad)
		c.Add(good)

		err := c.Update(1)

		require.Error(t, err)
		assert.Len(t, good.hits, 1)
		errs := multierr.Errors(err)
		require.Len(t, errs, 1)
		var entityErr *engine.EntityError
		require.ErrorAs(t, errs[0], &entityErr)
		assert.Equal(t, engine.PhaseCollisionChecking, entityErr.Phase)
		assert.Same(t, bad, entityErr.Entity)
	})

	t.Run("non-pointer entities from a supplier are rejected", func(t *testing.T) {
		c := newCollection()
		supplier := engine.NewEntitySupplier()
		c.RegisterSupplier(supplier)

		assert.Panics(t, func() { supplier.Add(valueEntity{}) })
		assert.Panics(t, func() { c.Add(valueEntity{}) })
	})

	t.Run("frame stats count errors", func(t *testing.T) {
		c := newCollection()
		c.Add(&panicker{})
		_ = c.Update(1)
		_ = c.Update(2)

		stats := c.FrameStats()
		assert.Equal(t, int64(2), stats.FrameCount)
		assert.Equal(t, int64(2), stats.ErrorCount)
	})
}

func TestEntityCollectionRemovalDuringActivation(t *testing.T) {
	t.Run("an activator may remove its own entity", func(t *testing.T) {
		c := newCollection()
		e := &selfRemover{StaticBody: engine.NewStaticBody(engine.Point{}, 1, 1)}
		c.Add(e)

		require.NoError(t, c.Update(1))
		assert.True(t, e.removed)
		assert.False(t, c.Contains(e))

		require.NoError(t, c.Update(2))
		assert.False(t, c.Contains(e))
		assert.Zero(t, c.Statistics().Entities)
	})

	t.Run("a failed activation leaves nothing behind", func(t *testing.T) {
		c := newCollection()
		e := &selfRemover{StaticBody: engine.NewStaticBody(engine.Point{}, 1, 1), failWith: errHook}
		c.Add(e)

		err := c.Update(1)
		require.ErrorIs(t, err, errHook)
		assert.False(t, c.Contains(e))
		assert.Equal(t, engine.Statistics{}, c.Statistics())

		m := newMover()
		c.Add(m)
		require.NoError(t, c.Update(2))
		id, ok := c.IdOf(m)
		require.True(t, ok)
		assert.Equal(t, engine.EntityId(1), id, "ids of failed activations are not consumed")
	})
}

// selfRemover removes itself from its first activator.
type selfRemover struct {
	engine.StaticBody
	removed  bool
	failWith error
}

func (s *selfRemover) Activators() []engine.Hook {
	return []engine.Hook{
		{Name: "leave", Run: func() error { s.Remove(); s.removed = true; return nil }},
		{Name: "fail", Run: func() error { return s.failWith }},
	}
}

// clumsy panics whenever it is hit.
type clumsy struct {
	engine.StaticBody
}

func (c *clumsy) OnCollision(engine.Collider) {
	panic("ouch")
}

func TestEntityCollectionStaticPostActivation(t *testing.T) {
	c := newCollection()
	fired := 0
	s := &staticHooked{fired: &fired}
	c.Add(s)

	require.NoError(t, c.Update(1))
	require.NoError(t, c.Update(2))

	assert.Equal(t, 1, fired)
}

type staticHooked struct {
	engine.StaticBody
	fired *int
}

func (s *staticHooked) PostActivators() []engine.Hook {
	return []engine.Hook{{Name: "count", Run: func() error { *s.fired++; return nil }}}
}

func TestEntityCollectionSpawners(t *testing.T) {
	c := newCollection()
	var spawned []*mover
	spawner := engine.NewSpawner(10*time.Nanosecond, func(s *engine.Spawner) {
		m := newMover()
		spawned = append(spawned, m)
		s.Spawn(m)
	})
	require.True(t, c.AddSpawner(spawner))
	assert.False(t, c.AddSpawner(spawner))
	assert.Equal(t, 1, c.Statistics().Suppliers)

	require.NoError(t, c.Update(0))
	require.NoError(t, c.Update(10))
	assert.Len(t, spawned, 1)
	assert.Equal(t, 0, c.Statistics().Entities, "spawned entities arrive next frame")

	require.NoError(t, c.Update(11))
	assert.Equal(t, 1, c.Statistics().Entities)
	assert.Equal(t, 1, spawned[0].updates)

	require.True(t, c.RemoveSpawner(spawner))
	assert.Equal(t, 0, c.Statistics().Suppliers)
	require.NoError(t, c.Update(100))
	assert.Len(t, spawned, 1)
}

func TestEntityCollectionSceneUpdatables(t *testing.T) {
	c := newCollection()
	var order []string
	m := newMover()
	m.onUpdate = func() { order = append(order, "entity") }
	c.Add(m)
	c.AddUpdatable(engine.UpdateFunc(func(int64) { order = append(order, "scene") }), false)
	c.AddUpdatable(engine.UpdateFunc(func(int64) { order = append(order, "scene-first") }), true)

	require.NoError(t, c.Update(1))

	assert.Equal(t, []string{"scene-first", "scene", "entity"}, order)
}

func TestEntityCollectionKeyListeners(t *testing.T) {
	c := newCollection()
	p := newProbe("p", nil)
	c.Add(p)
	require.NoError(t, c.Update(1))

	keys := []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeySpace}
	require.NoError(t, c.NotifyPressedKeys(keys))

	if assert.Len(t, p.keys, 1) {
		assert.Equal(t, keys, p.keys[0])
	}
}

func TestEntityCollectionPhaseAndStats(t *testing.T) {
	c := newCollection()
	var seen engine.Phase
	m := newMover()
	m.onUpdate = func() { seen = c.Phase() }
	c.Add(m)

	require.NoError(t, c.Update(1))

	assert.Equal(t, engine.PhaseUpdating, seen)
	assert.Equal(t, engine.PhaseIdle, c.Phase())

	stats := c.FrameStats()
	require.Len(t, stats.Phases, 5)
	assert.Equal(t, engine.PhaseDraining, stats.Phases[0].Phase)
	assert.Equal(t, engine.PhaseGarbageCollecting, stats.Phases[4].Phase)
	for _, ps := range stats.Phases {
		assert.Equal(t, int64(1), ps.ExecutionCount)
		assert.LessOrEqual(t, ps.MinDuration, ps.MaxDuration)
	}

	c.ResetFrameStats()
	assert.Zero(t, c.FrameStats().FrameCount)
}

func TestEntityCollectionDestroy(t *testing.T) {
	c := newCollection()
	c.RegisterSupplier(engine.NewEntitySupplier())
	c.Add(newMover())
	require.NoError(t, c.Update(1))
	c.Add(newMover())

	c.Destroy()

	assert.Equal(t, engine.Statistics{}, c.Statistics())
	require.NoError(t, c.Update(2))
	assert.Equal(t, 0, c.Statistics().Entities)
}
