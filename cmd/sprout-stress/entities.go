package main

import (
	"math/rand/v2"
	"time"

	"github.com/plus3/sprout/engine"
)

type arena struct {
	width, height float64
}

func (a arena) Width() float64  { return a.width }
func (a arena) Height() float64 { return a.height }

// ball bounces around the arena and off every wall it hits.
type ball struct {
	engine.DynamicBody
	hits int
}

func newBall(a arena) *ball {
	b := &ball{DynamicBody: engine.NewDynamicBody(randomPoint(a, 8), 8, 8)}
	b.Motion().SetMotion(1+rand.Float64()*3, rand.Float64()*360)
	return b
}

func (b *ball) OnBorderTouch(border engine.SceneBorder) {
	switch border {
	case engine.BorderLeft, engine.BorderRight:
		b.Motion().SetDirection(180 - b.Motion().Direction())
	default:
		b.Motion().SetDirection(-b.Motion().Direction())
	}
}

func (b *ball) OnCollision(engine.Collider) {
	b.hits++
	b.Motion().ChangeDirection(180)
}

// wall is a static collider.
type wall struct {
	engine.StaticBody
	engine.ColliderTrait
}

func newWall(a arena) *wall {
	return &wall{StaticBody: engine.NewStaticBody(randomPoint(a, 40), 40, 10)}
}

// mayfly lives for a fixed number of frames and then removes itself, keeping
// the activation and garbage collection phases busy.
type mayfly struct {
	engine.StaticBody
	lifetime int
	age      int
	born     bool
}

func newMayfly(a arena, lifetime int) *mayfly {
	return &mayfly{StaticBody: engine.NewStaticBody(randomPoint(a, 4), 4, 4), lifetime: lifetime}
}

func (m *mayfly) Activators() []engine.Hook {
	return []engine.Hook{{Name: "born", Run: func() error {
		m.born = true
		return nil
	}}}
}

func (m *mayfly) Update(int64) {
	m.age++
	if m.age >= m.lifetime {
		m.Remove()
	}
}

// newHatchery spawns count mayflies on every tick of interval.
func newHatchery(a arena, interval time.Duration, count, lifetime int) *engine.Spawner {
	return engine.NewSpawner(interval, func(s *engine.Spawner) {
		for range count {
			s.Spawn(newMayfly(a, lifetime))
		}
	})
}

func randomPoint(a arena, size float64) engine.Point {
	return engine.Point{
		X: 1 + rand.Float64()*(a.width-size-2),
		Y: 1 + rand.Float64()*(a.height-size-2),
	}
}
