package engine_test

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sprout/engine"
)

// Common test entity types

type scene struct {
	width, height float64
}

func (s scene) Width() float64  { return s.width }
func (s scene) Height() float64 { return s.height }

type rock struct {
	engine.StaticBody
}

func newRock(x, y, w, h float64) *rock {
	return &rock{StaticBody: engine.NewStaticBody(engine.Point{X: x, Y: y}, w, h)}
}

type wall struct {
	engine.ColliderTrait
	engine.StaticBody
}

func newWall(x, y, w, h float64) *wall {
	return &wall{StaticBody: engine.NewStaticBody(engine.Point{X: x, Y: y}, w, h)}
}

// probe records every lifecycle callback it receives, in order.
type probe struct {
	engine.DynamicBody
	log      *[]string
	name     string
	hits     []engine.Collider
	keys     [][]ebiten.Key
	updates  int
	failWith error
}

func newProbe(name string, log *[]string) *probe {
	return &probe{
		DynamicBody: engine.NewDynamicBody(engine.Point{X: 10, Y: 10}, 10, 10),
		name:        name,
		log:         log,
	}
}

func (p *probe) record(event string) {
	if p.log != nil {
		*p.log = append(*p.log, p.name+":"+event)
	}
}

func (p *probe) Init(*engine.Services) error {
	p.record("init")
	return p.failWith
}

func (p *probe) Activators() []engine.Hook {
	return []engine.Hook{
		{Name: "first", Run: func() error { p.record("activate-1"); return nil }},
		{Name: "second", Run: func() error { p.record("activate-2"); return nil }},
	}
}

func (p *probe) PostActivators() []engine.Hook {
	return []engine.Hook{
		{Name: "post", Run: func() error { p.record("post-activate"); return nil }},
	}
}

func (p *probe) Update(timestamp int64) {
	p.updates++
	p.record("update")
	p.DynamicBody.Update(timestamp)
}

func (p *probe) OnCollision(c engine.Collider) {
	p.hits = append(p.hits, c)
}

func (p *probe) OnPressedKeysChange(keys []ebiten.Key) {
	p.keys = append(p.keys, keys)
}

// mover is the smallest updatable entity.
type mover struct {
	engine.StaticBody
	updates  int
	onUpdate func()
}

func newMover() *mover {
	return &mover{StaticBody: engine.NewStaticBody(engine.Point{}, 1, 1)}
}

func (m *mover) Update(int64) {
	m.updates++
	if m.onUpdate != nil {
		m.onUpdate()
	}
}

// panicker panics on every update.
type panicker struct {
	engine.StaticBody
}

func (p *panicker) Update(int64) {
	panic("boom")
}

// brokenHook declares an activator that fails.
type brokenHook struct {
	engine.StaticBody
}

var errHook = errors.New("hook failed")

func (b *brokenHook) Activators() []engine.Hook {
	return []engine.Hook{{Name: "explode", Run: func() error { return errHook }}}
}

// valueEntity is passed by value to trigger the pointer check.
type valueEntity struct{}

func (valueEntity) TransformedBounds() engine.Bounds { return engine.Bounds{} }
