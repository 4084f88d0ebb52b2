package engine

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Glide eases a location towards a target over a fixed duration. It is driven
// by frame timestamps and hands every intermediate point to apply.
type Glide struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	apply  func(Point)

	last    int64
	started bool
	done    bool
}

var _ Updatable = (*Glide)(nil)

// NewGlide creates a glide from one point to another. A nil fn uses linear easing.
func NewGlide(from, to Point, duration time.Duration, fn ease.TweenFunc, apply func(Point)) *Glide {
	if fn == nil {
		fn = ease.Linear
	}
	seconds := float32(duration.Seconds())
	return &Glide{
		tweenX: gween.New(float32(from.X), float32(to.X), seconds, fn),
		tweenY: gween.New(float32(from.Y), float32(to.Y), seconds, fn),
		apply:  apply,
	}
}

// Update advances the glide by the time elapsed since the previous call. The
// first call only records the starting timestamp.
func (g *Glide) Update(timestamp int64) {
	if g.done {
		return
	}
	if !g.started {
		g.started = true
		g.last = timestamp
		return
	}

	dt := float32(time.Duration(timestamp - g.last).Seconds())
	g.last = timestamp

	x, doneX := g.tweenX.Update(dt)
	y, doneY := g.tweenY.Update(dt)
	g.done = doneX && doneY
	g.apply(Point{X: float64(x), Y: float64(y)})
}

// Done reports whether the target has been reached.
func (g *Glide) Done() bool {
	return g.done
}
