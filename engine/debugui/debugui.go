// Package debugui renders Dear ImGui windows that inspect a running
// EntityCollection: frame timings, the live entity list and the fields of a
// selected entity.
package debugui

import (
	"time"

	"github.com/plus3/sprout/engine"
)

// Debugger groups the debug windows and remembers their state between frames.
type Debugger struct {
	Performance *PerformanceStats
	Browser     *EntityBrowser
	Inspector   *EntityInspector

	timer *FrameTimer
}

// NewDebugger creates every window with the default sizes.
func NewDebugger() *Debugger {
	return &Debugger{
		Performance: NewPerformanceStats(120),
		Browser:     NewEntityBrowser(100),
		Inspector:   NewEntityInspector(),
		timer:       NewFrameTimer(),
	}
}

// Render draws every window for collection. It must run between the backend's
// BeginFrame and EndFrame. A nil collection renders nothing.
func (d *Debugger) Render(collection *engine.EntityCollection) {
	delta := d.timer.GetDeltaTime()
	if collection == nil {
		return
	}
	d.Performance.Render(collection, delta)
	d.Browser.Render(collection)
	d.Inspector.Render(collection, d.Browser.Selected())
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
