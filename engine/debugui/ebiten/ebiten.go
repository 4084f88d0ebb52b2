// Package ebiten shows the debug windows over an ebiten game through the
// Dear ImGui ebiten backend.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sprout/engine"
	"github.com/plus3/sprout/engine/debugui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Overlay renders a Debugger for the active entity collection. It satisfies
// stage.Overlay.
type Overlay struct {
	backend  ImguiBackend
	debugger *debugui.Debugger
}

// NewOverlay creates the ImGui context and its ebiten window. Call it before
// the game loop starts.
func NewOverlay(title string, width, height int) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	return &Overlay{
		backend:  ImguiBackend{EbitenBackend: backend},
		debugger: debugui.NewDebugger(),
	}
}

func (o *Overlay) Debugger() *debugui.Debugger {
	return o.debugger
}

func (o *Overlay) Update(collection *engine.EntityCollection) {
	o.backend.BeginFrame()
	o.debugger.Render(collection)
	o.backend.EndFrame()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.backend.Draw(screen)
}

func (o *Overlay) Layout(width, height int) {
	o.backend.Layout(width, height)
}
