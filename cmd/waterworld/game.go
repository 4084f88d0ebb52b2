package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sprout/engine"
	"github.com/plus3/sprout/stage"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

const (
	titleScene = iota
	levelScene
)

const (
	backgroundImage = "images/background.png"
	backgroundAudio = "audio/waterworld.wav"
)

var seaBlue = color.RGBA{R: 10, G: 60, B: 120, A: 255}

// Dashboard shows the score and health texts of the level.
type Dashboard struct {
	scene    *stage.BaseScene
	popped   int
	dead     bool
	bubbles  *Text
	health   *Text
	gameOver *Text
	restart  *Prompt
}

func newDashboard(scene *stage.BaseScene) *Dashboard {
	d := &Dashboard{
		scene:    scene,
		bubbles:  NewText(engine.Point{X: 10, Y: 10}, ""),
		health:   NewText(engine.Point{X: 10, Y: 30}, ""),
		gameOver: NewText(engine.Point{X: scene.Width()/2 - 27, Y: scene.Height() / 2}, "Game over"),
	}
	d.gameOver.Visible = false
	d.restart = NewPrompt(engine.Point{X: scene.Width()/2 - 90, Y: scene.Height()/2 + 60},
		"Press SPACE to return to the surface", ebiten.KeySpace, func() {
			if err := scene.Stage().SetActiveScene(titleScene); err != nil {
				scene.Logger().Error("switch scene", zap.Error(err))
			}
		})
	d.restart.Visible = false
	d.restart.enabled = func() bool { return d.dead }
	d.updateBubbles()
	return d
}

func (d *Dashboard) entities() []engine.Entity {
	return []engine.Entity{d.bubbles, d.health, d.gameOver, d.restart}
}

func (d *Dashboard) Popped() int { return d.popped }
func (d *Dashboard) Dead() bool  { return d.dead }

func (d *Dashboard) BubblePopped() {
	d.popped++
	d.updateBubbles()
}

func (d *Dashboard) SetHealth(health int) {
	d.health.SetContent(fmt.Sprintf("Health: %d", health))
}

// PlayerDied swaps the health line for the game over banner and glides the
// score under it.
func (d *Dashboard) PlayerDied() {
	d.dead = true
	d.health.Visible = false
	d.gameOver.Visible = true
	d.restart.Visible = true

	to := engine.Point{X: d.scene.Width()/2 - 50, Y: d.scene.Height()/2 + 30}
	d.scene.AddUpdatable(engine.NewGlide(d.bubbles.Location(), to, time.Second, ease.OutCubic, d.bubbles.SetLocation))
}

func (d *Dashboard) updateBubbles() {
	d.bubbles.SetContent(fmt.Sprintf("Bubbles popped: %d", d.popped))
}

// titleSetup is the static start screen.
type titleSetup struct{}

func (titleSetup) SetupScene(scene *stage.BaseScene) error {
	scene.SetBackgroundColor(seaBlue)
	scene.SetCursor(ebiten.CursorShapeDefault)
	return nil
}

func (titleSetup) SetupEntities(scene *stage.BaseScene) error {
	scene.AddEntity(NewText(engine.Point{X: scene.Width()/2 - 36, Y: scene.Height()/3}, "Waterworld 2"))
	scene.AddEntity(NewPrompt(engine.Point{X: scene.Width()/2 - 66, Y: scene.Height() / 2},
		"Press SPACE to dive in", ebiten.KeySpace, func() {
			if err := scene.Stage().SetActiveScene(levelScene); err != nil {
				scene.Logger().Error("switch scene", zap.Error(err))
			}
		}))
	return nil
}

// levelSetup builds the playable level.
type levelSetup struct {
	spawnInterval time.Duration
	dashboard     *Dashboard
}

func (l *levelSetup) SetupScene(scene *stage.BaseScene) error {
	scene.SetBackgroundColor(seaBlue)
	scene.SetCursor(ebiten.CursorShapeCrosshair)
	if err := scene.SetBackgroundImage(backgroundImage); err != nil {
		scene.Logger().Warn("background image unavailable", zap.Error(err))
	}
	if err := scene.SetBackgroundAudio(backgroundAudio); err != nil {
		scene.Logger().Warn("background audio unavailable", zap.Error(err))
	}
	return nil
}

func (l *levelSetup) SetupEntities(scene *stage.BaseScene) error {
	l.dashboard = newDashboard(scene)
	scene.AddEntity(NewSwordfish(engine.Point{X: 200, Y: 200}, scene))
	scene.AddEntity(NewPlayer(engine.Point{X: 100, Y: 100}, scene, l.dashboard))
	for _, e := range l.dashboard.entities() {
		scene.AddEntity(e)
	}
	return nil
}

// PostActivate starts the bubbles once everything else is in place.
func (l *levelSetup) PostActivate(scene *stage.BaseScene) error {
	scene.AddSpawner(NewBubbleSpawner(l.spawnInterval, scene, l.dashboard))
	return nil
}
