package main

import (
	"image"
	"image/color"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/sprout/engine"
	"github.com/plus3/sprout/media"
	"go.uber.org/zap"
)

const (
	playerImage       = "images/player.png"
	swordfishImage    = "images/swordfish.png"
	airBubbleImage    = "images/air_bubble.png"
	poisonBubbleImage = "images/poison_bubble.png"
	popSound          = "audio/pop.wav"

	playerSpeed    = 3
	swordfishSpeed = 2
	startingHealth = 10
)

// scoreboard receives game events from the entities.
type scoreboard interface {
	BubblePopped()
	SetHealth(health int)
	PlayerDied()
}

// loadImage resolves the image repository and fetches url. Missing art is not
// fatal: the caller draws a plain rectangle instead.
func loadImage(services *engine.Services, url string) *ebiten.Image {
	images, ok := engine.Resolve[*media.ImageRepository](services)
	if !ok {
		return nil
	}
	img, err := images.Get(url)
	if err != nil {
		loggerFrom(services).Warn("image unavailable", zap.String("url", url), zap.Error(err))
		return nil
	}
	return img
}

func loggerFrom(services *engine.Services) *zap.Logger {
	if logger, ok := engine.Resolve[*zap.Logger](services); ok {
		return logger
	}
	return zap.NewNop()
}

// drawBody draws img, or the viewport of img when one is given, stretched over
// b. Without an image it fills b with fallback.
func drawBody(screen, img *ebiten.Image, b engine.Bounds, viewport *engine.Bounds, fallback color.Color) {
	if img == nil {
		vector.DrawFilledRect(screen, float32(b.MinX), float32(b.MinY), float32(b.Width), float32(b.Height), fallback, false)
		return
	}
	src := img
	if viewport != nil {
		rect := image.Rect(int(viewport.MinX), int(viewport.MinY), int(viewport.MaxX()), int(viewport.MaxY()))
		src = img.SubImage(rect).(*ebiten.Image)
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(b.Width/float64(w), b.Height/float64(h))
	op.GeoM.Translate(b.MinX, b.MinY)
	screen.DrawImage(src, op)
}

// Text is a line of debug-font text.
type Text struct {
	engine.StaticBody
	Content string
	Visible bool
}

func NewText(at engine.Point, content string) *Text {
	return &Text{
		StaticBody: engine.NewStaticBody(at, float64(len(content)*6), 16),
		Content:    content,
		Visible:    true,
	}
}

func (t *Text) SetContent(content string) {
	t.Content = content
	_, h := t.Size()
	t.SetSize(float64(len(content)*6), h)
}

func (t *Text) Draw(screen *ebiten.Image) {
	if !t.Visible {
		return
	}
	b := t.TransformedBounds()
	ebitenutil.DebugPrintAt(screen, t.Content, int(b.MinX), int(b.MinY))
}

// Prompt is a Text that runs an action when its key goes down.
type Prompt struct {
	Text
	key     ebiten.Key
	enabled func() bool
	action  func()
}

func NewPrompt(at engine.Point, content string, key ebiten.Key, action func()) *Prompt {
	return &Prompt{Text: *NewText(at, content), key: key, action: action}
}

func (p *Prompt) OnPressedKeysChange(keys []ebiten.Key) {
	if p.enabled != nil && !p.enabled() {
		return
	}
	if slices.Contains(keys, p.key) {
		p.action()
	}
}

// Player is steered with the arrow keys, loses health to swordfish and poison
// bubbles, and stops at the scene edges.
type Player struct {
	engine.DynamicBody
	engine.ColliderTrait

	board  scoreboard
	scene  engine.SceneProvider
	sprite *engine.SpriteAnimation
	image  *ebiten.Image
	health int
	random func(n float64) float64
}

func NewPlayer(at engine.Point, scene engine.SceneProvider, board scoreboard) *Player {
	return &Player{
		DynamicBody: engine.NewDynamicBody(at, 64, 48),
		board:       board,
		scene:       scene,
		sprite:      engine.NewSpriteAnimation(128, 48, 2),
		health:      startingHealth,
		random:      func(n float64) float64 { return rand.Float64() * n },
	}
}

func (p *Player) Init(services *engine.Services) error {
	p.image = loadImage(services, playerImage)
	return nil
}

func (p *Player) Activators() []engine.Hook {
	return []engine.Hook{{
		Name: "show-health",
		Run: func() error {
			p.board.SetHealth(p.health)
			return nil
		},
	}}
}

func (p *Player) Health() int { return p.health }

func (p *Player) OnPressedKeysChange(keys []ebiten.Key) {
	motion := p.Motion()
	switch {
	case slices.Contains(keys, ebiten.KeyArrowLeft):
		motion.SetMotion(playerSpeed, 180)
		p.sprite.SetIndex(0)
	case slices.Contains(keys, ebiten.KeyArrowRight):
		motion.SetMotion(playerSpeed, 0)
		p.sprite.SetIndex(1)
	case slices.Contains(keys, ebiten.KeyArrowUp):
		motion.SetMotion(playerSpeed, 270)
	case slices.Contains(keys, ebiten.KeyArrowDown):
		motion.SetMotion(playerSpeed, 90)
	default:
		motion.Stop()
	}
}

func (p *Player) OnBorderTouch(engine.SceneBorder) {
	p.Motion().Stop()
}

// OnCollision handles swordfish bites: the player is hurt and thrown to a
// random spot so the same fish does not bite again next frame.
func (p *Player) OnCollision(collider engine.Collider) {
	if _, ok := collider.(*Swordfish); !ok {
		return
	}
	p.Hurt(1)
	w, h := p.Size()
	p.SetLocation(engine.Point{
		X: 1 + p.random(p.scene.Width()-w-2),
		Y: 1 + p.random(p.scene.Height()-h-2),
	})
}

// Hurt lowers the health and removes the player once it reaches zero.
func (p *Player) Hurt(damage int) {
	if p.health <= 0 {
		return
	}
	p.health = max(p.health-damage, 0)
	p.board.SetHealth(p.health)
	if p.health == 0 {
		p.Motion().Stop()
		p.board.PlayerDied()
		p.Remove()
	}
}

func (p *Player) Draw(screen *ebiten.Image) {
	viewport := p.sprite.Viewport()
	drawBody(screen, p.image, p.TransformedBounds(), &viewport, color.RGBA{R: 240, G: 200, B: 40, A: 255})
}

// Swordfish swims left, speeding up every few seconds, and reappears on the
// right once it has left the scene.
type Swordfish struct {
	engine.DynamicBody
	engine.ColliderTrait

	scene   engine.SceneProvider
	image   *ebiten.Image
	speedUp *engine.Timer
}

func NewSwordfish(at engine.Point, scene engine.SceneProvider) *Swordfish {
	s := &Swordfish{
		DynamicBody: engine.NewDynamicBody(at, 120, 40),
		scene:       scene,
	}
	s.Motion().SetMotion(swordfishSpeed, 180)
	s.speedUp = engine.NewTimer(5*time.Second, func(int64) {
		s.Motion().MultiplySpeed(1.1)
	})
	return s
}

func (s *Swordfish) Init(services *engine.Services) error {
	s.image = loadImage(services, swordfishImage)
	return nil
}

func (s *Swordfish) Timers() []*engine.Timer {
	return []*engine.Timer{s.speedUp}
}

func (s *Swordfish) UpdateProviders() []engine.UpdateProvider {
	return []engine.UpdateProvider{{
		Name:    "wrap",
		Provide: func() engine.Updatable { return engine.UpdateFunc(s.wrap) },
	}}
}

func (s *Swordfish) wrap(int64) {
	b := s.TransformedBounds()
	if b.MaxX() < 0 {
		s.SetLocation(engine.Point{X: s.scene.Width(), Y: s.Location().Y})
	}
}

func (s *Swordfish) Draw(screen *ebiten.Image) {
	drawBody(screen, s.image, s.TransformedBounds(), nil, color.RGBA{R: 90, G: 90, B: 200, A: 255})
}

// Bubble rises until it pops against the player or leaves through the top.
type Bubble struct {
	engine.DynamicBody

	poison bool
	board  scoreboard
	image  *ebiten.Image
	audio  *media.AudioRepository
	logger *zap.Logger
	popped bool
}

func NewBubble(at engine.Point, speed float64, poison bool, board scoreboard) *Bubble {
	b := &Bubble{
		DynamicBody: engine.NewDynamicBody(at, 24, 24),
		poison:      poison,
		board:       board,
		logger:      zap.NewNop(),
	}
	b.Motion().SetMotion(speed, 270)
	return b
}

func (b *Bubble) Init(services *engine.Services) error {
	url := airBubbleImage
	if b.poison {
		url = poisonBubbleImage
	}
	b.image = loadImage(services, url)
	b.audio, _ = engine.Resolve[*media.AudioRepository](services)
	b.logger = loggerFrom(services)
	return nil
}

func (b *Bubble) Poison() bool { return b.poison }
func (b *Bubble) Popped() bool { return b.popped }

func (b *Bubble) OnCollision(collider engine.Collider) {
	player, ok := collider.(*Player)
	if !ok || b.popped {
		return
	}
	b.popped = true
	if b.poison {
		player.Hurt(2)
	} else {
		b.board.BubblePopped()
	}
	b.pop()
	b.Remove()
}

func (b *Bubble) pop() {
	if b.audio == nil {
		return
	}
	if err := b.audio.Get(popSound, 1).Play(); err != nil {
		b.logger.Debug("pop sound", zap.Error(err))
	}
}

func (b *Bubble) OnBorderTouch(border engine.SceneBorder) {
	if border == engine.BorderTop {
		b.Remove()
	}
}

func (b *Bubble) Draw(screen *ebiten.Image) {
	fill := color.RGBA{R: 200, G: 230, B: 255, A: 200}
	if b.poison {
		fill = color.RGBA{R: 120, G: 220, B: 80, A: 200}
	}
	drawBody(screen, b.image, b.TransformedBounds(), nil, fill)
}

// NewBubbleSpawner releases a bubble from a random spot along the sea floor
// every interval. One bubble in ten is poisonous.
func NewBubbleSpawner(interval time.Duration, scene engine.SceneProvider, board scoreboard) *engine.Spawner {
	return engine.NewSpawner(interval, func(s *engine.Spawner) {
		at := engine.Point{X: 1 + rand.Float64()*(scene.Width()-26), Y: scene.Height() - 25}
		speed := 1 + rand.Float64()*2
		s.Spawn(NewBubble(at, speed, rand.IntN(10) == 0, board))
	})
}
