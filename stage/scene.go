package stage

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sprout/engine"
	"go.uber.org/zap"
)

// Scene is one screen of a game. The Stage drives exactly one active scene.
type Scene interface {
	Activate(stage *Stage) error
	Update(timestamp int64) error
	Draw(screen *ebiten.Image)
	OnPressedKeysChange(keys []ebiten.Key) error
	Collection() *engine.EntityCollection
	Destroy()
}

// SceneSetup fills a scene when it becomes active. SetupScene runs first and
// usually configures the background; SetupEntities adds the initial entities.
type SceneSetup interface {
	SetupScene(scene *BaseScene) error
	SetupEntities(scene *BaseScene) error
}

// ScenePostActivator is an optional SceneSetup extension called once both
// setup steps succeeded.
type ScenePostActivator interface {
	PostActivate(scene *BaseScene) error
}

// Drawable entities are drawn by their scene in activation order.
type Drawable interface {
	Draw(screen *ebiten.Image)
}

// BaseScene holds what dynamic and static scenes share: the entity collection,
// the background and access to the stage.
type BaseScene struct {
	setup      SceneSetup
	stage      *Stage
	collection *engine.EntityCollection
	background *Background
	logger     *zap.Logger
}

var _ engine.SceneProvider = (*BaseScene)(nil)

func newBaseScene(setup SceneSetup) *BaseScene {
	return &BaseScene{setup: setup, logger: zap.NewNop()}
}

func (b *BaseScene) activate(stage *Stage) error {
	b.stage = stage
	b.logger = stage.logger
	b.collection = engine.NewEntityCollection(b, stage.services)
	b.collection.SetLogger(stage.logger.Named("entities"))
	b.background = NewBackground(stage.images, stage.audio)
	b.background.SetLogger(stage.logger)

	if b.setup == nil {
		return nil
	}
	if err := b.setup.SetupScene(b); err != nil {
		return fmt.Errorf("setup scene: %w", err)
	}
	if err := b.setup.SetupEntities(b); err != nil {
		return fmt.Errorf("setup entities: %w", err)
	}
	if pa, ok := b.setup.(ScenePostActivator); ok {
		if err := pa.PostActivate(b); err != nil {
			return fmt.Errorf("post-activate scene: %w", err)
		}
	}
	return nil
}

// Width returns the width of the stage the scene is shown on.
func (b *BaseScene) Width() float64 {
	if b.stage == nil {
		return 0
	}
	return b.stage.Width()
}

// Height returns the height of the stage the scene is shown on.
func (b *BaseScene) Height() float64 {
	if b.stage == nil {
		return 0
	}
	return b.stage.Height()
}

// Stage returns the stage the scene is active on, or nil.
func (b *BaseScene) Stage() *Stage {
	return b.stage
}

// Services returns the registry handed to Initializable entities.
func (b *BaseScene) Services() *engine.Services {
	return b.collection.Services()
}

func (b *BaseScene) Logger() *zap.Logger {
	return b.logger
}

// Collection returns the entity collection. It is nil before activation.
func (b *BaseScene) Collection() *engine.EntityCollection {
	return b.collection
}

// AddEntity queues an entity; it joins the scene on the next frame.
func (b *BaseScene) AddEntity(e engine.Entity) {
	b.collection.Add(e)
}

// AddSupplier registers a supplier drained every frame.
func (b *BaseScene) AddSupplier(s *engine.EntitySupplier) {
	b.collection.RegisterSupplier(s)
}

// AddSpawner registers a spawner with the scene.
func (b *BaseScene) AddSpawner(s *engine.Spawner) {
	b.collection.AddSpawner(s)
}

// AddUpdatable registers a scene-level updatable.
func (b *BaseScene) AddUpdatable(u engine.Updatable) {
	b.collection.AddUpdatable(u, false)
}

// Background returns the scene background. It is nil before activation.
func (b *BaseScene) Background() *Background {
	return b.background
}

func (b *BaseScene) SetBackgroundColor(c color.Color) {
	b.background.SetColor(c)
}

func (b *BaseScene) SetBackgroundImage(url string) error {
	return b.background.SetImage(url)
}

// SetBackgroundAudio loops url until the scene is destroyed.
func (b *BaseScene) SetBackgroundAudio(url string) error {
	return b.background.SetAudio(url)
}

func (b *BaseScene) SetCursor(shape ebiten.CursorShapeType) {
	if b.stage != nil {
		b.stage.SetCursor(shape)
	}
}

// OnPressedKeysChange forwards the pressed keys to every key listener.
func (b *BaseScene) OnPressedKeysChange(keys []ebiten.Key) error {
	if b.collection == nil {
		return nil
	}
	return b.collection.NotifyPressedKeys(keys)
}

// Draw paints the background and then every Drawable entity.
func (b *BaseScene) Draw(screen *ebiten.Image) {
	if b.background != nil {
		b.background.Draw(screen)
	}
	if b.collection == nil {
		return
	}
	for e := range b.collection.Entities() {
		if d, ok := e.(Drawable); ok {
			d.Draw(screen)
		}
	}
}

// Destroy drops every entity and stops the background audio.
func (b *BaseScene) Destroy() {
	if b.collection != nil {
		b.collection.Destroy()
	}
	if b.background != nil {
		b.background.Destroy()
	}
	b.stage = nil
}

// DynamicScene runs the full entity lifecycle every tick.
type DynamicScene struct {
	*BaseScene
}

var _ Scene = (*DynamicScene)(nil)

func NewDynamicScene(setup SceneSetup) *DynamicScene {
	return &DynamicScene{BaseScene: newBaseScene(setup)}
}

func (s *DynamicScene) Activate(stage *Stage) error {
	return s.activate(stage)
}

// Update runs one entity frame.
func (s *DynamicScene) Update(timestamp int64) error {
	return s.collection.Update(timestamp)
}

// StaticScene activates its entities once and never updates them again. Key
// listeners keep receiving input, which suits menus and title screens.
type StaticScene struct {
	*BaseScene
}

var _ Scene = (*StaticScene)(nil)

func NewStaticScene(setup SceneSetup) *StaticScene {
	return &StaticScene{BaseScene: newBaseScene(setup)}
}

// Activate sets the scene up and activates the initial entities right away.
func (s *StaticScene) Activate(stage *Stage) error {
	if err := s.activate(stage); err != nil {
		return err
	}
	return s.collection.Update(stage.Now())
}

// Update does nothing; the entities were settled during Activate.
func (s *StaticScene) Update(int64) error {
	return nil
}
