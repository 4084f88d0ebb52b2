// Package stage runs scenes of entities inside an ebiten game loop. It owns
// the asset repositories, the scene registry and keyboard polling, and hands
// every tick to the active scene's entity collection.
package stage

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/sprout/engine"
	"github.com/plus3/sprout/media"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Overlay draws diagnostics over the active scene. It only receives Update and
// Draw while visible.
type Overlay interface {
	Update(collection *engine.EntityCollection)
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}

// KeySource appends the currently pressed keys to keys and returns the result.
type KeySource func(keys []ebiten.Key) []ebiten.Key

// Stage implements ebiten.Game.
type Stage struct {
	cfg      Config
	logger   *zap.Logger
	services *engine.Services
	images   *media.ImageRepository
	audio    *media.AudioRepository

	scenes   map[int]Scene
	active   Scene
	activeID int
	pending  *int
	updating bool

	overlay        Overlay
	overlayVisible bool

	keySource KeySource
	pressed   []ebiten.Key
	scratch   []ebiten.Key

	clock func() time.Time
	start time.Time
	quit  bool
}

var _ ebiten.Game = (*Stage)(nil)

// New creates a stage. Assets are read from fsys; player may be nil when the
// game runs without audio.
func New(cfg Config, logger *zap.Logger, fsys fs.FS, player media.Player) *Stage {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Stage{
		cfg:            cfg,
		logger:         logger,
		services:       engine.NewServices(),
		images:         media.NewImageRepository(fsys),
		audio:          media.NewAudioRepository(fsys, player),
		scenes:         make(map[int]Scene),
		activeID:       -1,
		overlayVisible: cfg.Debug.Enabled,
		keySource:      inpututil.AppendPressedKeys,
		clock:          time.Now,
	}
	s.start = s.clock()
	s.images.SetLogger(logger.Named("images"))
	s.audio.SetLogger(logger.Named("audio"))

	engine.Provide(s.services, s.images)
	engine.Provide(s.services, s.audio)
	engine.Provide(s.services, logger)
	engine.Provide(s.services, s)
	return s
}

func (s *Stage) Config() Config                 { return s.cfg }
func (s *Stage) Logger() *zap.Logger            { return s.logger }
func (s *Stage) Services() *engine.Services     { return s.services }
func (s *Stage) Images() *media.ImageRepository { return s.images }
func (s *Stage) Audio() *media.AudioRepository  { return s.audio }

func (s *Stage) Width() float64  { return float64(s.cfg.Game.Width) }
func (s *Stage) Height() float64 { return float64(s.cfg.Game.Height) }

// SetOverlay installs the debug overlay toggled by the configured key.
func (s *Stage) SetOverlay(o Overlay) {
	s.overlay = o
}

func (s *Stage) OverlayVisible() bool {
	return s.overlay != nil && s.overlayVisible
}

// SetKeySource replaces keyboard polling, mostly for tests.
func (s *Stage) SetKeySource(src KeySource) {
	s.keySource = src
}

// SetClock replaces the time source and restarts Now at zero.
func (s *Stage) SetClock(clock func() time.Time) {
	s.clock = clock
	s.start = clock()
}

// Now returns the nanoseconds elapsed since the stage was created. It is the
// timestamp handed to every entity update.
func (s *Stage) Now() int64 {
	return int64(s.clock().Sub(s.start))
}

// AddScene registers a scene under id, replacing any earlier one.
func (s *Stage) AddScene(id int, scene Scene) {
	s.scenes[id] = scene
}

// ActiveScene returns the active scene and its id.
func (s *Stage) ActiveScene() (Scene, int) {
	return s.active, s.activeID
}

// SetActiveScene destroys the current scene and activates the one registered
// under id. Called from inside a frame, the switch happens once the frame has
// finished. Keys held across the switch are not delivered again. When
// activation fails no scene is active afterwards.
func (s *Stage) SetActiveScene(id int) error {
	if _, ok := s.scenes[id]; !ok {
		return &SceneNotAvailableError{ID: id}
	}
	if s.updating {
		s.pending = &id
		return nil
	}
	return s.switchScene(id)
}

func (s *Stage) switchScene(id int) error {
	next := s.scenes[id]
	if s.active != nil {
		s.active.Destroy()
		s.logger.Debug("scene destroyed", zap.Int("scene", s.activeID))
	}
	s.active, s.activeID = nil, -1

	if err := next.Activate(s); err != nil {
		next.Destroy()
		return fmt.Errorf("activate scene %d: %w", id, err)
	}
	s.active, s.activeID = next, id
	s.logger.Info("scene activated", zap.Int("scene", id))
	return nil
}

func (s *Stage) SetCursor(shape ebiten.CursorShapeType) {
	ebiten.SetCursorShape(shape)
}

// Quit ends the game loop after the current tick.
func (s *Stage) Quit() {
	s.quit = true
}

func (s *Stage) Update() error {
	if s.quit {
		return ebiten.Termination
	}

	s.updating = true
	frameErr := s.tick()
	s.updating = false

	if s.pending != nil {
		id := *s.pending
		s.pending = nil
		if err := s.switchScene(id); err != nil {
			return err
		}
	}
	if frameErr != nil {
		s.logger.Warn("frame errors",
			zap.Int("scene", s.activeID),
			zap.Int("count", len(multierr.Errors(frameErr))),
			zap.Error(frameErr),
		)
	}
	return nil
}

func (s *Stage) tick() error {
	var errs error
	if s.pollKeys() {
		if s.toggleRequested() {
			s.overlayVisible = !s.overlayVisible
		}
		if s.active != nil {
			errs = multierr.Append(errs, s.active.OnPressedKeysChange(slices.Clone(s.pressed)))
		}
	}

	if s.active == nil {
		return errs
	}
	errs = multierr.Append(errs, s.active.Update(s.Now()))

	if s.OverlayVisible() {
		s.overlay.Update(s.active.Collection())
	}
	return errs
}

// pollKeys refreshes the pressed key set and reports whether it changed.
func (s *Stage) pollKeys() bool {
	if s.keySource == nil {
		return false
	}
	s.scratch = s.keySource(s.scratch[:0])
	slices.Sort(s.scratch)
	s.scratch = slices.Compact(s.scratch)
	if slices.Equal(s.scratch, s.pressed) {
		return false
	}
	s.pressed, s.scratch = s.scratch, s.pressed
	return true
}

// toggleRequested reports whether the overlay key went down this tick. It
// must run right after a successful pollKeys, when scratch holds the
// previous key set.
func (s *Stage) toggleRequested() bool {
	key := s.cfg.Debug.ToggleKey
	_, was := slices.BinarySearch(s.scratch, key)
	_, is := slices.BinarySearch(s.pressed, key)
	return is && !was
}

func (s *Stage) Draw(screen *ebiten.Image) {
	if s.active != nil {
		s.active.Draw(screen)
	}
	if s.OverlayVisible() {
		s.overlay.Draw(screen)
	}
}

func (s *Stage) Layout(outsideWidth, outsideHeight int) (int, int) {
	if s.overlay != nil {
		s.overlay.Layout(s.cfg.Game.Width, s.cfg.Game.Height)
	}
	return s.cfg.Game.Width, s.cfg.Game.Height
}

// Run activates the initial scene unless one is already active, opens the
// window and blocks until the game ends.
func (s *Stage) Run() error {
	defer s.Destroy()

	if s.active == nil {
		if err := s.SetActiveScene(s.cfg.Game.InitialScene); err != nil {
			return err
		}
	}

	ebiten.SetWindowTitle(s.cfg.Game.Title)
	ebiten.SetWindowSize(s.cfg.Game.Width, s.cfg.Game.Height)
	ebiten.SetTPS(s.cfg.Game.TPS)
	if s.cfg.Game.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	err := ebiten.RunGame(s)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Destroy tears down the active scene and releases every cached asset.
func (s *Stage) Destroy() {
	if s.active != nil {
		s.active.Destroy()
		s.active, s.activeID = nil, -1
	}
	s.audio.Destroy()
	s.images.Destroy()
}
