package stage

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sprout/media"
	"go.uber.org/zap"
)

// Background paints behind every entity of a scene and may loop an audio
// track while the scene is active.
type Background struct {
	images *media.ImageRepository
	audio  *media.AudioRepository
	logger *zap.Logger

	fill  color.Color
	image *ebiten.Image
	track *media.AudioClip
}

// NewBackground creates an empty background. Either repository may be nil, in
// which case the matching setter fails.
func NewBackground(images *media.ImageRepository, audio *media.AudioRepository) *Background {
	return &Background{images: images, audio: audio, logger: zap.NewNop()}
}

func (b *Background) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b.logger = logger
}

// SetColor fills the screen with c before the image is drawn.
func (b *Background) SetColor(c color.Color) {
	b.fill = c
}

// SetImage stretches the image at url over the whole screen.
func (b *Background) SetImage(url string) error {
	if b.images == nil {
		return errNoImages
	}
	img, err := b.images.Get(url)
	if err != nil {
		return err
	}
	b.image = img
	return nil
}

// SetAudio replaces the background track and loops it indefinitely.
func (b *Background) SetAudio(url string) error {
	if b.audio == nil {
		return media.ErrNoPlayer
	}
	if b.track != nil {
		b.track.Stop()
	}
	b.track = b.audio.Get(url, media.Indefinite)
	if err := b.track.Play(); err != nil {
		b.track = nil
		return err
	}
	b.logger.Debug("background audio started", zap.String("url", url))
	return nil
}

// Color returns the fill colour, or nil.
func (b *Background) Color() color.Color { return b.fill }

// Image returns the background image, or nil.
func (b *Background) Image() *ebiten.Image { return b.image }

// Track returns the looping audio clip, or nil.
func (b *Background) Track() *media.AudioClip { return b.track }

func (b *Background) Draw(screen *ebiten.Image) {
	if b.fill != nil {
		screen.Fill(b.fill)
	}
	if b.image == nil {
		return
	}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	iw, ih := b.image.Bounds().Dx(), b.image.Bounds().Dy()
	if iw == 0 || ih == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(iw), float64(sh)/float64(ih))
	screen.DrawImage(b.image, op)
}

// Destroy stops the background audio.
func (b *Background) Destroy() {
	if b.track != nil {
		b.track.Stop()
		b.track = nil
	}
}
