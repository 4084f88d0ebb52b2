package media

import (
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ImageRepository decodes images from a file system once and hands out the
// same *ebiten.Image for every request of the same URL.
type ImageRepository struct {
	fsys   fs.FS
	logger *zap.Logger

	mu     sync.Mutex
	images map[string]*ebiten.Image
}

// NewImageRepository creates a repository reading files from fsys.
func NewImageRepository(fsys fs.FS) *ImageRepository {
	return &ImageRepository{
		fsys:   fsys,
		logger: zap.NewNop(),
		images: make(map[string]*ebiten.Image),
	}
}

// SetLogger replaces the logger. A nil logger disables logging.
func (r *ImageRepository) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.logger = logger
}

// Get returns the image stored at url, decoding it on first use.
func (r *ImageRepository) Get(url string) (*ebiten.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if img, ok := r.images[url]; ok {
		return img, nil
	}

	f, err := r.fsys.Open(url)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", url, err)
	}
	defer f.Close()

	decoded, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", url, err)
	}

	img := ebiten.NewImageFromImage(decoded)
	r.images[url] = img
	r.logger.Debug("image loaded",
		zap.String("url", url),
		zap.String("format", format),
		zap.Int("width", decoded.Bounds().Dx()),
		zap.Int("height", decoded.Bounds().Dy()),
	)
	return img, nil
}

// MustGet is Get for assets that ship with the game; it panics on error.
func (r *ImageRepository) MustGet(url string) *ebiten.Image {
	img, err := r.Get(url)
	if err != nil {
		panic(err)
	}
	return img
}

// Size returns the number of cached images.
func (r *ImageRepository) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.images)
}

// Destroy releases every cached image.
func (r *ImageRepository) Destroy() {
	r.mu.Lock()
	images := r.images
	r.images = make(map[string]*ebiten.Image)
	r.mu.Unlock()

	for _, img := range images {
		img.Deallocate()
	}
	r.logger.Debug("image repository destroyed", zap.Int("images", len(images)))
}
