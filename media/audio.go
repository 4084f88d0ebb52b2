package media

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"
)

// Indefinite loops a clip until it is stopped.
const Indefinite = -1

const resampleQuality = 4

// ErrNoPlayer is returned when playing a clip from a repository without a player.
var ErrNoPlayer = errors.New("no audio player configured")

// Player is the audio output clips are played on.
type Player interface {
	SampleRate() beep.SampleRate
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

type speakerPlayer struct {
	rate beep.SampleRate
}

// NewSpeakerPlayer initializes the system speaker with the given sample rate
// and buffer length and returns a Player backed by it.
func NewSpeakerPlayer(rate beep.SampleRate, buffer time.Duration) (Player, error) {
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return speakerPlayer{rate: rate}, nil
}

func (p speakerPlayer) SampleRate() beep.SampleRate { return p.rate }
func (p speakerPlayer) Play(s ...beep.Streamer)     { speaker.Play(s...) }
func (p speakerPlayer) Lock()                       { speaker.Lock() }
func (p speakerPlayer) Unlock()                     { speaker.Unlock() }

// AudioClip is a WAV file decoded on first use and played a fixed number of
// cycles. The decoded samples stay buffered, so replaying does not touch the
// file system again.
type AudioClip struct {
	url    string
	cycles int
	fsys   fs.FS
	player Player

	mu     sync.Mutex
	buffer *beep.Buffer
	ctrl   *beep.Ctrl
}

func (c *AudioClip) URL() string { return c.url }
func (c *AudioClip) Cycles() int { return c.cycles }

// Load decodes the clip if it was not decoded yet.
func (c *AudioClip) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *AudioClip) load() error {
	if c.buffer != nil {
		return nil
	}

	f, err := c.fsys.Open(c.url)
	if err != nil {
		return fmt.Errorf("open audio %s: %w", c.url, err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return fmt.Errorf("decode audio %s: %w", c.url, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("read audio %s: %w", c.url, err)
	}
	c.buffer = buffer
	return nil
}

// Play starts the clip from the beginning. A clip that is already playing is
// restarted.
func (c *AudioClip) Play() error {
	if c.player == nil {
		return ErrNoPlayer
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return err
	}
	c.stop()

	var stream beep.Streamer = c.buffer.Streamer(0, c.buffer.Len())
	if c.cycles != 1 {
		stream = beep.Loop(c.cycles, c.buffer.Streamer(0, c.buffer.Len()))
	}
	if rate := c.player.SampleRate(); rate != c.buffer.Format().SampleRate {
		stream = beep.Resample(resampleQuality, c.buffer.Format().SampleRate, rate, stream)
	}

	c.ctrl = &beep.Ctrl{Streamer: stream}
	c.player.Play(c.ctrl)
	return nil
}

// Stop silences the clip. It is a no-op when the clip is not playing.
func (c *AudioClip) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop()
}

func (c *AudioClip) stop() {
	if c.ctrl == nil {
		return
	}
	c.player.Lock()
	c.ctrl.Streamer = nil
	c.player.Unlock()
	c.ctrl = nil
}

// Playing reports whether Play was called and the clip was not stopped since.
func (c *AudioClip) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl != nil
}

// Format returns the decoded format. It is the zero Format before Load.
func (c *AudioClip) Format() beep.Format {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buffer == nil {
		return beep.Format{}
	}
	return c.buffer.Format()
}

type clipKey struct {
	url    string
	cycles int
}

// AudioRepository hands out one AudioClip per URL and cycle count.
type AudioRepository struct {
	fsys   fs.FS
	player Player
	logger *zap.Logger

	mu    sync.Mutex
	clips map[clipKey]*AudioClip
}

// NewAudioRepository creates a repository reading files from fsys. player may
// be nil when nothing will be played, for example in tools that only preload.
func NewAudioRepository(fsys fs.FS, player Player) *AudioRepository {
	return &AudioRepository{
		fsys:   fsys,
		player: player,
		logger: zap.NewNop(),
		clips:  make(map[clipKey]*AudioClip),
	}
}

// SetLogger replaces the logger. A nil logger disables logging.
func (r *AudioRepository) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.logger = logger
}

// Get returns the clip for url. The optional cycle count defaults to
// Indefinite. Asking twice for the same url and cycle count returns the same
// clip; a different cycle count yields a different clip.
func (r *AudioRepository) Get(url string, cycles ...int) *AudioClip {
	count := Indefinite
	if len(cycles) > 0 {
		count = cycles[0]
	}
	key := clipKey{url: url, cycles: count}

	r.mu.Lock()
	defer r.mu.Unlock()

	if clip, ok := r.clips[key]; ok {
		return clip
	}
	clip := &AudioClip{
		url:    url,
		cycles: count,
		fsys:   r.fsys,
		player: r.player,
	}
	r.clips[key] = clip
	r.logger.Debug("audio clip created", zap.String("url", url), zap.Int("cycles", count))
	return clip
}

// Size returns the number of distinct clips handed out.
func (r *AudioRepository) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clips)
}

// Destroy stops every clip and forgets them.
func (r *AudioRepository) Destroy() {
	r.mu.Lock()
	clips := r.clips
	r.clips = make(map[clipKey]*AudioClip)
	r.mu.Unlock()

	for _, clip := range clips {
		clip.Stop()
	}
	r.logger.Debug("audio repository destroyed", zap.Int("clips", len(clips)))
}
