package media_test

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/gopxl/beep"
	"github.com/plus3/sprout/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = beep.SampleRate(8000)

// wavBytes builds a mono 16-bit PCM WAV file with the given number of frames.
func wavBytes(frames int) []byte {
	data := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(i*100)))
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(testRate))
	binary.Write(&buf, binary.LittleEndian, uint32(int(testRate)*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakePlayer struct {
	rate   beep.SampleRate
	played []beep.Streamer
	locks  int
}

func (p *fakePlayer) SampleRate() beep.SampleRate { return p.rate }
func (p *fakePlayer) Play(s ...beep.Streamer)     { p.played = append(p.played, s...) }
func (p *fakePlayer) Lock()                       { p.locks++ }
func (p *fakePlayer) Unlock()                     {}

// drain counts the frames a streamer yields, up to limit.
func drain(s beep.Streamer, limit int) int {
	total := 0
	samples := make([][2]float64, 7)
	for total < limit {
		n, ok := s.Stream(samples[:min(len(samples), limit-total)])
		total += n
		if !ok {
			break
		}
	}
	return total
}

func audioFS() fs.FS {
	return fstest.MapFS{
		"audio/bubble.wav": {Data: wavBytes(10)},
		"audio/broken.wav": {Data: []byte("not a wav file")},
	}
}

func TestAudioRepositoryIdentity(t *testing.T) {
	repo := media.NewAudioRepository(audioFS(), nil)

	a := repo.Get("audio/bubble.wav")
	b := repo.Get("audio/bubble.wav")
	assert.Same(t, a, b, "same url and cycle count share a clip")
	assert.Equal(t, media.Indefinite, a.Cycles())

	c := repo.Get("audio/bubble.wav", 1)
	assert.NotSame(t, a, c, "a different cycle count is a different clip")
	assert.Same(t, a, repo.Get("audio/bubble.wav", media.Indefinite))

	assert.Equal(t, 2, repo.Size())

	repo.Destroy()
	assert.Equal(t, 0, repo.Size())
	assert.NotSame(t, a, repo.Get("audio/bubble.wav"))
}

func TestAudioClipPlayback(t *testing.T) {
	tests := []struct {
		name   string
		cycles int
		limit  int
		want   int
	}{
		{"single cycle", 1, 1000, 10},
		{"three cycles", 3, 1000, 30},
		{"indefinite", media.Indefinite, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &fakePlayer{rate: testRate}
			clip := media.NewAudioRepository(audioFS(), player).Get("audio/bubble.wav", tt.cycles)

			require.NoError(t, clip.Play())
			require.Len(t, player.played, 1)
			assert.True(t, clip.Playing())

			assert.Equal(t, tt.want, drain(player.played[0], tt.limit))
		})
	}

	t.Run("decoded lazily", func(t *testing.T) {
		clip := media.NewAudioRepository(audioFS(), &fakePlayer{rate: testRate}).Get("audio/bubble.wav")
		assert.Equal(t, beep.Format{}, clip.Format())

		require.NoError(t, clip.Load())
		assert.Equal(t, testRate, clip.Format().SampleRate)
		assert.Equal(t, 1, clip.Format().NumChannels)
	})

	t.Run("stop silences the stream", func(t *testing.T) {
		player := &fakePlayer{rate: testRate}
		clip := media.NewAudioRepository(audioFS(), player).Get("audio/bubble.wav")
		require.NoError(t, clip.Play())

		clip.Stop()

		assert.False(t, clip.Playing())
		assert.Equal(t, 1, player.locks)
		assert.Equal(t, 0, drain(player.played[0], 100))
	})

	t.Run("replay restarts", func(t *testing.T) {
		player := &fakePlayer{rate: testRate}
		clip := media.NewAudioRepository(audioFS(), player).Get("audio/bubble.wav", 1)
		require.NoError(t, clip.Play())
		require.NoError(t, clip.Play())

		require.Len(t, player.played, 2)
		assert.Equal(t, 0, drain(player.played[0], 100))
		assert.Equal(t, 10, drain(player.played[1], 100))
	})

	t.Run("errors", func(t *testing.T) {
		repo := media.NewAudioRepository(audioFS(), &fakePlayer{rate: testRate})

		assert.ErrorIs(t, repo.Get("audio/missing.wav").Play(), fs.ErrNotExist)
		assert.Error(t, repo.Get("audio/broken.wav").Play())
		assert.ErrorIs(t, media.NewAudioRepository(audioFS(), nil).Get("audio/bubble.wav").Play(), media.ErrNoPlayer)
	})
}

func TestImageRepository(t *testing.T) {
	fsys := fstest.MapFS{
		"images/fish.png": {Data: pngBytes(t, 4, 2)},
		"images/bad.png":  {Data: []byte("nope")},
	}
	repo := media.NewImageRepository(fsys)

	img, err := repo.Get("images/fish.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	again, err := repo.Get("images/fish.png")
	require.NoError(t, err)
	assert.Same(t, img, again)
	assert.Equal(t, 1, repo.Size())

	_, err = repo.Get("images/missing.png")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = repo.Get("images/bad.png")
	assert.Error(t, err)
	assert.Equal(t, 1, repo.Size(), "failures are not cached")

	assert.Panics(t, func() { repo.MustGet("images/missing.png") })

	repo.Destroy()
	assert.Equal(t, 0, repo.Size())
}
