package engine

import "time"

// SpriteAnimation slices a horizontal sprite sheet into equally wide frames and
// optionally cycles through them. It keeps only viewports; drawing is up to the
// caller.
type SpriteAnimation struct {
	viewports []Bounds
	index     int

	previousCycle int64
	cycleInterval int64
}

var _ Updatable = (*SpriteAnimation)(nil)

// NewSpriteAnimation builds frames viewports over a sheet of the given size.
// frames below 1 is treated as a single frame.
func NewSpriteAnimation(sheetWidth, sheetHeight float64, frames int) *SpriteAnimation {
	if frames < 1 {
		frames = 1
	}

	frameWidth := sheetWidth / float64(frames)
	viewports := make([]Bounds, frames)
	for i := range viewports {
		viewports[i] = NewBounds(float64(i)*frameWidth, 0, frameWidth, sheetHeight)
	}
	return &SpriteAnimation{viewports: viewports}
}

// SetIndex selects a frame. The index wraps around the frame count.
func (s *SpriteAnimation) SetIndex(index int) {
	s.index = index
}

// Index returns the selected frame, always within [0, Frames()).
func (s *SpriteAnimation) Index() int {
	i := s.index % len(s.viewports)
	if i < 0 {
		i += len(s.viewports)
	}
	return i
}

// Next advances to the following frame.
func (s *SpriteAnimation) Next() {
	s.SetIndex(s.index + 1)
}

func (s *SpriteAnimation) Frames() int {
	return len(s.viewports)
}

// Viewport returns the sheet region of the selected frame.
func (s *SpriteAnimation) Viewport() Bounds {
	return s.viewports[s.Index()]
}

// SetAutoCycle enables cycling every interval milliseconds. Zero disables it.
func (s *SpriteAnimation) SetAutoCycle(interval int64) {
	s.cycleInterval = interval * int64(time.Millisecond)
}

// Update advances the frame once the timestamp passes the previous cycle time
// by more than the auto-cycle interval.
func (s *SpriteAnimation) Update(timestamp int64) {
	if s.cycleInterval == 0 {
		return
	}
	if timestamp > s.previousCycle+s.cycleInterval {
		s.Next()
		s.previousCycle = timestamp
	}
}
