package engine

import "math"

// LocationUpdater computes a new location from the current one.
type LocationUpdater interface {
	UpdateLocation(current Point) Point
}

// MotionApplier holds a speed and a direction and turns them into a per-frame
// displacement. Direction is in degrees: 0 points along +x and angles increase
// clockwise on screen (y grows downwards). The system is frame-step based, so
// the displacement is applied once per frame with no delta-time scaling.
type MotionApplier struct {
	speed        float64
	direction    float64
	displacement Point
}

var _ LocationUpdater = (*MotionApplier)(nil)

// SetMotion sets speed and direction at once.
func (m *MotionApplier) SetMotion(speed, direction float64) {
	m.speed = speed
	m.direction = normalizeDegrees(direction)
}

// SetSpeed changes the speed and keeps the direction.
func (m *MotionApplier) SetSpeed(speed float64) {
	m.speed = speed
}

// SetDirection changes the direction and keeps the speed.
func (m *MotionApplier) SetDirection(direction float64) {
	m.direction = normalizeDegrees(direction)
}

// ChangeDirection rotates the current direction by delta degrees.
func (m *MotionApplier) ChangeDirection(delta float64) {
	m.direction = normalizeDegrees(m.direction + delta)
}

// MultiplySpeed scales the current speed by factor.
func (m *MotionApplier) MultiplySpeed(factor float64) {
	m.speed *= factor
}

// Stop sets the speed to zero.
func (m *MotionApplier) Stop() {
	m.speed = 0
}

func (m *MotionApplier) Speed() float64     { return m.speed }
func (m *MotionApplier) Direction() float64 { return m.direction }

// Displacement returns the displacement computed by the last UpdateLocation.
func (m *MotionApplier) Displacement() Point {
	return m.displacement
}

// UpdateLocation returns current moved by one frame of motion. The displacement
// is recomputed from speed and direction on every call, never accumulated.
func (m *MotionApplier) UpdateLocation(current Point) Point {
	if m.speed == 0 {
		m.displacement = Point{}
		return current
	}

	rad := m.direction * math.Pi / 180
	m.displacement = Point{
		X: m.speed * math.Cos(rad),
		Y: m.speed * math.Sin(rad),
	}
	return current.Add(m.displacement)
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
