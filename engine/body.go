package engine

// AnchorPoint selects which point of an entity's bounding box sits on its
// location.
type AnchorPoint uint8

const (
	AnchorTopLeft AnchorPoint = iota
	AnchorTopCenter
	AnchorTopRight
	AnchorCenterLeft
	AnchorCenterCenter
	AnchorCenterRight
	AnchorBottomLeft
	AnchorBottomCenter
	AnchorBottomRight
)

var anchorNames = [...]string{
	"TOP_LEFT", "TOP_CENTER", "TOP_RIGHT",
	"CENTER_LEFT", "CENTER_CENTER", "CENTER_RIGHT",
	"BOTTOM_LEFT", "BOTTOM_CENTER", "BOTTOM_RIGHT",
}

func (a AnchorPoint) String() string {
	if int(a) < len(anchorNames) {
		return anchorNames[a]
	}
	return "AnchorPoint(?)"
}

// Translate returns the offset from the location to the top-left corner of a
// box of the given size.
func (a AnchorPoint) Translate(width, height float64) Point {
	col, row := float64(a%3), float64(a/3)
	return Point{X: -width * col / 2, Y: -height * row / 2}
}

// StaticBody is an embeddable positioned box. It implements Entity, Removable
// and Undoer.
type StaticBody struct {
	location Point
	previous Point
	width    float64
	height   float64
	anchor   AnchorPoint
	remove   func()
}

// NewStaticBody creates a body of the given size anchored top-left at location.
func NewStaticBody(location Point, width, height float64) StaticBody {
	return StaticBody{
		location: location,
		previous: location,
		width:    width,
		height:   height,
	}
}

// TransformedBounds returns the box after the anchor translation.
func (b *StaticBody) TransformedBounds() Bounds {
	origin := b.location.Add(b.anchor.Translate(b.width, b.height))
	return NewBounds(origin.X, origin.Y, b.width, b.height)
}

func (b *StaticBody) BindRemover(remove func()) {
	b.remove = remove
}

// Remove schedules the owning entity for removal. It is a no-op until the
// entity has been activated.
func (b *StaticBody) Remove() {
	if b.remove != nil {
		b.remove()
	}
}

// UndoUpdate restores the location held before the last move.
func (b *StaticBody) UndoUpdate() {
	b.location = b.previous
}

func (b *StaticBody) Location() Point {
	return b.location
}

// SetLocation moves the body. The previous location is kept for UndoUpdate.
func (b *StaticBody) SetLocation(p Point) {
	b.previous = b.location
	b.location = p
}

func (b *StaticBody) Size() (width, height float64) {
	return b.width, b.height
}

func (b *StaticBody) SetSize(width, height float64) {
	b.width, b.height = width, height
}

func (b *StaticBody) AnchorPoint() AnchorPoint {
	return b.anchor
}

func (b *StaticBody) SetAnchorPoint(a AnchorPoint) {
	b.anchor = a
}

// DynamicBody is a StaticBody that moves every frame and owns an Updater for
// its timers and update providers. It implements UpdateDelegator.
type DynamicBody struct {
	StaticBody
	motion        MotionApplier
	updater       *Updater
	rotation      float64
	rotationSpeed float64
}

// NewDynamicBody creates a body of the given size at location.
func NewDynamicBody(location Point, width, height float64) DynamicBody {
	return DynamicBody{
		StaticBody: NewStaticBody(location, width, height),
		updater:    NewUpdater(),
	}
}

// Update applies the motion first, then the rotation, then runs the body's
// own Updater.
func (b *DynamicBody) Update(timestamp int64) {
	if b.motion.Speed() != 0 {
		b.SetLocation(b.motion.UpdateLocation(b.location))
	} else {
		b.previous = b.location
	}
	if b.rotationSpeed != 0 {
		b.rotation = normalizeDegrees(b.rotation + b.rotationSpeed)
	}
	b.Updater().Update(timestamp)
}

// Updater returns the body's own Updater, creating it on first use.
func (b *DynamicBody) Updater() *Updater {
	if b.updater == nil {
		b.updater = NewUpdater()
	}
	return b.updater
}

// Motion exposes the motion applier for speed and direction changes.
func (b *DynamicBody) Motion() *MotionApplier {
	return &b.motion
}

// Rotation returns the current rotation in degrees.
func (b *DynamicBody) Rotation() float64 {
	return b.rotation
}

func (b *DynamicBody) SetRotation(degrees float64) {
	b.rotation = normalizeDegrees(degrees)
}

// SetRotationSpeed sets the rotation applied every frame, in degrees.
func (b *DynamicBody) SetRotationSpeed(degrees float64) {
	b.rotationSpeed = degrees
}
