package engine

import (
	"errors"
	"fmt"
)

// SceneProvider exposes the current viewport size of the scene.
type SceneProvider interface {
	Width() float64
	Height() float64
}

// SceneBorder identifies one of the four edges of the scene.
type SceneBorder uint8

const (
	BorderLeft SceneBorder = iota
	BorderTop
	BorderBottom
	BorderRight
)

func (b SceneBorder) String() string {
	switch b {
	case BorderLeft:
		return "LEFT"
	case BorderTop:
		return "TOP"
	case BorderBottom:
		return "BOTTOM"
	case BorderRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("SceneBorder(%d)", uint8(b))
	}
}

// BorderWatcher entities are told when their bounds cross an edge of the scene.
// The LifecycleProcessor registers the watch on the entity's Updater automatically.
type BorderWatcher interface {
	Bounded
	OnBorderTouch(border SceneBorder)
}

// ErrNoScene is reported when border watching is wired without a scene provider.
var ErrNoScene = errors.New("no scene provider available")

// WatchSceneBorders returns an Updatable that checks w against the scene edges
// in the fixed order left, top, bottom, right and reports only the first match
// per frame. When w is also an Undoer its last move is undone after the report.
func WatchSceneBorders(w BorderWatcher, scene SceneProvider) Updatable {
	return UpdateFunc(func(int64) {
		if scene == nil {
			panic(&ConfigurationError{
				EntityType: typeName(w),
				Role:       RoleUpdateProvider,
				Hook:       "WatchSceneBorders",
				Err:        ErrNoScene,
			})
		}

		border, touched := touchedBorder(w.TransformedBounds(), scene)
		if !touched {
			return
		}

		w.OnBorderTouch(border)
		if u, ok := w.(Undoer); ok {
			u.UndoUpdate()
		}
	})
}

func touchedBorder(b Bounds, scene SceneProvider) (SceneBorder, bool) {
	switch {
	case b.MinX <= 0:
		return BorderLeft, true
	case b.MinY <= 0:
		return BorderTop, true
	case b.MaxY() >= scene.Height():
		return BorderBottom, true
	case b.MaxX() >= scene.Width():
		return BorderRight, true
	}
	return 0, false
}
