package stage

import (
	"errors"
	"fmt"
)

// SceneNotAvailableError is returned when switching to a scene id that was
// never added to the stage.
type SceneNotAvailableError struct {
	ID int
}

func (e *SceneNotAvailableError) Error() string {
	return fmt.Sprintf("Scene %d is not available. Ensure the scene is added to the game.", e.ID)
}

var errNoImages = errors.New("no image repository configured")
