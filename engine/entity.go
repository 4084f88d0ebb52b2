package engine

import (
	"errors"
	"reflect"

	"github.com/hajimehoshi/ebiten/v2"
)

// EntityId identifies an activated entity within its EntityCollection.
// Ids start at 1 and are never reused by the same collection.
type EntityId uint64

// Bounded exposes the bounding box of an entity after all transformations.
type Bounded interface {
	TransformedBounds() Bounds
}

// Entity is the minimal contract for anything owned by an EntityCollection.
// Entities are identified by reference, so the dynamic value must be a pointer.
type Entity interface {
	Bounded
}

// KeyListener entities receive the full set of pressed keys whenever it changes.
type KeyListener interface {
	OnPressedKeysChange(keys []ebiten.Key)
}

// Initializable entities receive the service registry once, before any
// activation hook runs.
type Initializable interface {
	Init(services *Services) error
}

// Removable entities are handed a function that schedules their own removal.
type Removable interface {
	BindRemover(remove func())
}

// Undoer entities can revert the location change of their last update.
type Undoer interface {
	UndoUpdate()
}

// ErrNotPointer is reported for entities whose dynamic type is not a pointer.
var ErrNotPointer = errors.New("entity must be a non-nil pointer")

func checkEntity(e Entity) error {
	if e == nil {
		return ErrNotPointer
	}
	v := reflect.ValueOf(e)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrNotPointer
	}
	return nil
}

// sameEntity compares by identity without panicking on non-comparable values.
func sameEntity(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != reflect.Ptr || vb.Kind() != reflect.Ptr {
		return false
	}
	return va.Type() == vb.Type() && va.Pointer() == vb.Pointer()
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
