package engine

import "reflect"

// Services is a type-keyed registry handed to Initializable entities. It holds
// at most one value per type, typically repositories, loggers and game state.
type Services struct {
	entries map[reflect.Type]any
}

// NewServices creates an empty registry.
func NewServices() *Services {
	return &Services{
		entries: make(map[reflect.Type]any),
	}
}

// Provide stores value under its static type T, replacing any previous value.
// Unlike Resolve, it needs a registry to write to and panics on a nil one.
func Provide[T any](s *Services, value T) {
	if s == nil {
		panic("engine: Provide on a nil *Services")
	}
	s.entries[reflect.TypeFor[T]()] = value
}

// Resolve returns the value stored for T.
func Resolve[T any](s *Services) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	value, ok := s.entries[reflect.TypeFor[T]()]
	if !ok {
		return zero, false
	}
	return value.(T), true
}

// MustResolve returns the value stored for T and panics with a
// *ServiceNotFoundError when nothing was provided.
func MustResolve[T any](s *Services) T {
	value, ok := Resolve[T](s)
	if !ok {
		panic(&ServiceNotFoundError{Type: reflect.TypeFor[T]()})
	}
	return value
}

// Len returns the number of registered services.
func (s *Services) Len() int {
	return len(s.entries)
}
