package engine

import (
	"fmt"
	"reflect"
)

// HookRole names the lifecycle point a hook belongs to.
type HookRole uint8

const (
	RoleInit HookRole = iota
	RoleActivation
	RolePostActivation
	RoleUpdateProvider
)

func (r HookRole) String() string {
	switch r {
	case RoleInit:
		return "init"
	case RoleActivation:
		return "on-activation"
	case RolePostActivation:
		return "on-post-activation"
	case RoleUpdateProvider:
		return "update-provider"
	default:
		return fmt.Sprintf("HookRole(%d)", uint8(r))
	}
}

// ConfigurationError reports a lifecycle wiring mistake on an entity type.
// These are author errors, not runtime conditions.
type ConfigurationError struct {
	EntityType string
	Role       HookRole
	Hook       string
	Err        error
}

func (e *ConfigurationError) Error() string {
	if e.Hook == "" {
		return fmt.Sprintf("%s: %s: %v", e.EntityType, e.Role, e.Err)
	}
	return fmt.Sprintf("%s: %s hook %q: %v", e.EntityType, e.Role, e.Hook, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// EntityError wraps a failure isolated to a single entity during a frame.
type EntityError struct {
	Id     EntityId
	Entity Entity
	Phase  Phase
	Err    error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("entity %d (%s) during %s: %v", e.Id, typeName(e.Entity), e.Phase, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// ServiceNotFoundError is raised by MustResolve for a type nobody provided.
type ServiceNotFoundError struct {
	Type reflect.Type
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service %s is not available. Ensure it is provided before use.", e.Type)
}

// PanicError carries a value recovered from a panicking hook or update.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// protect runs fn and converts a panic into a *PanicError.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}
