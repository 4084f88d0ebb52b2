package engine

import (
	"errors"
	"fmt"
)

// Hook is a named lifecycle callback declared by an entity.
type Hook struct {
	Name string
	Run  func() error
}

// Activatable entities declare hooks that run once when the entity is activated.
type Activatable interface {
	Activators() []Hook
}

// PostActivatable entities declare hooks that run once after their first update.
type PostActivatable interface {
	PostActivators() []Hook
}

// UpdateProvider produces an Updatable that is registered on the entity's own
// Updater during activation. RunFirst places it ahead of everything added so far.
type UpdateProvider struct {
	Name     string
	RunFirst bool
	Provide  func() Updatable
}

// UpdateProviding entities declare update providers. They must also be
// UpdateDelegators so the provided Updatables have somewhere to go.
type UpdateProviding interface {
	UpdateProviders() []UpdateProvider
}

var (
	errMissingHookFunc = errors.New("hook has no function")
	errNilUpdatable    = errors.New("provider returned a nil Updatable")
	errNotDelegator    = errors.New("entity declares update providers but is not an UpdateDelegator")
)

// LifecycleProcessor wires the declared lifecycle hooks of entities. Capability
// detection runs once per concrete type and is cached.
type LifecycleProcessor struct {
	capabilities *capabilityTable
	scene        SceneProvider
}

// NewLifecycleProcessor creates a processor. scene may be nil when no entity
// watches the scene borders.
func NewLifecycleProcessor(scene SceneProvider) *LifecycleProcessor {
	return &LifecycleProcessor{
		capabilities: newCapabilityTable(),
		scene:        scene,
	}
}

// Capabilities returns the cached capability set of e's concrete type.
func (p *LifecycleProcessor) Capabilities(e Entity) Capability {
	return p.capabilities.lookup(e)
}

// InvokeActivators runs every activation hook of e in declaration order.
func (p *LifecycleProcessor) InvokeActivators(e Entity) error {
	a, ok := e.(Activatable)
	if !ok {
		return nil
	}
	return runHooks(e, RoleActivation, a.Activators())
}

// InvokePostActivators runs every post-activation hook of e in declaration order.
func (p *LifecycleProcessor) InvokePostActivators(e Entity) error {
	a, ok := e.(PostActivatable)
	if !ok {
		return nil
	}
	return runHooks(e, RolePostActivation, a.PostActivators())
}

// ConfigureUpdateDelegators calls every update provider of e once and adds the
// results to e's Updater. Timers of a TimerContainer are appended first, then
// the border watch of a BorderWatcher, then the declared providers.
func (p *LifecycleProcessor) ConfigureUpdateDelegators(e Entity) error {
	providers := p.implicitProviders(e)
	if up, ok := e.(UpdateProviding); ok {
		providers = append(providers, up.UpdateProviders()...)
	}
	if len(providers) == 0 {
		return nil
	}

	delegator, ok := e.(UpdateDelegator)
	if !ok {
		return &ConfigurationError{EntityType: typeName(e), Role: RoleUpdateProvider, Err: errNotDelegator}
	}
	updater := delegator.Updater()
	if updater == nil {
		return &ConfigurationError{
			EntityType: typeName(e),
			Role:       RoleUpdateProvider,
			Err:        errors.New("delegator has a nil Updater"),
		}
	}

	for _, provider := range providers {
		if provider.Provide == nil {
			return &ConfigurationError{EntityType: typeName(e), Role: RoleUpdateProvider, Hook: provider.Name, Err: errMissingHookFunc}
		}

		var updatable Updatable
		err := protect(func() error {
			updatable = provider.Provide()
			return nil
		})
		if err != nil {
			return &ConfigurationError{EntityType: typeName(e), Role: RoleUpdateProvider, Hook: provider.Name, Err: err}
		}
		if updatable == nil {
			return &ConfigurationError{EntityType: typeName(e), Role: RoleUpdateProvider, Hook: provider.Name, Err: errNilUpdatable}
		}
		updater.AddUpdatable(updatable, provider.RunFirst)
	}
	return nil
}

func (p *LifecycleProcessor) implicitProviders(e Entity) []UpdateProvider {
	var providers []UpdateProvider

	if tc, ok := e.(TimerContainer); ok {
		for i, timer := range tc.Timers() {
			providers = append(providers, UpdateProvider{
				Name: fmt.Sprintf("Timers[%d]", i),
				Provide: func() Updatable {
					if timer == nil {
						return nil
					}
					return timer
				},
			})
		}
	}

	if w, ok := e.(BorderWatcher); ok {
		scene := p.scene
		providers = append(providers, UpdateProvider{
			Name: "WatchSceneBorders",
			Provide: func() Updatable {
				if scene == nil {
					panic(ErrNoScene)
				}
				return WatchSceneBorders(w, scene)
			},
		})
	}

	return providers
}

func runHooks(e Entity, role HookRole, hooks []Hook) error {
	for _, hook := range hooks {
		if hook.Run == nil {
			return &ConfigurationError{EntityType: typeName(e), Role: role, Hook: hook.Name, Err: errMissingHookFunc}
		}
		if err := protect(hook.Run); err != nil {
			return &ConfigurationError{EntityType: typeName(e), Role: role, Hook: hook.Name, Err: err}
		}
	}
	return nil
}
