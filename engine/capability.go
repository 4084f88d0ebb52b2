package engine

import (
	"reflect"
	"strings"
)

// Capability is a bitset of the optional behaviors an entity type exposes.
type Capability uint16

const (
	CapUpdatable Capability = 1 << iota
	CapUpdateDelegator
	CapCollider
	CapCollided
	CapKeyListener
	CapInitializable
	CapActivatable
	CapPostActivatable
	CapUpdateProviding
	CapTimerContainer
	CapBorderWatcher
	CapRemovable
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapUpdatable, "updatable"},
	{CapUpdateDelegator, "update-delegator"},
	{CapCollider, "collider"},
	{CapCollided, "collided"},
	{CapKeyListener, "key-listener"},
	{CapInitializable, "initializable"},
	{CapActivatable, "activatable"},
	{CapPostActivatable, "post-activatable"},
	{CapUpdateProviding, "update-providing"},
	{CapTimerContainer, "timer-container"},
	{CapBorderWatcher, "border-watcher"},
	{CapRemovable, "removable"},
}

// Has reports whether every bit of o is set in c.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// Static reports whether an entity with these capabilities is never updated.
func (c Capability) Static() bool {
	return !c.Has(CapUpdatable)
}

func (c Capability) String() string {
	if c == 0 {
		return "static"
	}
	var parts []string
	for _, n := range capabilityNames {
		if c.Has(n.cap) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// capabilityTable caches the capability set of each concrete entity type so
// that type assertions run once per type rather than once per entity.
type capabilityTable struct {
	byType map[reflect.Type]Capability
}

func newCapabilityTable() *capabilityTable {
	return &capabilityTable{
		byType: make(map[reflect.Type]Capability),
	}
}

func (t *capabilityTable) lookup(e Entity) Capability {
	typ := reflect.TypeOf(e)
	if caps, ok := t.byType[typ]; ok {
		return caps
	}
	caps := detectCapabilities(e)
	t.byType[typ] = caps
	return caps
}

func detectCapabilities(e Entity) Capability {
	var caps Capability
	if _, ok := e.(Updatable); ok {
		caps |= CapUpdatable
	}
	if _, ok := e.(UpdateDelegator); ok {
		caps |= CapUpdateDelegator
	}
	if _, ok := e.(Collider); ok {
		caps |= CapCollider
	}
	if _, ok := e.(Collided); ok {
		caps |= CapCollided
	}
	if _, ok := e.(KeyListener); ok {
		caps |= CapKeyListener
	}
	if _, ok := e.(Initializable); ok {
		caps |= CapInitializable
	}
	if _, ok := e.(Activatable); ok {
		caps |= CapActivatable
	}
	if _, ok := e.(PostActivatable); ok {
		caps |= CapPostActivatable
	}
	if _, ok := e.(UpdateProviding); ok {
		caps |= CapUpdateProviding
	}
	if _, ok := e.(TimerContainer); ok {
		caps |= CapTimerContainer
	}
	if _, ok := e.(BorderWatcher); ok {
		caps |= CapBorderWatcher
	}
	if _, ok := e.(Removable); ok {
		caps |= CapRemovable
	}
	return caps
}
