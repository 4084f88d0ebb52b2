package debugui

import (
	"reflect"
	"sync"

	"github.com/plus3/sprout/engine"
)

// FieldInfo describes one field the inspector can show.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	Embedded  bool
	IsPointer bool
	IsStruct  bool
}

// TypeInfo is what the panels need to know about a concrete entity type.
type TypeInfo struct {
	Name   string
	Fields []FieldInfo
}

// ReflectionCache describes entity types and capability sets once, so the
// browser does not reflect over every entity on every frame.
type ReflectionCache struct {
	mu     sync.RWMutex
	types  map[reflect.Type]TypeInfo
	labels map[engine.Capability]string
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		types:  make(map[reflect.Type]TypeInfo),
		labels: make(map[engine.Capability]string),
	}
}

// Describe returns the type name and fields of the struct behind entity.
func (rc *ReflectionCache) Describe(entity engine.Entity) TypeInfo {
	t := reflect.TypeOf(entity)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return rc.describe(t)
}

// GetFields returns the exported fields of t. Embedded bodies are listed even
// when their type is unexported.
func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	return rc.describe(t).Fields
}

// Label returns the printable form of caps.
func (rc *ReflectionCache) Label(caps engine.Capability) string {
	rc.mu.RLock()
	label, ok := rc.labels[caps]
	rc.mu.RUnlock()
	if ok {
		return label
	}

	label = caps.String()
	rc.mu.Lock()
	rc.labels[caps] = label
	rc.mu.Unlock()
	return label
}

func (rc *ReflectionCache) describe(t reflect.Type) TypeInfo {
	rc.mu.RLock()
	info, ok := rc.types[t]
	rc.mu.RUnlock()
	if ok {
		return info
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if info, ok := rc.types[t]; ok {
		return info
	}

	info = TypeInfo{Name: t.Name(), Fields: entityFields(t)}
	if info.Name == "" {
		info.Name = t.String()
	}
	rc.types[t] = info
	return info
}

func entityFields(t reflect.Type) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var fields []FieldInfo
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() && !field.Anonymous {
			continue
		}
		ft := field.Type
		isPointer := ft.Kind() == reflect.Pointer
		if isPointer {
			ft = ft.Elem()
		}
		fields = append(fields, FieldInfo{
			Name:      field.Name,
			Type:      ft,
			Index:     i,
			Embedded:  field.Anonymous,
			IsPointer: isPointer,
			IsStruct:  ft.Kind() == reflect.Struct,
		})
	}
	return fields
}

// Len returns the number of described types.
func (rc *ReflectionCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.types)
}

var globalReflectionCache = NewReflectionCache()
