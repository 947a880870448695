package ecs

import (
	"reflect"
	"sort"

	"github.com/kamstrup/intmap"
)

// Storage owns every entity, component and singleton of one world.
// It is not safe for concurrent use; systems touch it from the frame loop only.
type Storage struct {
	registry   *ComponentRegistry
	columns    map[reflect.Type]column
	entities   *intmap.Map[EntityId, []reflect.Type]
	nextId     EntityId
	singletons map[reflect.Type]any
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		columns:    make(map[reflect.Type]column),
		entities:   intmap.New[EntityId, []reflect.Type](256),
		singletons: make(map[reflect.Type]any),
	}
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	s.nextId++
	id := s.nextId

	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		typ := componentType(comp)
		s.column(typ).Insert(id, comp)
		if !containsType(types, typ) {
			types = append(types, typ)
		}
	}
	s.entities.Put(id, types)
	return id
}

// Delete removes all data related to the entity ID. Unknown ids are ignored.
func (s *Storage) Delete(id EntityId) {
	types, ok := s.entities.Get(id)
	if !ok {
		return
	}
	for _, typ := range types {
		s.columns[typ].Remove(id)
	}
	s.entities.Del(id)
}

// AddComponent attaches (or overwrites) a component on an existing entity.
// Returns false if the entity does not exist.
func (s *Storage) AddComponent(id EntityId, component any) bool {
	types, ok := s.entities.Get(id)
	if !ok {
		return false
	}

	typ := componentType(component)
	s.column(typ).Insert(id, component)
	if !containsType(types, typ) {
		s.entities.Put(id, append(types, typ))
	}
	return true
}

// RemoveComponent detaches a component from an entity. An entity left with
// no components is deleted.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) {
	types, ok := s.entities.Get(id)
	if !ok {
		return
	}

	remaining := make([]reflect.Type, 0, len(types))
	for _, typ := range types {
		if typ == compType {
			s.columns[typ].Remove(id)
			continue
		}
		remaining = append(remaining, typ)
	}

	if len(remaining) == 0 {
		s.entities.Del(id)
		return
	}
	s.entities.Put(id, remaining)
}

// GetComponent returns a pointer to the component for the given entity ID and
// component type, or nil.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	col, ok := s.columns[compType]
	if !ok {
		return nil
	}
	return col.Get(id)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	col, ok := s.columns[compType]
	if !ok {
		return false
	}
	return col.Has(id)
}

// Exists reports whether the entity is alive.
func (s *Storage) Exists(id EntityId) bool {
	_, ok := s.entities.Get(id)
	return ok
}

// EntityCount returns the number of live entities.
func (s *Storage) EntityCount() int {
	return s.entities.Len()
}

// AddSingleton stores a global value that is not attached to any entity.
// A pointer passed for a new type is kept as-is; a value is copied.
// Adding a value of a type that already exists overwrites it in place, so
// pointers previously returned for that singleton stay valid.
func (s *Storage) AddSingleton(value any) {
	typ := componentType(value)
	if existing, ok := s.singletons[typ]; ok {
		reflect.ValueOf(existing).Elem().Set(reflect.Indirect(reflect.ValueOf(value)))
		return
	}

	if reflect.TypeOf(value).Kind() == reflect.Ptr {
		s.singletons[typ] = value
		return
	}

	ptr := reflect.New(typ)
	ptr.Elem().Set(reflect.Indirect(reflect.ValueOf(value)))
	s.singletons[typ] = ptr.Interface()
}

// ReadSingleton sets *out to the stored singleton, where out is a **T.
// Returns false (leaving *out untouched) if no singleton of type T exists.
func (s *Storage) ReadSingleton(out any) bool {
	outValue := reflect.ValueOf(out)
	if outValue.Kind() != reflect.Ptr || outValue.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton expects a pointer to a pointer")
	}

	value, ok := s.singletons[outValue.Elem().Type().Elem()]
	if !ok {
		return false
	}
	outValue.Elem().Set(reflect.ValueOf(value))
	return true
}

func (s *Storage) getSingleton(typ reflect.Type) any {
	return s.singletons[typ]
}

// StorageStats is a point-in-time summary of a Storage, used by debug views
// and the stress report.
type StorageStats struct {
	TotalEntityCount int
	ComponentCount   int
	SingletonCount   int
	SingletonTypes   []string
	Components       []ComponentStats
}

// ComponentStats counts the live instances of one component type.
type ComponentStats struct {
	Name  string
	Count int
}

// CollectStats walks the storage and summarises it. Output is sorted by name.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		TotalEntityCount: s.entities.Len(),
		SingletonCount:   len(s.singletons),
	}

	for typ, col := range s.columns {
		if col.Len() == 0 {
			continue
		}
		stats.Components = append(stats.Components, ComponentStats{
			Name:  typ.String(),
			Count: col.Len(),
		})
	}
	sort.Slice(stats.Components, func(i, j int) bool {
		return stats.Components[i].Name < stats.Components[j].Name
	})
	stats.ComponentCount = len(stats.Components)

	for typ := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, typ.String())
	}
	sort.Strings(stats.SingletonTypes)

	return stats
}

func (s *Storage) column(typ reflect.Type) column {
	if col, ok := s.columns[typ]; ok {
		return col
	}

	factory := s.registry.getFactory(typ)
	if factory == nil {
		panic("component type " + typ.String() + " not registered")
	}
	col := factory()
	s.columns[typ] = col
	return col
}

// componentType resolves the stored type of a component value. Components can
// be structs or primitives passed by value or by pointer.
func componentType(comp any) reflect.Type {
	compType := reflect.TypeOf(comp)
	if compType == nil {
		panic("component cannot be nil")
	}
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}

	switch compType.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return compType
}

func containsType(types []reflect.Type, typ reflect.Type) bool {
	for _, t := range types {
		if t == typ {
			return true
		}
	}
	return false
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the typed component of an entity, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	value, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return value
}
