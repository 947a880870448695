package ecs

import "reflect"

// Singleton provides typed access to a single value that is not associated
// with any entity. Use this for camera state, input, configuration and other
// world-wide data.
type Singleton[T any] struct {
	storage *Storage
	ptr     *T
}

// NewSingleton creates a new Singleton accessor for the given storage.
// If the singleton does not exist yet it is created from initializer, or
// the zero value. This guarantees the singleton exists after the call.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	s := &Singleton[T]{storage: storage}
	if !storage.ReadSingleton(&s.ptr) {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(&value)
		storage.ReadSingleton(&s.ptr)
	}
	return s
}

// Init initializes the Singleton with a storage reference.
// This is called automatically by the Scheduler during system registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.ptr = nil
	s.refresh()
}

// Get returns a pointer to the singleton value, or nil if it has not been
// added to storage.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil {
		s.refresh()
	}
	return s.ptr
}

// Exists returns true if the singleton has been added to storage
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

// Set overwrites the singleton value, creating it if needed.
func (s *Singleton[T]) Set(value T) {
	s.storage.AddSingleton(&value)
	s.refresh()
}

func (s *Singleton[T]) refresh() {
	if s.storage == nil {
		return
	}
	if value, ok := s.storage.getSingleton(reflect.TypeFor[T]()).(*T); ok {
		s.ptr = value
	}
}
