package ecs

import (
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// column stores every instance of one component type, keyed by entity.
type column interface {
	Type() reflect.Type
	Insert(id EntityId, item any) bool
	Remove(id EntityId)
	Get(id EntityId) any
	Pointer(id EntityId) unsafe.Pointer
	Has(id EntityId) bool
	Len() int
	Owners() []EntityId
}

// typedColumn keeps components densely packed; removal swaps the last
// element into the freed slot. Components are heap allocated individually so
// pointers handed to systems stay valid while the entity keeps the component.
type typedColumn[T any] struct {
	typ   reflect.Type
	items []*T
	owner []EntityId
	index *intmap.Map[EntityId, int]
}

func newTypedColumn[T any]() *typedColumn[T] {
	return &typedColumn[T]{
		typ:   reflect.TypeFor[T](),
		index: intmap.New[EntityId, int](64),
	}
}

func (c *typedColumn[T]) Type() reflect.Type {
	return c.typ
}

// Insert stores a copy of item for the entity, replacing any previous value.
// Returns false if item is neither T nor *T.
func (c *typedColumn[T]) Insert(id EntityId, item any) bool {
	var value T
	if ptr, ok := item.(*T); ok {
		value = *ptr
	} else if val, ok := item.(T); ok {
		value = val
	} else {
		return false
	}

	if pos, ok := c.index.Get(id); ok {
		*c.items[pos] = value
		return true
	}

	c.index.Put(id, len(c.items))
	c.items = append(c.items, &value)
	c.owner = append(c.owner, id)
	return true
}

func (c *typedColumn[T]) Remove(id EntityId) {
	pos, ok := c.index.Get(id)
	if !ok {
		return
	}

	last := len(c.items) - 1
	if pos != last {
		c.items[pos] = c.items[last]
		c.owner[pos] = c.owner[last]
		c.index.Put(c.owner[pos], pos)
	}
	c.items[last] = nil
	c.items = c.items[:last]
	c.owner = c.owner[:last]
	c.index.Del(id)
}

// Get returns *T, or an untyped nil when the entity has no such component.
func (c *typedColumn[T]) Get(id EntityId) any {
	pos, ok := c.index.Get(id)
	if !ok {
		return nil
	}
	return c.items[pos]
}

func (c *typedColumn[T]) Pointer(id EntityId) unsafe.Pointer {
	pos, ok := c.index.Get(id)
	if !ok {
		return nil
	}
	return unsafe.Pointer(c.items[pos])
}

func (c *typedColumn[T]) Has(id EntityId) bool {
	_, ok := c.index.Get(id)
	return ok
}

func (c *typedColumn[T]) Len() int {
	return len(c.items)
}

// Owners returns the live entity ids in storage order. The slice is shared;
// callers must not hold it across structural changes.
func (c *typedColumn[T]) Owners() []EntityId {
	return c.owner
}
