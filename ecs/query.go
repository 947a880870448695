package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// Query matches entities holding a combination of components.
// The type T must be a struct whose fields are pointers to component types.
// Embedded fields are always required; named fields can be marked optional
// with the `ecs:"optional"` struct tag. A field of type EntityId receives the
// id of the matched entity.
//
// Results are snapshotted by Execute, which the Scheduler calls right before
// the owning system runs.
type Query[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	idOffsets   []uintptr

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a new Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("Query type parameter must be a struct")
	}

	q.storage = storage
	q.types = q.types[:0]
	q.optional = q.optional[:0]
	q.fieldOffset = q.fieldOffset[:0]
	q.idOffsets = q.idOffsets[:0]
	q.cacheValid = false

	required := 0
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			q.idOffsets = append(q.idOffsets, field.Offset)
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("Query struct fields must be pointer types or EntityId")
		}

		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}
		if !isOptional {
			required++
		}

		q.types = append(q.types, field.Type.Elem())
		q.optional = append(q.optional, isOptional)
		q.fieldOffset = append(q.fieldOffset, field.Offset)
	}

	if required == 0 {
		panic("Query struct must have at least one required component")
	}
}

// Execute snapshots the matching entities and component pointers for this frame.
func (q *Query[T]) Execute() {
	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]
	q.cacheValid = true

	driver := q.driverColumn()
	if driver == nil {
		return
	}

	for _, id := range driver.Owners() {
		var result T
		if !q.fill(id, unsafe.Pointer(&result)) {
			continue
		}
		q.cachedEntities = append(q.cachedEntities, id)
		q.cachedComponents = append(q.cachedComponents, result)
	}
}

// driverColumn picks the smallest required column, or nil if any required
// component has never been stored.
func (q *Query[T]) driverColumn() column {
	var driver column
	for i, typ := range q.types {
		if q.optional[i] {
			continue
		}
		col, ok := q.storage.columns[typ]
		if !ok || col.Len() == 0 {
			return nil
		}
		if driver == nil || col.Len() < driver.Len() {
			driver = col
		}
	}
	return driver
}

func (q *Query[T]) fill(id EntityId, resultPtr unsafe.Pointer) bool {
	for i, typ := range q.types {
		var ptr unsafe.Pointer
		if col, ok := q.storage.columns[typ]; ok {
			ptr = col.Pointer(id)
		}
		if ptr == nil && !q.optional[i] {
			return false
		}
		*(*unsafe.Pointer)(unsafe.Add(resultPtr, q.fieldOffset[i])) = ptr
	}
	for _, off := range q.idOffsets {
		*(*EntityId)(unsafe.Add(resultPtr, off)) = id
	}
	return true
}

// Get fills T for a single entity outside of the frame snapshot.
// Returns false if the entity is missing any required component.
func (q *Query[T]) Get(id EntityId) (T, bool) {
	var result T
	if !q.storage.Exists(id) {
		return result, false
	}
	ok := q.fill(id, unsafe.Pointer(&result))
	return result, ok
}

// Count returns the number of entities matched by the last Execute.
func (q *Query[T]) Count() int {
	return len(q.cachedEntities)
}

// Iter returns an iterator over entity IDs and component data.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.cacheValid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(EntityId, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute() has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("Query.Values() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}
