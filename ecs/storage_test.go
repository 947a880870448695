package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/mapview/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnAssignsSequentialIds(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id1 := storage.Spawn(&Position{X: 1, Y: 2})
	id2 := storage.Spawn(Name("b"))
	assert.Equal(t, ecs.EntityId(1), id1)
	assert.Equal(t, ecs.EntityId(2), id2)
	assert.True(t, id1.Valid())
	assert.False(t, ecs.EntityId(0).Valid())
	assert.Equal(t, 2, storage.EntityCount())
}

func TestIdsAreNeverReused(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id1 := storage.Spawn(&Position{})
	storage.Delete(id1)
	id2 := storage.Spawn(&Position{})

	assert.NotEqual(t, id1, id2)
	assert.False(t, storage.Exists(id1))
	assert.Nil(t, storage.GetComponent(id1, reflect.TypeFor[Position]()))
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() })
	assert.Panics(t, func() { storage.Spawn(struct{ A int }{}) }, "unregistered component")
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) })
}

func TestGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3, Y: 4}, Name("tile"))

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, Position{X: 3, Y: 4}, *pos)

	name := storage.GetComponent(id, reflect.TypeFor[Name]()).(*Name)
	assert.Equal(t, Name("tile"), *name)

	assert.Nil(t, storage.GetComponent(id, reflect.TypeFor[Velocity]()))
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.True(t, storage.HasComponent(id, reflect.TypeFor[Position]()))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Health]()))
}

func TestComponentPointersSurviveOtherDeletes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(&Position{X: 1})
	second := storage.Spawn(&Position{X: 2})
	third := storage.Spawn(&Position{X: 3})

	pos := ecs.ReadComponent[Position](storage, third)
	storage.Delete(first)
	pos.X = 30

	assert.Equal(t, 30.0, ecs.ReadComponent[Position](storage, third).X)
	assert.Equal(t, 2.0, ecs.ReadComponent[Position](storage, second).X)
}

func TestAddComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 1})
	assert.True(t, storage.AddComponent(id, &Velocity{DX: 2}))
	assert.True(t, storage.AddComponent(id, Velocity{DX: 5}), "overwrite by value")

	assert.Equal(t, 5.0, ecs.ReadComponent[Velocity](storage, id).DX)
	assert.Equal(t, 1.0, ecs.ReadComponent[Position](storage, id).X)
	assert.False(t, storage.AddComponent(ecs.EntityId(99), &Velocity{}))
}

func TestRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{}, &Velocity{})
	storage.RemoveComponent(id, reflect.TypeFor[Velocity]())
	assert.True(t, storage.Exists(id))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Velocity]()))

	storage.RemoveComponent(id, reflect.TypeFor[Position]())
	assert.False(t, storage.Exists(id), "entity without components is deleted")
	assert.Equal(t, 0, storage.EntityCount())
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(&Position{})

	storage.Delete(ecs.EntityId(42))
	assert.Equal(t, 1, storage.EntityCount())
}

func TestSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var health *Health
	assert.False(t, storage.ReadSingleton(&health))

	storage.AddSingleton(Health{Current: 5, Max: 10})
	require.True(t, storage.ReadSingleton(&health))
	assert.Equal(t, 5, health.Current)

	storage.AddSingleton(&Health{Current: 7, Max: 10})
	assert.Equal(t, 7, health.Current, "replacing keeps the pointer stable")

	assert.Panics(t, func() { storage.ReadSingleton(health) })
}

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Equal(t, 0, stats.TotalEntityCount)
	assert.Equal(t, 0, stats.ComponentCount)
	assert.Equal(t, 0, stats.SingletonCount)

	storage.Spawn(&Position{}, Name("a"))
	storage.Spawn(&Position{}, Name("b"))
	storage.Spawn(&Velocity{})
	ecs.NewSingleton[Score](storage, 3)
	ecs.NewSingleton[Health](storage)

	stats = storage.CollectStats()
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 3, stats.ComponentCount)
	assert.Equal(t, 2, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Health", "ecs_test.Score"}, stats.SingletonTypes)
	assert.Equal(t, []ecs.ComponentStats{
		{Name: "ecs_test.Name", Count: 2},
		{Name: "ecs_test.Position", Count: 2},
		{Name: "ecs_test.Velocity", Count: 1},
	}, stats.Components)
}
