package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/mapview/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsAreDeferredUntilFlush(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var spawned ecs.EntityId
	scheduler.Register(systemFunc(func(frame *ecs.UpdateFrame) {
		if frame.Frame != 1 {
			return
		}
		frame.Commands.SpawnThen(func(id ecs.EntityId) { spawned = id }, &Position{X: 1})
		assert.True(t, frame.Commands.Pending())
		assert.Equal(t, 0, frame.Storage.EntityCount())
	}))

	scheduler.Once(0.016)
	require.True(t, spawned.Valid())
	assert.Equal(t, 1, storage.EntityCount())
	assert.Equal(t, 1.0, ecs.ReadComponent[Position](storage, spawned).X)
}

func TestCommandsFlushOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	doomed := storage.Spawn(&Position{}, &Velocity{})
	kept := storage.Spawn(&Position{}, &Velocity{})

	var order []string
	cmds := ecs.NewCommands()
	cmds.Defer(func() { order = append(order, "defer") })
	cmds.SpawnThen(func(ecs.EntityId) { order = append(order, "spawn") }, &Position{})
	cmds.AddComponent(doomed, Name("ignored"))
	cmds.AddComponent(kept, Name("kept"))
	cmds.RemoveComponent(kept, reflect.TypeFor[Velocity]())
	cmds.Delete(doomed)
	cmds.Flush(storage)

	assert.Equal(t, []string{"spawn", "defer"}, order)
	assert.False(t, storage.Exists(doomed))
	assert.Equal(t, Name("kept"), *ecs.ReadComponent[Name](storage, kept))
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, kept))
	assert.False(t, cmds.Pending())
}

func TestCommandsReset(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	cmds := ecs.NewCommands()
	cmds.Spawn(&Position{})
	cmds.Flush(storage)
	cmds.Flush(storage)

	assert.Equal(t, 1, storage.EntityCount())
}
