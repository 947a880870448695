package ecs_test

import (
	"fmt"

	"github.com/plus3/mapview/ecs"
)

type Zoom struct {
	Scale float64
}

type zoomSystem struct {
	Zoom ecs.Singleton[Zoom]
}

func (s *zoomSystem) Execute(frame *ecs.UpdateFrame) {
	s.Zoom.Get().Scale /= 2
}

type reportSystem struct {
	Zoom ecs.Singleton[Zoom]
}

func (s *reportSystem) Execute(frame *ecs.UpdateFrame) {
	fmt.Printf("frame %d: scale %.2f\n", frame.Frame, s.Zoom.Get().Scale)
}

// ExampleScheduler shows stages running in order regardless of registration
// order, with singletons shared between systems.
func ExampleScheduler() {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	ecs.NewSingleton(storage, Zoom{Scale: 8})

	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStage(ecs.StageOverlay, &reportSystem{})
	scheduler.RegisterStage(ecs.StageCamera, &zoomSystem{})

	scheduler.Once(0.016)
	scheduler.Once(0.016)

	// Output:
	// frame 1: scale 4.00
	// frame 2: scale 2.00
}

// ExampleCommands_SpawnThen shows deferred spawning with a callback that
// receives the new entity id once the frame is flushed.
func ExampleCommands_SpawnThen() {
	storage := ecs.NewStorage(newTestRegistry())

	cmds := ecs.NewCommands()
	cmds.SpawnThen(func(id ecs.EntityId) {
		fmt.Println("spawned", id)
	}, &Position{X: 1}, Name("tile"))

	fmt.Println("before flush:", storage.EntityCount())
	cmds.Flush(storage)
	fmt.Println("after flush:", storage.EntityCount())

	// Output:
	// before flush: 0
	// spawned 1
	// after flush: 1
}

// ExampleNewSingleton demonstrates that every accessor for a type shares the
// same stored value.
func ExampleNewSingleton() {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())

	first := ecs.NewSingleton(storage, Zoom{Scale: 20})
	second := ecs.NewSingleton[Zoom](storage)
	second.Get().Scale = 3

	fmt.Println(first.Get().Scale)
	first.Set(Zoom{Scale: 7})
	fmt.Println(second.Get().Scale)

	// Output:
	// 3
	// 7
}
