package ecs_test

import "github.com/plus3/mapview/ecs"

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Name string

type Health struct {
	Current int
	Max     int
}

type Hidden struct{}

type Score int32

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Hidden](registry)
	ecs.RegisterComponent[Score](registry)
	return registry
}
