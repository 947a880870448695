package ecs

import (
	"context"
	"reflect"
	"time"
)

// Stage orders systems within a frame. Lower stages run first.
type Stage int

const (
	StageInput Stage = iota
	StageCamera
	StageLevel
	StageStreaming
	StageUpdate
	StageVisuals
	StageOverlay
)

func (s Stage) String() string {
	switch s {
	case StageInput:
		return "input"
	case StageCamera:
		return "camera"
	case StageLevel:
		return "level"
	case StageStreaming:
		return "streaming"
	case StageUpdate:
		return "update"
	case StageVisuals:
		return "visuals"
	case StageOverlay:
		return "overlay"
	}
	return "unknown"
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	FrameCount      uint64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Stage          Stage
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type queryExecutor interface {
	Execute()
}

type storageInitializer interface {
	Init(storage *Storage)
}

type registeredSystem struct {
	system  System
	stage   Stage
	queries []queryExecutor
	stats   *systemStatsInternal
}

// Scheduler manages and executes systems in stage order.
type Scheduler struct {
	storage *Storage
	systems []*registeredSystem
	frame   uint64
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage: storage,
		systems: make([]*registeredSystem, 0),
	}
}

// Register adds a system to StageUpdate.
func (s *Scheduler) Register(system System) {
	s.RegisterStage(StageUpdate, system)
}

// RegisterStage adds a system to the given stage and initializes its Query
// and Singleton fields. Within a stage, registration order is kept.
func (s *Scheduler) RegisterStage(stage Stage, system System) {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	entry := &registeredSystem{
		system:  system,
		stage:   stage,
		queries: s.initializeFields(system),
		stats: &systemStatsInternal{
			name:        systemType.Name(),
			minDuration: time.Duration(1<<63 - 1),
		},
	}

	pos := len(s.systems)
	for i, existing := range s.systems {
		if existing.stage > stage {
			pos = i
			break
		}
	}
	s.systems = append(s.systems, nil)
	copy(s.systems[pos+1:], s.systems[pos:])
	s.systems[pos] = entry
}

// initializeFields calls Init on every field that wants a storage reference
// and collects the fields that must be executed before each run.
func (s *Scheduler) initializeFields(system System) []queryExecutor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct || !systemValue.CanAddr() {
		return nil
	}

	var queries []queryExecutor
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		addr := field.Addr().Interface()
		if init, ok := addr.(storageInitializer); ok {
			init.Init(s.storage)
		}
		if query, ok := addr.(queryExecutor); ok {
			queries = append(queries, query)
		}
	}
	return queries
}

// Once executes all registered systems once with the given delta time.
func (s *Scheduler) Once(dt float64) {
	s.frame++
	frame := newUpdateFrame(s.frame, dt, s.storage)

	for _, entry := range s.systems {
		start := time.Now()
		for _, query := range entry.queries {
			query.Execute()
		}
		entry.system.Execute(frame)
		duration := time.Since(start)

		stats := entry.stats
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	frame.Commands.Flush(s.storage)
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		FrameCount:  s.frame,
		Systems:     make([]SystemStats, len(s.systems)),
	}

	var totalExecs int64
	for i, entry := range s.systems {
		internal := entry.stats
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			Stage:          entry.stage,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
