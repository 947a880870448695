// Package app assembles the frame pipeline shared by the viewer, the stress
// run and tests.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/internal/config"
	"github.com/plus3/mapview/internal/logging"
	"github.com/plus3/mapview/markers"
	"github.com/plus3/mapview/tilemap"
)

type World struct {
	// Registry accepts further component types after construction, for
	// front ends that add their own.
	Registry  *ecs.ComponentRegistry
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	Cache     *tilemap.TileCache
	Catalog   *markers.Catalog

	logger logrus.FieldLogger
}

// NewWorld registers every component, installs the singletons and wires the
// systems in stage order.
func NewWorld(cfg config.Config, loader tilemap.Loader, catalog *markers.Catalog, logger logrus.FieldLogger) *World {
	logger = logging.OrDiscard(logger)

	registry := ecs.NewComponentRegistry()
	tilemap.RegisterComponents(registry)
	markers.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	cache := tilemap.NewTileCache(loader, logger.WithField("component", "tiles"))
	tilemap.InstallState(storage, cfg.CameraState(), cfg.MapType(), cache)
	markers.InstallState(storage)

	scheduler := ecs.NewScheduler(storage)
	tilemap.RegisterPipeline(scheduler, logger)
	markers.RegisterSystems(scheduler, catalog, loader, logger.WithField("component", "markers"))

	return &World{
		Registry:  registry,
		Storage:   storage,
		Scheduler: scheduler,
		Cache:     cache,
		Catalog:   catalog,
		logger:    logger,
	}
}

func (w *World) Camera() *tilemap.CameraState {
	return singleton[tilemap.CameraState](w.Storage)
}

func (w *World) Input() *tilemap.InputState {
	return singleton[tilemap.InputState](w.Storage)
}

func (w *World) Level() *tilemap.CurrentLevel {
	return singleton[tilemap.CurrentLevel](w.Storage)
}

func (w *World) MapType() tilemap.MapType {
	return singleton[tilemap.CurrentMapType](w.Storage).Type
}

func (w *World) Displayed() *markers.DisplayedSet {
	return singleton[markers.DisplayedSet](w.Storage)
}

func (w *World) Focused() *markers.Focused {
	return singleton[markers.Focused](w.Storage)
}

// SwitchMap changes the displayed layer and resets the marker filter to
// that layer's locations.
func (w *World) SwitchMap(mt tilemap.MapType) {
	current := singleton[tilemap.CurrentMapType](w.Storage)
	if current.Type == mt {
		return
	}
	current.Type = mt
	w.Displayed().Reset(w.Catalog.LocationNames(mt))
	w.logger.WithField("map", mt).Info("map switched")
}

func singleton[T any](storage *ecs.Storage) *T {
	var ptr *T
	if !storage.ReadSingleton(&ptr) {
		panic(fmt.Sprintf("app: singleton %T not installed", ptr))
	}
	return ptr
}

// OpenSource opens the configured bundle, or the asset directory when no
// bundle is set.
func OpenSource(cfg config.AssetsConfig) (assets.Source, io.Closer, error) {
	if cfg.Bundle != "" {
		bundle, err := assets.OpenBundle(cfg.Bundle)
		if err != nil {
			return nil, nil, err
		}
		return bundle, bundle, nil
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("assets dir: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("assets dir %s is not a directory", cfg.Dir)
	}
	return assets.NewDirSource(os.DirFS(cfg.Dir)), closerFunc(func() error { return nil }), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
