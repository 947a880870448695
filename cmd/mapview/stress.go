package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/internal/app"
	"github.com/plus3/mapview/markers"
	"github.com/plus3/mapview/tilemap"
)

type stressCmd struct {
	duration       time.Duration
	period         uint64
	realAssets     bool
	gcPauseMetrics bool
}

func (c *stressCmd) Name() string     { return "stress" }
func (c *stressCmd) Synopsis() string { return "run the frame pipeline headless with scripted input" }
func (c *stressCmd) Usage() string {
	return "mapview stress [-duration <d>] [-period <frames>] [-assets] [-gc-pause-metrics]\n"
}
func (c *stressCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.duration, "duration", 10*time.Second, "The total duration the test should run for.")
	f.Uint64Var(&c.period, "period", 120, "Frames per drag cycle of the scripted input.")
	f.BoolVar(&c.realAssets, "assets", false, "Load the configured assets instead of generated ones.")
	f.BoolVar(&c.gcPauseMetrics, "gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
}

func (c *stressCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, logger, closer, err := setup()
	if err != nil {
		return fail(nil, err)
	}
	defer closer.Close()

	var source assets.Source = newSyntheticSource()
	if c.realAssets {
		dirSource, sourceCloser, err := app.OpenSource(cfg.Assets)
		if err != nil {
			return fail(logger, err)
		}
		defer sourceCloser.Close()
		source = dirSource
	}

	catalog, err := markers.LoadCatalog(source)
	if err != nil {
		return fail(logger, err)
	}
	loader := assets.NewLoader(source,
		assets.WithWorkers(cfg.Assets.Workers),
		assets.WithLogger(logger.WithField("component", "assets")))
	defer loader.Close()

	world := app.NewWorld(cfg, loader, catalog, logger)
	window := tilemap.Vec2{X: float64(cfg.Window.Width), Y: float64(cfg.Window.Height)}
	world.Scheduler.RegisterStage(ecs.StageInput, &app.SyntheticDriver{Window: window, Period: c.period})

	report := &Report{
		Duration:       c.duration,
		Window:         window,
		Synthetic:      !c.realAssets,
		GCPauseMetrics: c.gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.WithField("duration", c.duration).Info("running stress test")
	runCtx, cancel := context.WithTimeout(ctx, c.duration)
	defer cancel()

	bar := progressbar.New(max(int(c.duration/time.Second), 1))
	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-runCtx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			world.Scheduler.Once(deltaTime.Seconds())
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++

			bar.Set(int(time.Since(startTime) / time.Second))
		}
	}
	bar.Finish()
	fmt.Println()

	loader.Wait()
	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Tiles = world.Cache.LevelCounts()
	report.Assets = loader.Stats()
	report.Storage = world.Storage.CollectStats()
	report.Scheduler = world.Scheduler.GetStats()
	report.Camera = *world.Camera()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if err := report.Generate(os.Stdout); err != nil {
		return fail(logger, err)
	}
	return subcommands.ExitSuccess
}

// syntheticSource serves a small image for every tile or icon and an empty
// catalogue, so the pipeline can run without an asset store.
type syntheticSource struct {
	image []byte
}

func newSyntheticSource() *syntheticSource {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 16, 16))); err != nil {
		panic(err)
	}
	return &syntheticSource{image: buf.Bytes()}
}

func (s *syntheticSource) ReadAsset(name string) ([]byte, error) {
	switch {
	case strings.HasPrefix(name, "markers/"):
		return []byte("[]"), nil
	case strings.HasPrefix(name, "tiles/"), strings.HasPrefix(name, "icons/"):
		return s.image, nil
	}
	return nil, fmt.Errorf("%w: %s", assets.ErrNotFound, name)
}
