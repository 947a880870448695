package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/internal/app"
	"github.com/plus3/mapview/markers"
	"github.com/plus3/mapview/tilemap"
	"github.com/plus3/mapview/viewer"
)

type viewCmd struct {
	mapType string
	debug   bool
}

func (c *viewCmd) Name() string     { return "view" }
func (c *viewCmd) Synopsis() string { return "open the map viewer window" }
func (c *viewCmd) Usage() string {
	return "mapview [-config <path>] view [-map <sky|surface|depths>] [-debug]\n"
}
func (c *viewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mapType, "map", "", "Initial map type, overrides map.initial")
	f.BoolVar(&c.debug, "debug", false, "Show the debug windows, overrides debug_display")
}

func (c *viewCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, logger, closer, err := setup()
	if err != nil {
		return fail(nil, err)
	}
	defer closer.Close()

	if c.mapType != "" {
		if _, err := tilemap.ParseMapType(c.mapType); err != nil {
			return fail(logger, err)
		}
		cfg.Map.Initial = c.mapType
	}
	cfg.DebugDisplay = cfg.DebugDisplay || c.debug

	source, sourceCloser, err := app.OpenSource(cfg.Assets)
	if err != nil {
		return fail(logger, err)
	}
	defer sourceCloser.Close()

	catalog, err := markers.LoadCatalog(source)
	if err != nil {
		return fail(logger, err)
	}

	loader := assets.NewLoader(source,
		assets.WithWorkers(cfg.Assets.Workers),
		assets.WithLogger(logger.WithField("component", "assets")))
	defer loader.Close()

	world := app.NewWorld(cfg, loader, catalog, logger)
	game, err := viewer.New(cfg, world, loader, logger)
	if err != nil {
		return fail(logger, err)
	}
	if err := game.Run(); err != nil {
		return fail(logger, err)
	}
	return subcommands.ExitSuccess
}
