package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/plus3/mapview/internal/app"
	"github.com/plus3/mapview/tilemap"
)

type tilesCmd struct {
	mapType  string
	minLevel uint
	maxLevel uint
}

func (c *tilesCmd) Name() string     { return "tiles" }
func (c *tilesCmd) Synopsis() string { return "list tiles missing from the asset store" }
func (c *tilesCmd) Usage() string {
	return "mapview tiles [-map <type>] [-min <level>] [-max <level>]\n"
}
func (c *tilesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mapType, "map", tilemap.DefaultMapType.String(), "Map type to audit")
	f.UintVar(&c.minLevel, "min", uint(tilemap.MinLevel), "First level")
	f.UintVar(&c.maxLevel, "max", uint(tilemap.MaxLevel), "Last level")
}

func (c *tilesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, logger, closer, err := setup()
	if err != nil {
		return fail(nil, err)
	}
	defer closer.Close()

	mt, err := tilemap.ParseMapType(c.mapType)
	if err != nil {
		return fail(logger, err)
	}

	source, sourceCloser, err := app.OpenSource(cfg.Assets)
	if err != nil {
		return fail(logger, err)
	}
	defer sourceCloser.Close()

	report, err := app.AuditTiles(source, mt, tilemap.Level(c.minLevel), tilemap.Level(c.maxLevel))
	if err != nil {
		return fail(logger, err)
	}

	for _, key := range report.Missing {
		fmt.Fprintln(os.Stdout, key.Path())
	}
	for _, p := range report.Invalid {
		fmt.Fprintf(os.Stderr, "not a tile: %s\n", p)
	}
	fmt.Fprintf(os.Stderr, "%s: %d of %d tiles missing\n", mt, len(report.Missing), report.Expected)

	if len(report.Missing) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
