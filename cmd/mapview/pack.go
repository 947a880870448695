package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"

	"github.com/plus3/mapview/assets"
)

type packCmd struct {
	dir    string
	output string
}

func (c *packCmd) Name() string     { return "pack" }
func (c *packCmd) Synopsis() string { return "pack an asset directory into an sqlite bundle" }
func (c *packCmd) Usage() string {
	return "mapview pack -d <dir> -o <path>\n"
}
func (c *packCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "d", "", "Asset directory (defaults to assets.dir)")
	f.StringVar(&c.output, "o", "", "Output bundle path")
}

func (c *packCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, logger, closer, err := setup()
	if err != nil {
		return fail(nil, err)
	}
	defer closer.Close()

	if c.output == "" {
		return fail(logger, fmt.Errorf("pack: -o is required"))
	}
	dir := c.dir
	if dir == "" {
		dir = cfg.Assets.Dir
	}

	writer, err := assets.CreateBundle(c.output, assets.WithWriterLogger(logger))
	if err != nil {
		return fail(logger, err)
	}
	defer writer.Close()

	bar := progressbar.DefaultBytes(-1, "packing")
	count, err := assets.PackDir(os.DirFS(dir), writer, func(_ string, size int) {
		bar.Add(size)
	})
	if err != nil {
		return fail(logger, err)
	}
	bar.Finish()
	fmt.Println()

	if err := writer.Finalize(); err != nil {
		return fail(logger, err)
	}
	logger.WithField("assets", count).WithField("bundle", c.output).Info("bundle written")
	return subcommands.ExitSuccess
}
