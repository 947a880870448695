package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/plus3/mapview/internal/config"
	"github.com/plus3/mapview/internal/logging"
)

var (
	configPath = flag.String("config", "", "Config file path (yaml, toml or json)")
	dumpConfig = flag.Bool("dump-config", false, "Print the resolved config before running")
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&viewCmd{}, "")
	subcommands.Register(&stressCmd{}, "")
	subcommands.Register(&packCmd{}, "")
	subcommands.Register(&tilesCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// setup resolves the config and builds the logger every command shares.
func setup() (config.Config, *logrus.Logger, io.Closer, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	if *dumpConfig {
		spew.Fdump(os.Stderr, cfg)
	}

	logger, closer, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("logging: %w", err)
	}
	return cfg, logger, closer, nil
}

func fail(logger logrus.FieldLogger, err error) subcommands.ExitStatus {
	if logger == nil {
		fmt.Fprintln(os.Stderr, err)
	} else {
		logger.WithError(err).Error("command failed")
	}
	return subcommands.ExitFailure
}
