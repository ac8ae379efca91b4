// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-shardict/internal/config"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError

	// ExitCodeDictionaryError is the exit code when one or more dictionaries
	// could not be loaded or queried.
	ExitCodeDictionaryError
)

// ErrSdquery is a parent error for all command errors.
var ErrSdquery = errors.New("sdquery")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrSdquery)

// ErrUnsupported indicates a feature is unsupported.
var ErrUnsupported = fmt.Errorf("%w: unsupported", ErrSdquery)

// ErrDictionary indicates that one or more dictionaries failed.
var ErrDictionary = fmt.Errorf("%w: dictionary error", ErrSdquery)

var copyrightNames = []string{
	"2021 Google LLC",
	"2024 Ian Lewis",
}

const (
	metaConfig = "config"
	metaLogger = "logger"
)

//nolint:gochecknoinits // init needed needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// but we don't use commands.
	//
	// This is done because `sdquery --help foo` will display a
	// "command foo not found" error instead of the help.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

// loadConfig reads the configuration file named by the --config flag. The
// default file is optional; a file named explicitly must exist.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		return config.Default(), nil
	}
	if !c.IsSet("config") {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFlagParse, err)
	}
	return cfg, nil
}

// newLogger returns a logger writing to w at the given level.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level %q: %w", ErrFlagParse, level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          filepath.Base(os.Args[0]),
		Level:           lvl,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
	}), nil
}

// before loads the configuration and sets up logging before any command
// runs. Flags override values from the configuration file.
func before(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if c.IsSet("dict") {
		cfg.Dictionaries = nil
		for _, loc := range c.StringSlice("dict") {
			cfg.Dictionaries = append(cfg.Dictionaries, config.Dictionary{Location: loc})
		}
	}
	if c.IsSet("layout") || c.IsSet("shard-cache-size") {
		for i := range cfg.Dictionaries {
			if c.IsSet("layout") {
				cfg.Dictionaries[i].Layout = c.String("layout")
			}
			if c.IsSet("shard-cache-size") {
				cfg.Dictionaries[i].ShardCacheSize = c.Int("shard-cache-size")
			}
		}
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrFlagParse, err)
	}

	logger, err := newLogger(c.App.ErrWriter, cfg.Log.Level)
	if err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[metaConfig] = cfg
	c.App.Metadata[metaLogger] = logger
	return nil
}

// getConfig returns the configuration loaded before the command ran.
func getConfig(c *cli.Context) *config.Config {
	cfg, _ := c.App.Metadata[metaConfig].(*config.Config)
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg
}

// getLogger returns the logger created before the command ran.
func getLogger(c *cli.Context) *log.Logger {
	logger, _ := c.App.Metadata[metaLogger].(*log.Logger)
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return logger
}

func newSdqueryApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Search sharded dictionaries.",
		Description: strings.Join([]string{
			"Sharded dictionary utility written in Go.",
			"Dictionaries are read from local directories, http(s) URLs,",
			"minio://host/bucket/prefix, or s3://bucket/prefix locations.",
			"http://github.com/ianlewis/go-shardict",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "dict",
				Usage:   "read the dictionary at `LOCATION`",
				Aliases: []string{"d"},
				EnvVars: []string{"SHARDICT_DICT"},
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "read configuration from `FILE`",
				Aliases: []string{"c"},
				EnvVars: []string{"SHARDICT_CONFIG"},
				Value:   configLocation(),
			},
			&cli.StringFlag{
				Name:    "layout",
				Usage:   "shard offset table `LAYOUT` (sentinel or implicit)",
				EnvVars: []string{"SHARDICT_LAYOUT"},
			},
			&cli.IntFlag{
				Name:    "shard-cache-size",
				Usage:   "keep at most `N` shards in memory per dictionary",
				EnvVars: []string{"SHARDICT_SHARD_CACHE_SIZE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log messages at `LEVEL` and above",
				EnvVars: []string{"SHARDICT_LOG_LEVEL"},
				Value:   "warn",
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		Before:          before,
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}

			check(cli.ShowAppHelp(c))
			return nil
		},
		Commands: []*cli.Command{
			newQueryCommand(),
			newLookupCommand(),
			newCompleteCommand(),
			newNormalizeCommand(),
			newInfoCommand(),
		},
	}
}
