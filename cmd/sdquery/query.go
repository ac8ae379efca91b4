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
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-shardict/entry"
	"github.com/ianlewis/go-shardict/internal/config"
)

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "examples",
			Usage: "print usage examples",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "info",
			Usage: "print entry info such as etymology",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "strip-html",
			Usage: "convert markup in definitions to plain text",
		},
	}
}

func newQueryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "print the entries matching a term",
		ArgsUsage: "TERM...",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "normalized",
				Usage: "do not normalize TERM",
			},
		}, outputFlags()...),
		Action: runQuery,
	}
}

func newLookupCommand() *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "print the entries indexed under exactly WORD",
		ArgsUsage: "WORD...",
		Flags:     outputFlags(),
		Action:    runLookup,
	}
}

// formatOptions returns the entry format options from the configuration and
// command flags.
func formatOptions(c *cli.Context, cfg *config.Config) *entry.FormatOptions {
	opts := &entry.FormatOptions{
		Examples:  cfg.Output.Examples,
		Info:      cfg.Output.Info,
		StripHTML: cfg.Output.StripHTML,
	}
	if c.IsSet("examples") {
		opts.Examples = c.Bool("examples")
	}
	if c.IsSet("info") {
		opts.Info = c.Bool("info")
	}
	if c.IsSet("strip-html") {
		opts.StripHTML = c.Bool("strip-html")
	}
	return opts
}

// termArg returns the command arguments joined into a single term.
func termArg(c *cli.Context) (string, error) {
	if c.NArg() == 0 {
		return "", fmt.Errorf("%w: missing term", ErrFlagParse)
	}
	return strings.Join(c.Args().Slice(), " "), nil
}

func runQuery(c *cli.Context) error {
	term, err := termArg(c)
	if err != nil {
		return err
	}

	cfg := getConfig(c)
	logger := getLogger(c)
	opts := formatOptions(c, cfg)

	dicts, errs := loadDictionaries(c.Context, cfg, logger)
	for _, d := range dicts {
		r, err := d.Query(c.Context, term, c.Bool("normalized"))
		if err != nil {
			// Failures are isolated to a single dictionary.
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		if len(r.Entries) == 0 {
			logger.Info("no entries", "dict", d.Name(), "term", r.Term)
			continue
		}

		fmt.Fprintf(c.App.Writer, "== %s ==\n", d.Name())
		fmt.Fprintln(c.App.Writer, r.Format(opts))
	}

	return reportErrors(logger, errs)
}

func runLookup(c *cli.Context) error {
	word, err := termArg(c)
	if err != nil {
		return err
	}

	cfg := getConfig(c)
	logger := getLogger(c)
	opts := formatOptions(c, cfg)

	dicts, errs := loadDictionaries(c.Context, cfg, logger)
	for _, d := range dicts {
		entries, err := d.Lookup(c.Context, word)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		if len(entries) == 0 {
			continue
		}

		fmt.Fprintf(c.App.Writer, "== %s ==\n", d.Name())
		for _, e := range entries {
			fmt.Fprintln(c.App.Writer)
			fmt.Fprint(c.App.Writer, e.Format(opts))
		}
		fmt.Fprintln(c.App.Writer)
	}

	return reportErrors(logger, errs)
}
