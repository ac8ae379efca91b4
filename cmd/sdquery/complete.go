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
	"cmp"
	"fmt"
	"slices"

	"github.com/urfave/cli/v2"
)

func newCompleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "print index terms starting with PREFIX",
		ArgsUsage: "PREFIX...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Usage:   "print at most `N` terms, or all if negative",
				Aliases: []string{"n"},
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "normalized",
				Usage: "do not normalize PREFIX",
			},
		},
		Action: runComplete,
	}
}

// mergeTerms merges the sorted term lists of several dictionaries into one
// list in index order, shortest first, without duplicates.
func mergeTerms(lists [][]string, limit int) []string {
	var all []string
	for _, l := range lists {
		all = append(all, l...)
	}
	slices.SortFunc(all, func(a, b string) int {
		if c := cmp.Compare(len(a), len(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	all = slices.Compact(all)
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

func runComplete(c *cli.Context) error {
	prefix, err := termArg(c)
	if err != nil {
		return err
	}

	cfg := getConfig(c)
	logger := getLogger(c)
	limit := c.Int("limit")

	dicts, errs := loadDictionaries(c.Context, cfg, logger)
	var lists [][]string
	for _, d := range dicts {
		lists = append(lists, d.Autocomplete(prefix, limit, c.Bool("normalized")))
	}
	for _, term := range mergeTerms(lists, limit) {
		fmt.Fprintln(c.App.Writer, term)
	}

	return reportErrors(logger, errs)
}
