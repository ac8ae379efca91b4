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
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-shardict/internal/config"
)

func newInfoCommand() *cli.Command {
	return &cli.Command{
		Name:   "info",
		Usage:  "print information about each dictionary",
		Action: runInfo,
	}
}

func runInfo(c *cli.Context) error {
	cfg := getConfig(c)
	logger := getLogger(c)

	dicts, errs := loadDictionaries(c.Context, cfg, logger)

	tbl := table.New("Name", "Location", "Shard Size", "Buckets", "Terms", "Layout").
		WithWriter(c.App.Writer)
	for _, d := range dicts {
		index := d.Index()
		layout, _ := config.ParseLayout(d.config.Layout)
		tbl.AddRow(
			d.Name(),
			d.config.Location,
			index.ShardSize(),
			index.BucketCount(),
			index.Len(),
			layout,
		)
	}
	tbl.Print()

	return reportErrors(logger, errs)
}
