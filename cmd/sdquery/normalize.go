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
	"bufio"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-shardict"
)

func newNormalizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "print the normalized form of each TERM, or of each line of input",
		ArgsUsage: "[TERM...]",
		Action:    runNormalize,
	}
}

func runNormalize(c *cli.Context) error {
	if c.NArg() > 0 {
		for _, term := range c.Args().Slice() {
			fmt.Fprintln(c.App.Writer, shardict.Normalize(term))
		}
		return nil
	}

	s := bufio.NewScanner(c.App.Reader)
	for s.Scan() {
		fmt.Fprintln(c.App.Writer, shardict.Normalize(s.Text()))
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("%w: reading input: %w", ErrSdquery, err)
	}
	return nil
}
