// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlewis/go-dictzip"
	"github.com/klauspost/compress/gzip"
)

// Dir reads dictionary files from a local directory. A file may be stored
// as is, compressed with dictzip (".dz"), or compressed with gzip (".gz").
type Dir struct {
	root string
}

// NewDir returns a Dir reading files under root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the directory path.
func (d *Dir) Root() string {
	return d.root
}

// Fetch implements [Fetcher.Fetch].
func (d *Dir) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%w: invalid file name %q", ErrNotFound, name)
	}

	baseName := filepath.Join(d.root, name)
	exts := []string{"", ".dz", ".DZ", ".gz", ".GZ"}
	for _, ext := range exts {
		path := baseName + ext
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w: opening %q: %w", ErrIO, path, err)
		}
		defer f.Close()

		b, err := readFile(f, strings.ToLower(ext))
		if err != nil {
			return nil, fmt.Errorf("%w: reading %q: %w", ErrIO, path, err)
		}
		return b, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrNotFound, baseName)
}

func readFile(f *os.File, ext string) ([]byte, error) {
	switch ext {
	case ".dz":
		z, err := dictzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening dictzip reader: %w", err)
		}
		defer z.Close()
		//nolint:wrapcheck // wrapped by the caller
		return io.ReadAll(z)
	case ".gz":
		z, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip reader: %w", err)
		}
		defer z.Close()
		//nolint:wrapcheck // wrapped by the caller
		return io.ReadAll(z)
	default:
		//nolint:wrapcheck // wrapped by the caller
		return io.ReadAll(f)
	}
}
