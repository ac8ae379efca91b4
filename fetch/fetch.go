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

// Package fetch implements reading dictionary files by name.
//
// A dictionary is a set of immutable files: the term index named "index" and
// the shards named by their shard number in lowercase hexadecimal. A Fetcher
// returns the full contents of one file. Fetchers do not cache. Files are
// immutable but may be rebuilt, so every fetch reads the current contents.
package fetch

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates that the named file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIO indicates a transport or storage failure. Fetches failing with
	// ErrIO may be retried.
	ErrIO = errors.New("i/o error")
)

// Fetcher reads dictionary files.
type Fetcher interface {
	// Fetch returns the contents of the named file. Errors wrap ErrNotFound
	// or ErrIO.
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FetchFunc is a function implementing Fetcher.
type FetchFunc func(ctx context.Context, name string) ([]byte, error)

// Fetch implements [Fetcher.Fetch].
func (f FetchFunc) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}
