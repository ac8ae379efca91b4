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

// Package config implements the configuration file for the command line
// tool. The file is TOML:
//
//	[log]
//	level = "info"
//
//	[output]
//	examples = true
//	info = false
//	strip_html = true
//
//	[[dictionary]]
//	name = "English"
//	location = "https://example.com/dicts/en"
//	layout = "sentinel"
//	shard_cache_size = 32
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/ianlewis/go-shardict"
	"github.com/ianlewis/go-shardict/shard"
)

// ErrConfig indicates an invalid configuration.
var ErrConfig = errors.New("invalid config")

// Dictionary configures a single dictionary.
type Dictionary struct {
	// Name is a display name. Defaults to the location.
	Name string `toml:"name"`

	// Location is a directory path, an http(s) URL, a minio://host/bucket/prefix
	// URL, or an s3://bucket/prefix URL.
	Location string `toml:"location"`

	// Layout is the shard offset table layout, "sentinel" or "implicit".
	Layout string `toml:"layout"`

	// ShardCacheSize is the number of shards kept in memory. Zero uses the
	// default.
	ShardCacheSize int `toml:"shard_cache_size"`
}

// DisplayName returns the name of the dictionary or its location if it has
// no name.
func (d *Dictionary) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Location
}

// Options returns the options for loading the dictionary.
func (d *Dictionary) Options(logger *log.Logger) (*shardict.Options, error) {
	layout, err := ParseLayout(d.Layout)
	if err != nil {
		return nil, err
	}
	size := d.ShardCacheSize
	if size == 0 {
		size = shardict.DefaultOptions.ShardCacheSize
	}
	return &shardict.Options{
		ShardCacheSize: size,
		ShardLayout:    layout,
		Logger:         logger,
	}, nil
}

// Log configures logging.
type Log struct {
	// Level is the minimum level logged, e.g. "debug" or "warn".
	Level string `toml:"level"`
}

// Output configures how entries are printed.
type Output struct {
	Examples  bool `toml:"examples"`
	Info      bool `toml:"info"`
	StripHTML bool `toml:"strip_html"`
}

// Config is the command line tool configuration.
type Config struct {
	Log          Log          `toml:"log"`
	Output       Output       `toml:"output"`
	Dictionaries []Dictionary `toml:"dictionary"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: Log{
			Level: "warn",
		},
		Output: Output{
			Examples: true,
			Info:     true,
		},
	}
}

// Load reads the configuration file at path. Values missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: %s: unknown keys: %s", ErrConfig, path, strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrConfig, c.Log.Level)
	}
	for i, d := range c.Dictionaries {
		if d.Location == "" {
			return fmt.Errorf("%w: dictionary %d: missing location", ErrConfig, i)
		}
		if _, err := ParseLayout(d.Layout); err != nil {
			return fmt.Errorf("dictionary %d: %w", i, err)
		}
		if d.ShardCacheSize < 0 {
			return fmt.Errorf("%w: dictionary %d: negative shard cache size", ErrConfig, i)
		}
	}
	return nil
}

// ParseLayout parses a shard layout name. The empty string is the default
// layout.
func ParseLayout(s string) (shard.Layout, error) {
	switch strings.ToLower(s) {
	case "", shard.LayoutSentinel.String():
		return shard.LayoutSentinel, nil
	case shard.LayoutImplicit.String():
		return shard.LayoutImplicit, nil
	default:
		return 0, fmt.Errorf("%w: unknown shard layout %q", ErrConfig, s)
	}
}
