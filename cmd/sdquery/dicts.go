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
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ianlewis/go-shardict"
	"github.com/ianlewis/go-shardict/fetch"
	"github.com/ianlewis/go-shardict/fetch/minio"
	"github.com/ianlewis/go-shardict/fetch/s3"
	"github.com/ianlewis/go-shardict/internal/config"
)

// dictionary is a loaded dictionary along with its configuration.
type dictionary struct {
	*shardict.Dictionary
	config config.Dictionary
}

// Name returns the display name of the dictionary.
func (d *dictionary) Name() string {
	return d.config.DisplayName()
}

// newFetcher returns a fetcher for a dictionary location.
//
// MinIO credentials are read from the MINIO_ACCESS_KEY and MINIO_SECRET_KEY
// environment variables. S3 uses the default AWS configuration chain.
func newFetcher(ctx context.Context, loc string) (fetch.Fetcher, error) {
	u, err := url.Parse(loc)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Not a URL, or a Windows drive letter.
		return fetch.NewDir(loc), nil
	}

	switch u.Scheme {
	case "file":
		return fetch.NewDir(filepath.FromSlash(u.Path)), nil
	case "http", "https":
		//nolint:wrapcheck // error is already descriptive.
		return fetch.NewHTTP(loc, nil)
	case "minio":
		// minio://host:port/bucket/prefix
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if bucket == "" {
			return nil, fmt.Errorf("%w: %q: missing bucket", ErrFlagParse, loc)
		}
		client, err := miniogo.New(u.Host, &miniogo.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: u.Query().Get("insecure") != "true",
		})
		if err != nil {
			return nil, fmt.Errorf("%w: creating minio client: %w", ErrSdquery, err)
		}
		return minio.New(client, bucket, strings.Trim(prefix, "/")), nil
	case "s3":
		// s3://bucket/prefix
		if u.Host == "" {
			return nil, fmt.Errorf("%w: %q: missing bucket", ErrFlagParse, loc)
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: loading aws config: %w", ErrSdquery, err)
		}
		return s3.New(awss3.NewFromConfig(cfg), u.Host, strings.Trim(u.Path, "/")), nil
	default:
		return nil, fmt.Errorf("%w: location scheme %q", ErrUnsupported, u.Scheme)
	}
}

// isDictDir reports whether dir holds a dictionary index.
func isDictDir(dir string) bool {
	for _, ext := range []string{"", ".dz", ".gz"} {
		if _, err := os.Stat(filepath.Join(dir, shardict.IndexName+ext)); err == nil {
			return true
		}
	}
	return false
}

// findDicts returns the dictionaries in the default data directories. Each
// directory may be a dictionary or contain dictionaries one level down.
func findDicts(dirs []string) []config.Dictionary {
	var dicts []config.Dictionary
	for _, dir := range dirs {
		if isDictDir(dir) {
			dicts = append(dicts, config.Dictionary{Location: dir})
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			sub := filepath.Join(dir, e.Name())
			if e.IsDir() && isDictDir(sub) {
				dicts = append(dicts, config.Dictionary{
					Name:     e.Name(),
					Location: sub,
				})
			}
		}
	}
	return dicts
}

// loadDictionaries loads all configured dictionaries. This function will
// return all successfully loaded dictionaries along with any errors that
// occurred.
func loadDictionaries(ctx context.Context, cfg *config.Config, logger *log.Logger) ([]*dictionary, []error) {
	confs := cfg.Dictionaries
	if len(confs) == 0 {
		confs = findDicts(dictLocations())
	}

	var dicts []*dictionary
	var errs []error
	for _, dc := range confs {
		d, err := loadDictionary(ctx, dc, logger)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", dc.DisplayName(), err))
			continue
		}
		dicts = append(dicts, d)
	}
	if len(confs) == 0 {
		errs = append(errs, fmt.Errorf("%w: no dictionaries found", ErrDictionary))
	}
	return dicts, errs
}

func loadDictionary(ctx context.Context, dc config.Dictionary, logger *log.Logger) (*dictionary, error) {
	f, err := newFetcher(ctx, dc.Location)
	if err != nil {
		return nil, err
	}
	opts, err := dc.Options(logger.With("dict", dc.DisplayName()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFlagParse, err)
	}
	d, err := shardict.Load(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDictionary, err)
	}
	return &dictionary{
		Dictionary: d,
		config:     dc,
	}, nil
}

// reportErrors logs errs and returns an error if there were any.
func reportErrors(logger *log.Logger, errs []error) error {
	for _, err := range errs {
		logger.Error(err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrDictionary, errors.Join(errs...))
	}
	return nil
}
