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

// Package minio implements reading dictionary files from MinIO and other
// S3-compatible object storage.
package minio

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"

	"github.com/ianlewis/go-shardict/fetch"
)

// Fetcher reads dictionary files from objects under a prefix in a bucket.
type Fetcher struct {
	client *minio.Client
	bucket string
	prefix string
}

// New returns a new Fetcher. prefix is prepended to every file name (e.g.
// "dicts/en").
func New(client *minio.Client, bucket, prefix string) *Fetcher {
	return &Fetcher{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (f *Fetcher) key(name string) string {
	return path.Join(f.prefix, name)
}

// Fetch implements [fetch.Fetcher.Fetch].
func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := f.key(name)

	obj, err := f.client.GetObject(ctx, f.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(key, err)
	}
	defer obj.Close()

	// GetObject does not issue the request until the object is read.
	b, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapError(key, err)
	}
	return b, nil
}

func mapError(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return fmt.Errorf("%w: %s: %w", fetch.ErrNotFound, key, err)
	default:
		return fmt.Errorf("%w: %s: %w", fetch.ErrIO, key, err)
	}
}
