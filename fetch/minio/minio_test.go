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

package minio

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/minio/minio-go/v7"

	"github.com/ianlewis/go-shardict/fetch"
)

func Test_mapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "no such key",
			err:      minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404},
			expected: fetch.ErrNotFound,
		},
		{
			name:     "no such bucket",
			err:      minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404},
			expected: fetch.ErrNotFound,
		},
		{
			name:     "access denied",
			err:      minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403},
			expected: fetch.ErrIO,
		},
		{
			name:     "transport",
			err:      errors.New("connection reset"),
			expected: fetch.ErrIO,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(test.expected, mapError("dict/index", test.err), cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("mapError (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestFetcher_key(t *testing.T) {
	t.Parallel()

	f := New(nil, "bucket", "dicts/en/")
	if diff := cmp.Diff("dicts/en/00a", f.key("00a")); diff != "" {
		t.Fatalf("key (-want, +got):\n%s", diff)
	}
}
