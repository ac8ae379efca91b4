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

package shardict

import (
	"github.com/ianlewis/go-shardict/fetch"
	"github.com/ianlewis/go-shardict/internal/cursor"
	"github.com/ianlewis/go-shardict/shard"
)

var (
	// ErrNotFound indicates that a dictionary file does not exist.
	ErrNotFound = fetch.ErrNotFound

	// ErrIO indicates that a dictionary file could not be read.
	ErrIO = fetch.ErrIO

	// ErrFormat indicates that dictionary data is malformed.
	ErrFormat = cursor.ErrFormat

	// ErrIndexOutOfRange indicates that an entry id does not refer to an
	// entry in its shard.
	ErrIndexOutOfRange = shard.ErrIndexOutOfRange
)
