// Copyright (c) 2016-2019 Uber Technologies, Inc.
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

// Package kvstore provides string-keyed sets of opaque byte members, backed by
// Redis, LevelDB or memory.
package kvstore

import (
	"context"
	"fmt"
)

// Store is a key-value store of sets. A key which was never written behaves
// as an empty set. Each individual call is atomic.
type Store interface {
	// SAdd adds member to the set at key. Adding a present member is a no-op.
	SAdd(ctx context.Context, key string, member []byte) error

	// SRem removes member from the set at key. Removing an absent member is
	// a no-op.
	SRem(ctx context.Context, key string, member []byte) error

	// SMembers returns every member of the set at key, in no particular order.
	SMembers(ctx context.Context, key string) ([][]byte, error)

	// SCard returns the number of members in the set at key.
	SCard(ctx context.Context, key string) (int, error)

	// SMove removes member from src and adds it to dst as a single unit.
	// Unlike the Redis SMOVE command, member is added to dst even when it
	// was not present in src.
	SMove(ctx context.Context, src, dst string, member []byte) error

	// Close releases any connections held by the store.
	Close() error
}

// New creates a Store for the backend named in config.
func New(config Config) (Store, error) {
	config = config.applyDefaults()
	switch config.Backend {
	case RedisBackend:
		return NewRedisStore(config.Redis)
	case GoRedisBackend:
		return NewGoRedisStore(config.GoRedis)
	case LevelDBBackend:
		return NewLevelDBStore(config.LevelDB)
	case LocalBackend:
		return NewLocalStore(), nil
	default:
		return nil, fmt.Errorf("unknown kvstore backend %q", config.Backend)
	}
}
