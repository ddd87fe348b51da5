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
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBStore is a Store backed by an embedded LevelDB database. Every set
// member is its own row, keyed by the set key and the member separated by a
// zero byte, so set operations become prefix scans.
type LevelDBStore struct {
	db *leveldb.DB
}

// NewLevelDBStore opens (or creates) the database at config.Path.
func NewLevelDBStore(config LevelDBConfig) (*LevelDBStore, error) {
	if config.Path == "" {
		return nil, errors.New("invalid config: missing path")
	}
	db, err := leveldb.OpenFile(config.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %s", err)
	}
	return &LevelDBStore{db}, nil
}

// NewMemLevelDBStore creates a LevelDBStore which keeps everything in memory.
func NewMemLevelDBStore() (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %s", err)
	}
	return &LevelDBStore{db}, nil
}

func setPrefix(key string) ([]byte, error) {
	if strings.IndexByte(key, 0) != -1 {
		return nil, fmt.Errorf("key %q contains zero byte", key)
	}
	p := make([]byte, 0, len(key)+1)
	p = append(p, key...)
	return append(p, 0), nil
}

func memberKey(key string, member []byte) ([]byte, error) {
	p, err := setPrefix(key)
	if err != nil {
		return nil, err
	}
	return append(p, member...), nil
}

// SAdd implements Store.
func (s *LevelDBStore) SAdd(ctx context.Context, key string, member []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k, err := memberKey(key, member)
	if err != nil {
		return err
	}
	if err := s.db.Put(k, []byte{}, nil); err != nil {
		return fmt.Errorf("put: %s", err)
	}
	return nil
}

// SRem implements Store.
func (s *LevelDBStore) SRem(ctx context.Context, key string, member []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k, err := memberKey(key, member)
	if err != nil {
		return err
	}
	if err := s.db.Delete(k, nil); err != nil {
		return fmt.Errorf("delete: %s", err)
	}
	return nil
}

// SMembers implements Store.
func (s *LevelDBStore) SMembers(ctx context.Context, key string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix, err := setPrefix(key)
	if err != nil {
		return nil, err
	}
	var members [][]byte
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	for iter.Next() {
		m := make([]byte, len(iter.Key())-len(prefix))
		copy(m, iter.Key()[len(prefix):])
		members = append(members, m)
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate: %s", err)
	}
	return members, nil
}

// SCard implements Store.
func (s *LevelDBStore) SCard(ctx context.Context, key string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	prefix, err := setPrefix(key)
	if err != nil {
		return 0, err
	}
	var n int
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	for iter.Next() {
		n++
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("iterate: %s", err)
	}
	return n, nil
}

// SMove implements Store.
func (s *LevelDBStore) SMove(ctx context.Context, src, dst string, member []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	from, err := memberKey(src, member)
	if err != nil {
		return err
	}
	to, err := memberKey(dst, member)
	if err != nil {
		return err
	}
	b := new(leveldb.Batch)
	b.Delete(from)
	b.Put(to, []byte{})
	if err := s.db.Write(b, nil); err != nil {
		return fmt.Errorf("write batch: %s", err)
	}
	return nil
}

// Close implements Store.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
