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
	"sync"
)

// LocalStore is an in-memory Store. Empty sets are dropped so that swarms
// nobody announces to any more do not accumulate.
type LocalStore struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

// NewLocalStore creates a new LocalStore.
func NewLocalStore() *LocalStore {
	return &LocalStore{
		sets: make(map[string]map[string]struct{}),
	}
}

func (s *LocalStore) add(key string, member []byte) {
	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}
	set[string(member)] = struct{}{}
}

func (s *LocalStore) rem(key string, member []byte) {
	set, ok := s.sets[key]
	if !ok {
		return
	}
	delete(set, string(member))
	if len(set) == 0 {
		delete(s.sets, key)
	}
}

// SAdd implements Store.
func (s *LocalStore) SAdd(ctx context.Context, key string, member []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.add(key, member)
	return nil
}

// SRem implements Store.
func (s *LocalStore) SRem(ctx context.Context, key string, member []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rem(key, member)
	return nil
}

// SMembers implements Store.
func (s *LocalStore) SMembers(ctx context.Context, key string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.sets[key]
	members := make([][]byte, 0, len(set))
	for m := range set {
		members = append(members, []byte(m))
	}
	return members, nil
}

// SCard implements Store.
func (s *LocalStore) SCard(ctx context.Context, key string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sets[key]), nil
}

// SMove implements Store.
func (s *LocalStore) SMove(ctx context.Context, src, dst string, member []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rem(src, member)
	s.add(dst, member)
	return nil
}

// Close implements Store.
func (s *LocalStore) Close() error { return nil }
