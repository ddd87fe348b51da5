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
// Package swarm tracks which peers are seeding or leeching each torrent.
package swarm

import (
	"context"
	"fmt"

	"github.com/uber/swarmtracker/core"
	"github.com/uber/swarmtracker/tracker/kvstore"
)

// Registry manages the seeder and leecher sets of every swarm.
type Registry interface {

	// AddPeer adds p to the seeders of h if seeder is set, else to the
	// leechers.
	AddPeer(ctx context.Context, h core.InfoHash, p *core.PeerInfo, seeder bool) error

	// RemovePeer removes p from both sets of h.
	RemovePeer(ctx context.Context, h core.InfoHash, p *core.PeerInfo) error

	// PromotePeer moves p from the leechers to the seeders of h. p ends up
	// a seeder even if it was not a leecher.
	PromotePeer(ctx context.Context, h core.InfoHash, p *core.PeerInfo) error

	// Peers lists the peers of h, split by address family, each list holding
	// at most numWant entries. Seeders are only included if the caller is
	// not a seeder itself.
	Peers(ctx context.Context, h core.InfoHash, seeder bool, numWant int) (ipv4, ipv6 []*core.PeerInfo, err error)

	// PeerStats returns the number of seeders and leechers of h.
	PeerStats(ctx context.Context, h core.InfoHash) (seeders, leechers int, err error)
}

func seedersKey(h core.InfoHash) string {
	return fmt.Sprintf("info:%s:seeders", h.Hex())
}

func leechersKey(h core.InfoHash) string {
	return fmt.Sprintf("info:%s:leechers", h.Hex())
}

// KVRegistry is a Registry backed by a kvstore.Store.
type KVRegistry struct {
	store kvstore.Store
}

// New creates a new KVRegistry.
func New(store kvstore.Store) *KVRegistry {
	return &KVRegistry{store}
}

// AddPeer implements Registry.
func (r *KVRegistry) AddPeer(
	ctx context.Context, h core.InfoHash, p *core.PeerInfo, seeder bool) error {

	member, err := EncodePeer(p)
	if err != nil {
		return err
	}
	k := leechersKey(h)
	if seeder {
		k = seedersKey(h)
	}
	if err := r.store.SAdd(ctx, k, member); err != nil {
		return &StorageError{"add", err}
	}
	return nil
}

// RemovePeer implements Registry.
func (r *KVRegistry) RemovePeer(ctx context.Context, h core.InfoHash, p *core.PeerInfo) error {
	member, err := EncodePeer(p)
	if err != nil {
		return err
	}
	for _, k := range []string{seedersKey(h), leechersKey(h)} {
		if err := r.store.SRem(ctx, k, member); err != nil {
			return &StorageError{"remove", err}
		}
	}
	return nil
}

// PromotePeer implements Registry. The move is a single store call, so the
// peer is never observed in neither set.
func (r *KVRegistry) PromotePeer(ctx context.Context, h core.InfoHash, p *core.PeerInfo) error {
	member, err := EncodePeer(p)
	if err != nil {
		return err
	}
	if err := r.store.SMove(ctx, leechersKey(h), seedersKey(h), member); err != nil {
		return &StorageError{"promote", err}
	}
	return nil
}

// Peers implements Registry.
func (r *KVRegistry) Peers(
	ctx context.Context, h core.InfoHash, seeder bool, numWant int) ([]*core.PeerInfo, []*core.PeerInfo, error) {

	leechers, err := r.store.SMembers(ctx, leechersKey(h))
	if err != nil {
		return nil, nil, &StorageError{"list leechers", err}
	}
	var members [][]byte
	if !seeder {
		seeders, err := r.store.SMembers(ctx, seedersKey(h))
		if err != nil {
			return nil, nil, &StorageError{"list seeders", err}
		}
		members = append(members, seeders...)
	}
	members = append(members, leechers...)

	ipv4 := []*core.PeerInfo{}
	ipv6 := []*core.PeerInfo{}
	for _, m := range members {
		p, err := DecodePeer(m)
		if err != nil {
			return nil, nil, err
		}
		if p.IsIPv4() {
			ipv4 = append(ipv4, p)
		} else {
			ipv6 = append(ipv6, p)
		}
	}
	return truncate(ipv4, numWant), truncate(ipv6, numWant), nil
}

func truncate(peers []*core.PeerInfo, n int) []*core.PeerInfo {
	if n < 0 {
		n = 0
	}
	if len(peers) > n {
		return peers[:n]
	}
	return peers
}

// PeerStats implements Registry.
func (r *KVRegistry) PeerStats(ctx context.Context, h core.InfoHash) (int, int, error) {
	seeders, err := r.store.SCard(ctx, seedersKey(h))
	if err != nil {
		return 0, 0, &StorageError{"count seeders", err}
	}
	leechers, err := r.store.SCard(ctx, leechersKey(h))
	if err != nil {
		return 0, 0, &StorageError{"count leechers", err}
	}
	return seeders, leechers, nil
}
