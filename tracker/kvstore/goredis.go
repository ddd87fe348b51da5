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

	goredis "github.com/redis/go-redis/v9"
)

// GoRedisStore is a Store backed by go-redis. Depending on configuration it
// talks to a standalone server, a cluster or a sentinel failover group.
type GoRedisStore struct {
	config  GoRedisConfig
	client  goredis.UniversalClient
	cluster bool
}

// NewGoRedisStore creates a new GoRedisStore.
func NewGoRedisStore(config GoRedisConfig) (*GoRedisStore, error) {
	config = config.applyDefaults()

	if len(config.Addrs) == 0 {
		return nil, errors.New("invalid config: missing addrs")
	}

	client := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs:           config.Addrs,
		MasterName:      config.MasterName,
		Password:        config.Password,
		DB:              config.DB,
		Protocol:        2,
		DisableIdentity: true,
		DialTimeout:     config.DialTimeout,
		ReadTimeout:     config.ReadTimeout,
		WriteTimeout:    config.WriteTimeout,
		PoolSize:        config.PoolSize,
	})
	return newGoRedisStore(config, client)
}

func newGoRedisStore(config GoRedisConfig, client goredis.UniversalClient) (*GoRedisStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %s", err)
	}
	_, cluster := client.(*goredis.ClusterClient)
	return &GoRedisStore{
		config:  config,
		client:  client,
		cluster: cluster,
	}, nil
}

// SAdd implements Store.
func (s *GoRedisStore) SAdd(ctx context.Context, key string, member []byte) error {
	if err := s.client.SAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("SADD: %s", err)
	}
	return nil
}

// SRem implements Store.
func (s *GoRedisStore) SRem(ctx context.Context, key string, member []byte) error {
	if err := s.client.SRem(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("SREM: %s", err)
	}
	return nil
}

// SMembers implements Store.
func (s *GoRedisStore) SMembers(ctx context.Context, key string) ([][]byte, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("SMEMBERS: %s", err)
	}
	result := make([][]byte, len(members))
	for i, m := range members {
		result[i] = []byte(m)
	}
	return result, nil
}

// SCard implements Store.
func (s *GoRedisStore) SCard(ctx context.Context, key string) (int, error) {
	n, err := s.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("SCARD: %s", err)
	}
	return int(n), nil
}

// SMove implements Store. On a cluster src and dst may hash to different
// slots, so the two commands are pipelined without MULTI.
func (s *GoRedisStore) SMove(ctx context.Context, src, dst string, member []byte) error {
	fn := func(pipe goredis.Pipeliner) error {
		pipe.SRem(ctx, src, member)
		pipe.SAdd(ctx, dst, member)
		return nil
	}
	var err error
	if s.cluster {
		_, err = s.client.Pipelined(ctx, fn)
	} else {
		_, err = s.client.TxPipelined(ctx, fn)
	}
	if err != nil {
		return fmt.Errorf("move: %s", err)
	}
	return nil
}

// Close implements Store.
func (s *GoRedisStore) Close() error {
	return s.client.Close()
}
