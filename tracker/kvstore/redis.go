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

	"github.com/gomodule/redigo/redis"
)

// RedisStore is a Store backed by a single Redis server, accessed through a
// redigo connection pool.
type RedisStore struct {
	config RedisConfig
	pool   *redis.Pool
}

// NewRedisStore creates a new RedisStore.
func NewRedisStore(config RedisConfig) (*RedisStore, error) {
	config = config.applyDefaults()

	if config.Addr == "" {
		return nil, errors.New("invalid config: missing addr")
	}

	s := &RedisStore{
		config: config,
		pool: &redis.Pool{
			Dial: func() (redis.Conn, error) {
				return redis.Dial(
					"tcp",
					config.Addr,
					redis.DialPassword(config.Password),
					redis.DialDatabase(config.DB),
					redis.DialConnectTimeout(config.DialTimeout),
					redis.DialReadTimeout(config.ReadTimeout),
					redis.DialWriteTimeout(config.WriteTimeout))
			},
			MaxIdle:     config.MaxIdleConns,
			MaxActive:   config.MaxActiveConns,
			IdleTimeout: config.IdleConnTimeout,
			Wait:        true,
		},
	}

	// Ensure we can connect to Redis.
	c, err := s.pool.Dial()
	if err != nil {
		return nil, fmt.Errorf("dial redis: %s", err)
	}
	c.Close()

	return s, nil
}

func (s *RedisStore) conn(ctx context.Context) (redis.Conn, error) {
	c, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get conn: %s", err)
	}
	return c, nil
}

// SAdd implements Store.
func (s *RedisStore) SAdd(ctx context.Context, key string, member []byte) error {
	c, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if _, err := c.Do("SADD", key, member); err != nil {
		return fmt.Errorf("SADD: %s", err)
	}
	return nil
}

// SRem implements Store.
func (s *RedisStore) SRem(ctx context.Context, key string, member []byte) error {
	c, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if _, err := c.Do("SREM", key, member); err != nil {
		return fmt.Errorf("SREM: %s", err)
	}
	return nil
}

// SMembers implements Store.
func (s *RedisStore) SMembers(ctx context.Context, key string) ([][]byte, error) {
	c, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	members, err := redis.ByteSlices(c.Do("SMEMBERS", key))
	if err != nil {
		return nil, fmt.Errorf("SMEMBERS: %s", err)
	}
	return members, nil
}

// SCard implements Store.
func (s *RedisStore) SCard(ctx context.Context, key string) (int, error) {
	c, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer c.Close()

	n, err := redis.Int(c.Do("SCARD", key))
	if err != nil {
		return 0, fmt.Errorf("SCARD: %s", err)
	}
	return n, nil
}

// SMove implements Store. The move runs as a MULTI/EXEC transaction instead
// of SMOVE, since SMOVE refuses to add a member missing from src.
func (s *RedisStore) SMove(ctx context.Context, src, dst string, member []byte) error {
	c, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Send("MULTI"); err != nil {
		return fmt.Errorf("send MULTI: %s", err)
	}
	if err := c.Send("SREM", src, member); err != nil {
		return fmt.Errorf("send SREM: %s", err)
	}
	if err := c.Send("SADD", dst, member); err != nil {
		return fmt.Errorf("send SADD: %s", err)
	}
	replies, err := redis.Values(c.Do("EXEC"))
	if err != nil {
		return fmt.Errorf("EXEC: %s", err)
	}
	for _, r := range replies {
		if rerr, ok := r.(redis.Error); ok {
			return fmt.Errorf("EXEC: %s", rerr)
		}
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.pool.Close()
}
