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

import "time"

// Supported backends.
const (
	RedisBackend   = "redis"
	GoRedisBackend = "goredis"
	LevelDBBackend = "leveldb"
	LocalBackend   = "local"
)

// Config defines Store configuration.
type Config struct {
	Backend string        `yaml:"backend"`
	Redis   RedisConfig   `yaml:"redis"`
	GoRedis GoRedisConfig `yaml:"goredis"`
	LevelDB LevelDBConfig `yaml:"leveldb"`
}

func (c Config) applyDefaults() Config {
	if c.Backend == "" {
		c.Backend = RedisBackend
	}
	return c
}

// RedisConfig defines RedisStore configuration.
type RedisConfig struct {
	Addr            string        `yaml:"addr"`
	Password        string        `yaml:"password"`
	DB              int           `yaml:"db"`
	DialTimeout     time.Duration `yaml:"dial_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxActiveConns  int           `yaml:"max_active_conns"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

func (c RedisConfig) applyDefaults() RedisConfig {
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.MaxActiveConns == 0 {
		c.MaxActiveConns = 500
	}
	if c.IdleConnTimeout == 0 {
		c.IdleConnTimeout = 60 * time.Second
	}
	return c
}

// GoRedisConfig defines GoRedisStore configuration. A single addr connects to
// a standalone server, multiple addrs to a cluster, and a non-empty
// MasterName to a sentinel-managed failover group.
type GoRedisConfig struct {
	Addrs        []string      `yaml:"addrs"`
	MasterName   string        `yaml:"master_name"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PoolSize     int           `yaml:"pool_size"`
}

func (c GoRedisConfig) applyDefaults() GoRedisConfig {
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.PoolSize == 0 {
		c.PoolSize = 500
	}
	return c
}

// LevelDBConfig defines LevelDBStore configuration.
type LevelDBConfig struct {
	Path string `yaml:"path"`
}
