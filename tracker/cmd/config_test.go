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
package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/uber/swarmtracker/tracker/kvstore"
	"github.com/uber/swarmtracker/utils/configutil"
)

func TestLoadDevelopmentConfig(t *testing.T) {
	require := require.New(t)

	var config Config
	require.NoError(configutil.Load("../../config/tracker/development.yaml", &config))

	require.Equal(kvstore.LocalBackend, config.KVStore.Backend)
	require.Equal("disabled", config.Metrics.Backend)
	require.Equal(30*time.Minute, config.Announce.Interval)
	require.Equal(200, config.Announce.MaxNumWant)
	require.Equal("localhost:6969", config.TrackerServer.Listener.Addr)
	require.Equal("tcp", config.TrackerServer.Listener.Net)
	require.Equal("console", config.ZapLogging.Encoding)
}

func TestLoadBaseConfig(t *testing.T) {
	require := require.New(t)

	var config Config
	require.NoError(configutil.Load("../../config/tracker/base.yaml", &config))

	require.Equal(kvstore.RedisBackend, config.KVStore.Backend)
	require.Equal("localhost:6379", config.KVStore.Redis.Addr)
	require.Equal(500, config.KVStore.Redis.MaxActiveConns)
	require.Equal("statsd", config.Metrics.Backend)
	require.False(config.Tracing.Enabled)
}
