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
package metrics

import (
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().String()
}

func TestNewDefaultsToDisabled(t *testing.T) {
	require := require.New(t)

	s, c, err := New(Config{}, "")
	require.NoError(err)
	defer c.Close()

	s.Counter("announces").Inc(1)
}

func TestNewUnknownBackend(t *testing.T) {
	_, _, err := New(Config{Backend: "m3"}, "")
	require.Error(t, err)
}

func TestNewStatsd(t *testing.T) {
	require := require.New(t)

	_, _, err := New(Config{Backend: StatsdBackend}, "")
	require.Error(err)

	s, c, err := New(Config{
		Backend: StatsdBackend,
		Statsd:  StatsdConfig{HostPort: "localhost:8125", Prefix: "swarmtracker"},
	}, "dev")
	require.NoError(err)
	s.Counter("announces").Inc(1)
	require.NoError(c.Close())
}

func TestNewPrometheus(t *testing.T) {
	require := require.New(t)

	_, _, err := New(Config{Backend: PrometheusBackend}, "")
	require.Error(err)

	addr := freeAddr(t)
	s, c, err := New(Config{
		Backend:    PrometheusBackend,
		Prometheus: PrometheusConfig{Addr: addr},
	}, "dev")
	require.NoError(err)
	defer c.Close()

	s.Counter("prometheus_test_announces").Inc(3)

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(http.StatusOK, resp.StatusCode)
}

func TestVersionGauge(t *testing.T) {
	require := require.New(t)

	s, c, err := New(Config{}, "")
	require.NoError(err)
	defer c.Close()

	t.Setenv("GIT_DESCRIBE", "")
	_, ok := versionGauge(s)
	require.False(ok)

	t.Setenv("GIT_DESCRIBE", "v1.0.0")
	_, ok = versionGauge(s)
	require.True(ok)

	Version = "v1.1.0"
	defer func() { Version = "" }()
	t.Setenv("GIT_DESCRIBE", "")
	_, ok = versionGauge(s)
	require.True(ok)
}
