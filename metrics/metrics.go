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
// Package metrics builds the tally root scope for the configured backend.
package metrics

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/uber-go/tally"

	"github.com/uber/swarmtracker/utils/log"
)

// Backend names.
const (
	DisabledBackend   = "disabled"
	StatsdBackend     = "statsd"
	PrometheusBackend = "prometheus"
)

type scopeFactory func(config Config, cluster string) (tally.Scope, io.Closer, error)

var _factories = map[string]scopeFactory{
	DisabledBackend:   newDisabledScope,
	StatsdBackend:     newStatsdScope,
	PrometheusBackend: newPrometheusScope,
}

// Version is stamped at build time with -ldflags "-X". GIT_DESCRIBE is
// consulted when it is empty.
var Version string

// New creates the root metrics Scope and its Closer. An empty backend
// disables metrics.
func New(config Config, cluster string) (tally.Scope, io.Closer, error) {
	backend := config.Backend
	if backend == "" {
		backend = DisabledBackend
	}
	f, ok := _factories[backend]
	if !ok {
		return nil, nil, fmt.Errorf("unknown metrics backend %q", backend)
	}
	return f(config, cluster)
}

// EmitVersion reports a version gauge once a minute until the process exits.
func EmitVersion(stats tally.Scope) {
	gauge, ok := versionGauge(stats)
	if !ok {
		log.Warnf("Skipping version emitting: no version set")
		return
	}
	for {
		gauge.Update(1)
		time.Sleep(time.Minute)
	}
}

func versionGauge(stats tally.Scope) (tally.Gauge, bool) {
	version := Version
	if version == "" {
		version = os.Getenv("GIT_DESCRIBE")
	}
	if version == "" {
		return nil, false
	}
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return stats.Tagged(map[string]string{
		"host":    host,
		"version": version,
	}).Gauge("version"), true
}

func clusterTags(cluster string) map[string]string {
	tags := map[string]string{}
	if cluster != "" {
		tags["cluster"] = cluster
	}
	return tags
}
