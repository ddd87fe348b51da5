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
package trackerserver

import (
	"time"

	"github.com/uber/swarmtracker/utils/listener"
)

// Config defines Server configuration.
type Config struct {
	Listener listener.Config `yaml:"listener"`

	// TrustForwardedFor takes the client address from X-Forwarded-For or
	// X-Real-IP. Only enable behind a proxy which sets these headers.
	TrustForwardedFor bool `yaml:"trust_forwarded_for"`

	// ServiceName names the server spans.
	ServiceName string `yaml:"service_name"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func (c Config) applyDefaults() Config {
	c.Listener = c.Listener.ApplyDefaults()
	if c.ServiceName == "" {
		c.ServiceName = "swarmtracker"
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return c
}
