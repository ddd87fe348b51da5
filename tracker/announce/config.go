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
package announce

import "time"

// Config defines Handler configuration.
type Config struct {
	// Interval is how long clients are told to wait between announces.
	Interval time.Duration `yaml:"interval"`

	// DefaultNumWant is used when a request does not carry numwant.
	DefaultNumWant int `yaml:"default_numwant"`

	// MaxNumWant caps the numwant of any request.
	MaxNumWant int `yaml:"max_numwant"`
}

func (c Config) applyDefaults() Config {
	if c.Interval == 0 {
		c.Interval = 30 * time.Minute
	}
	if c.DefaultNumWant == 0 {
		c.DefaultNumWant = 30
	}
	if c.MaxNumWant == 0 {
		c.MaxNumWant = 200
	}
	return c
}
