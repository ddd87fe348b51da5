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
package listener

import "fmt"

// Config defines listener configuration.
type Config struct {
	// Net is the network to listen on, e.g. unix, tcp, etc.
	Net string `yaml:"net"`

	// Addr is the address to listen on.
	Addr string `yaml:"addr"`
}

// ApplyDefaults fills unset fields, listening on the conventional tracker
// port 6969 over tcp.
func (c Config) ApplyDefaults() Config {
	if c.Net == "" {
		c.Net = "tcp"
	}
	if c.Addr == "" {
		c.Addr = ":6969"
	}
	return c
}

func (c Config) String() string {
	return fmt.Sprintf("%s:%s", c.Net, c.Addr)
}
