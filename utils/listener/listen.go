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

import (
	"net"
	"os"
)

// Listen opens a listener configured by config. Useful for easily swapping
// tcp / unix servers. Stale unix sockets are removed first.
func Listen(config Config) (net.Listener, error) {
	config = config.ApplyDefaults()
	if config.Net == "unix" {
		if err := os.Remove(config.Addr); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	return net.Listen(config.Net, config.Addr)
}
