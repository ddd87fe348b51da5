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

import (
	"net"

	"github.com/uber/swarmtracker/core"
)

// Request is a parsed announce.
type Request struct {
	InfoHash core.InfoHash
	PeerID   core.PeerID
	Port     uint16

	// Left is the number of bytes the peer still needs. Zero means the peer
	// has the complete torrent and is a seeder.
	Left uint64

	Event Event

	// IP optionally overrides the address the request was observed from.
	IP net.IP

	// NumWant is the number of peers the client asks for. nil means the
	// configured default.
	NumWant *int
}

// Seeder returns whether the announcing peer has the whole torrent.
func (r *Request) Seeder() bool {
	return r.Left == 0
}

// RequestError is returned for malformed or incomplete announces. Its
// message is shown to the client as is.
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string {
	return e.Reason
}
