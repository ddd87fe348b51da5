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
	"net/http"

	"github.com/uber/swarmtracker/core"
)

// Failure reasons shown to clients.
const (
	ReasonNoIP         = "Could not determine peer's ip address"
	ReasonAddPeer      = "Failed to add peer to swarm"
	ReasonRemovePeer   = "Failed to remove peer from swarm"
	ReasonPromotePeer  = "Failed to promote peer to seeder"
	ReasonGetPeers     = "Failed to get peers"
	ReasonGetPeerStats = "Failed to get peer stats"
)

// Response is the outcome of an announce. It is either a failure, in which
// case only FailureReason is set, or a success.
type Response struct {
	FailureReason string

	// Interval is the number of seconds the client should wait before
	// announcing again.
	Interval   int
	Complete   int
	Incomplete int
	Peers      []*core.PeerInfo
	Peers6     []*core.PeerInfo
}

// Failure creates a failed Response.
func Failure(reason string) *Response {
	return &Response{FailureReason: reason}
}

// Failed returns whether r is a failure.
func (r *Response) Failed() bool {
	return r.FailureReason != ""
}

// StatusCode returns the HTTP status r is served with.
func (r *Response) StatusCode() int {
	if r.Failed() {
		return http.StatusBadRequest
	}
	return http.StatusOK
}
