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
package core

import (
	"github.com/uber/swarmtracker/utils/randutil"
)

// PeerIDFixture returns a randomly generated PeerID.
func PeerIDFixture() PeerID {
	p, err := RandomPeerID()
	if err != nil {
		panic(err)
	}
	return p
}

// InfoHashFixture returns a randomly generated InfoHash.
func InfoHashFixture() InfoHash {
	h, err := NewInfoHashFromBytes(randutil.Bytes(20))
	if err != nil {
		panic(err)
	}
	return h
}

// PeerInfoFixture returns a randomly generated PeerInfo with an IPv4 address.
func PeerInfoFixture() *PeerInfo {
	return NewPeerInfo(PeerIDFixture(), randutil.IP(), randutil.Port())
}

// PeerInfo6Fixture returns a randomly generated PeerInfo with an IPv6 address.
func PeerInfo6Fixture() *PeerInfo {
	return NewPeerInfo(PeerIDFixture(), randutil.IP6(), randutil.Port())
}
