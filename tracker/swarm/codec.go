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
package swarm

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/uber/swarmtracker/core"
)

// codecVersion prefixes every encoded peer. Bump it if the layout changes.
const codecVersion byte = 0x01

// Encoded layout:
//
//	version(1) | peer id(20) | ip length(1) | ip(4 or 16) | port(2, big endian)
const (
	peerIDLen  = 20
	headerLen  = 1 + peerIDLen + 1
	portLen    = 2
	minPeerLen = headerLen + net.IPv4len + portLen
)

// EncodePeer serializes p into the byte string stored as a set member. The
// output is stable: equal peers always produce equal bytes, which is what
// set membership and removal rely on. IPv4 addresses are always written in
// their 4 byte form.
func EncodePeer(p *core.PeerInfo) ([]byte, error) {
	ip := p.IP.To4()
	if ip == nil {
		ip = p.IP.To16()
	}
	if ip == nil {
		return nil, fmt.Errorf("invalid ip %q", p.IP)
	}
	b := make([]byte, 0, headerLen+len(ip)+portLen)
	b = append(b, codecVersion)
	b = append(b, p.PeerID[:]...)
	b = append(b, byte(len(ip)))
	b = append(b, ip...)
	b = binary.BigEndian.AppendUint16(b, p.Port)
	return b, nil
}

// DecodePeer is the inverse of EncodePeer.
func DecodePeer(b []byte) (*core.PeerInfo, error) {
	if len(b) < minPeerLen {
		return nil, &DecodeError{Data: b, Reason: "too short"}
	}
	if b[0] != codecVersion {
		return nil, &DecodeError{Data: b, Reason: fmt.Sprintf("unknown version %d", b[0])}
	}
	var id core.PeerID
	copy(id[:], b[1:1+peerIDLen])

	n := int(b[1+peerIDLen])
	if n != net.IPv4len && n != net.IPv6len {
		return nil, &DecodeError{Data: b, Reason: fmt.Sprintf("invalid ip length %d", n)}
	}
	if len(b) != headerLen+n+portLen {
		return nil, &DecodeError{Data: b, Reason: "length mismatch"}
	}
	ip := make(net.IP, n)
	copy(ip, b[headerLen:headerLen+n])
	port := binary.BigEndian.Uint16(b[headerLen+n:])

	return &core.PeerInfo{PeerID: id, IP: ip, Port: port}, nil
}
