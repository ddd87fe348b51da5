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
	"fmt"
	"net"
	"sort"
)

// PeerInfo identifies a peer within a swarm. Two PeerInfos are the same peer
// only if id, ip and port all match.
type PeerInfo struct {
	PeerID PeerID `json:"peer_id"`
	IP     net.IP `json:"ip"`
	Port   uint16 `json:"port"`
}

// NewPeerInfo creates a new PeerInfo. IPv4 addresses are normalized to their
// 4 byte form so equal addresses compare equal regardless of how they were
// parsed.
func NewPeerInfo(peerID PeerID, ip net.IP, port uint16) *PeerInfo {
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	return &PeerInfo{
		PeerID: peerID,
		IP:     ip,
		Port:   port,
	}
}

// IsIPv4 returns whether p is reachable over IPv4.
func (p *PeerInfo) IsIPv4() bool {
	return p.IP.To4() != nil
}

// Equal returns whether p and o describe the same peer.
func (p *PeerInfo) Equal(o *PeerInfo) bool {
	return p.PeerID == o.PeerID && p.IP.Equal(o.IP) && p.Port == o.Port
}

// Addr returns the "ip:port" address of p.
func (p *PeerInfo) Addr() string {
	return net.JoinHostPort(p.IP.String(), fmt.Sprintf("%d", p.Port))
}

func (p *PeerInfo) String() string {
	return fmt.Sprintf("PeerInfo(id=%s, addr=%s)", p.PeerID, p.Addr())
}

// PeerInfos groups PeerInfo structs for sorting.
type PeerInfos []*PeerInfo

// Len for sorting.
func (s PeerInfos) Len() int { return len(s) }

// Swap for sorting
func (s PeerInfos) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// PeersByPeerID sorts PeerInfos by peer id.
type PeersByPeerID struct{ PeerInfos }

// Less for sorting.
func (s PeersByPeerID) Less(i, j int) bool {
	return s.PeerInfos[i].PeerID.LessThan(s.PeerInfos[j].PeerID)
}

// SortedByPeerID returns a copy of peers which has been sorted by peer id.
func SortedByPeerID(peers []*PeerInfo) []*PeerInfo {
	c := make([]*PeerInfo, len(peers))
	copy(c, peers)
	sort.Sort(PeersByPeerID{PeerInfos(c)})
	return c
}
