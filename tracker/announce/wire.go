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
	"fmt"
	"io"
	"net"

	"github.com/jackpal/bencode-go"

	"github.com/uber/swarmtracker/core"
)

type wirePeer struct {
	PeerID string `bencode:"peer id"`
	IP     string `bencode:"ip"`
	Port   int    `bencode:"port"`
}

type wireFailure struct {
	FailureReason string `bencode:"failure_reason"`
}

type wireSuccess struct {
	Interval   int        `bencode:"interval"`
	Complete   int        `bencode:"complete"`
	Incomplete int        `bencode:"incomplete"`
	Peers      []wirePeer `bencode:"peers"`
	Peers6     []wirePeer `bencode:"peers6"`
}

// wireResponse is the union of both bodies, used for decoding.
type wireResponse struct {
	FailureReason string     `bencode:"failure_reason"`
	Interval      int        `bencode:"interval"`
	Complete      int        `bencode:"complete"`
	Incomplete    int        `bencode:"incomplete"`
	Peers         []wirePeer `bencode:"peers"`
	Peers6        []wirePeer `bencode:"peers6"`
}

func toWirePeers(peers []*core.PeerInfo) []wirePeer {
	result := make([]wirePeer, 0, len(peers))
	for _, p := range peers {
		result = append(result, wirePeer{
			PeerID: string(p.PeerID[:]),
			IP:     p.IP.String(),
			Port:   int(p.Port),
		})
	}
	return result
}

func fromWirePeers(peers []wirePeer) ([]*core.PeerInfo, error) {
	result := make([]*core.PeerInfo, 0, len(peers))
	for _, p := range peers {
		id, err := core.NewPeerIDFromBytes([]byte(p.PeerID))
		if err != nil {
			return nil, fmt.Errorf("peer id: %s", err)
		}
		ip := net.ParseIP(p.IP)
		if ip == nil {
			return nil, fmt.Errorf("invalid peer ip %q", p.IP)
		}
		if p.Port < 0 || p.Port > 65535 {
			return nil, fmt.Errorf("invalid peer port %d", p.Port)
		}
		result = append(result, core.NewPeerInfo(id, ip, uint16(p.Port)))
	}
	return result, nil
}

// EncodeResponse writes the bencoded form of r to w. A failure is a
// dictionary holding only failure_reason.
func EncodeResponse(w io.Writer, r *Response) error {
	if r.Failed() {
		return bencode.Marshal(w, wireFailure{r.FailureReason})
	}
	return bencode.Marshal(w, wireSuccess{
		Interval:   r.Interval,
		Complete:   r.Complete,
		Incomplete: r.Incomplete,
		Peers:      toWirePeers(r.Peers),
		Peers6:     toWirePeers(r.Peers6),
	})
}

// DecodeResponse reads a bencoded response written by EncodeResponse.
func DecodeResponse(r io.Reader) (*Response, error) {
	var w wireResponse
	if err := bencode.Unmarshal(r, &w); err != nil {
		return nil, fmt.Errorf("bencode: %s", err)
	}
	if w.FailureReason != "" {
		return Failure(w.FailureReason), nil
	}
	peers, err := fromWirePeers(w.Peers)
	if err != nil {
		return nil, err
	}
	peers6, err := fromWirePeers(w.Peers6)
	if err != nil {
		return nil, err
	}
	return &Response{
		Interval:   w.Interval,
		Complete:   w.Complete,
		Incomplete: w.Incomplete,
		Peers:      peers,
		Peers6:     peers6,
	}, nil
}
