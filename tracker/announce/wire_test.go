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
	"bytes"
	"testing"

	"github.com/jackpal/bencode-go"
	"github.com/stretchr/testify/require"

	"github.com/uber/swarmtracker/core"
)

func TestEncodeFailureResponse(t *testing.T) {
	require := require.New(t)

	var b bytes.Buffer
	require.NoError(EncodeResponse(&b, Failure(ReasonNoIP)))
	require.Equal("d14:failure_reason37:Could not determine peer's ip addresse", b.String())
}

func TestEncodeSuccessResponseKeys(t *testing.T) {
	require := require.New(t)

	p := core.PeerInfoFixture()
	var b bytes.Buffer
	require.NoError(EncodeResponse(&b, &Response{
		Interval:   1800,
		Complete:   0,
		Incomplete: 1,
		Peers:      []*core.PeerInfo{p},
	}))

	v, err := bencode.Decode(&b)
	require.NoError(err)
	d := v.(map[string]interface{})
	require.Equal(int64(1800), d["interval"])
	require.Equal(int64(0), d["complete"])
	require.Equal(int64(1), d["incomplete"])
	require.Empty(d["peers6"])

	peers := d["peers"].([]interface{})
	require.Len(peers, 1)
	peer := peers[0].(map[string]interface{})
	require.Equal(string(p.PeerID[:]), peer["peer id"])
	require.Equal(p.IP.String(), peer["ip"])
	require.Equal(int64(p.Port), peer["port"])
}

func TestResponseWireRoundTrip(t *testing.T) {
	tests := []struct {
		desc string
		resp *Response
	}{
		{"failure", Failure(ReasonGetPeerStats)},
		{"empty swarm", &Response{
			Interval: 1800,
			Peers:    []*core.PeerInfo{},
			Peers6:   []*core.PeerInfo{},
		}},
		{"peers", &Response{
			Interval:   1800,
			Complete:   2,
			Incomplete: 3,
			Peers:      []*core.PeerInfo{core.PeerInfoFixture(), core.PeerInfoFixture()},
			Peers6:     []*core.PeerInfo{core.PeerInfo6Fixture()},
		}},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			require := require.New(t)

			var b bytes.Buffer
			require.NoError(EncodeResponse(&b, test.resp))

			result, err := DecodeResponse(&b)
			require.NoError(err)
			require.Equal(test.resp.FailureReason, result.FailureReason)
			require.Equal(test.resp.Interval, result.Interval)
			require.Equal(test.resp.Complete, result.Complete)
			require.Equal(test.resp.Incomplete, result.Incomplete)
			require.Len(result.Peers, len(test.resp.Peers))
			for i := range test.resp.Peers {
				require.True(test.resp.Peers[i].Equal(result.Peers[i]))
			}
			require.Len(result.Peers6, len(test.resp.Peers6))
			for i := range test.resp.Peers6 {
				require.True(test.resp.Peers6[i].Equal(result.Peers6[i]))
			}
		})
	}
}

func TestDecodeResponseErrors(t *testing.T) {
	for _, body := range []string{
		"not bencode",
		"d8:intervali1800e5:peersld7:peer id3:abc2:ip7:1.2.3.44:porti1eeee",
		"d8:intervali1800e5:peersld7:peer id20:aaaaaaaaaaaaaaaaaaaa2:ip3:bad4:porti1eeee",
	} {
		_, err := DecodeResponse(bytes.NewBufferString(body))
		require.Error(t, err, body)
	}
}
