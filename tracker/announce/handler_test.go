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
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"

	"github.com/uber/swarmtracker/core"
	"github.com/uber/swarmtracker/mocks/tracker/swarm"
	"github.com/uber/swarmtracker/tracker/kvstore"
	"github.com/uber/swarmtracker/tracker/swarm"
)

var _remoteIP = net.ParseIP("192.168.0.7")

type handlerMocks struct {
	ctrl     *gomock.Controller
	registry *mockswarm.MockRegistry
	stats    tally.TestScope
}

func newHandlerMocks(t *testing.T) (*handlerMocks, func()) {
	ctrl := gomock.NewController(t)
	return &handlerMocks{
		ctrl:     ctrl,
		registry: mockswarm.NewMockRegistry(ctrl),
		stats:    tally.NewTestScope("", nil),
	}, ctrl.Finish
}

func (m *handlerMocks) new() *Handler {
	return NewHandler(Config{}, m.stats, m.registry)
}

func newLocalHandler() (*Handler, *swarm.KVRegistry) {
	r := swarm.New(kvstore.NewLocalStore())
	return NewHandler(Config{}, tally.NoopScope, r), r
}

func intPtr(n int) *int { return &n }

func requestFixture(h core.InfoHash, p *core.PeerInfo, left uint64, e Event) *Request {
	return &Request{
		InfoHash: h,
		PeerID:   p.PeerID,
		Port:     p.Port,
		Left:     left,
		Event:    e,
		IP:       p.IP,
	}
}

func containsPeer(peers []*core.PeerInfo, p *core.PeerInfo) bool {
	for _, q := range peers {
		if q.Equal(p) {
			return true
		}
	}
	return false
}

func TestConfigDefaults(t *testing.T) {
	require := require.New(t)

	c := Config{}.applyDefaults()
	require.Equal(30*time.Minute, c.Interval)
	require.Equal(30, c.DefaultNumWant)
	require.Equal(200, c.MaxNumWant)
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		input    string
		expected Event
	}{
		{"", EventNone},
		{"empty", EventNone},
		{"started", EventStarted},
		{"stopped", EventStopped},
		{"completed", EventCompleted},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			e, err := ParseEvent(test.input)
			require.NoError(t, err)
			require.Equal(t, test.expected, e)
		})
	}

	_, err := ParseEvent("paused")
	var rerr *RequestError
	require.True(t, errors.As(err, &rerr))
}

func TestEventString(t *testing.T) {
	for _, e := range []Event{EventNone, EventStarted, EventStopped, EventCompleted} {
		result, err := ParseEvent(e.String())
		require.NoError(t, err)
		require.Equal(t, e, result)
	}
}

func TestResponseStatusCode(t *testing.T) {
	require := require.New(t)

	require.Equal(400, Failure(ReasonGetPeers).StatusCode())
	require.Equal(200, (&Response{Interval: 1800}).StatusCode())
}

func TestAnnounceEventTransitions(t *testing.T) {
	h := core.InfoHashFixture()
	p := core.PeerInfoFixture()

	tests := []struct {
		desc   string
		left   uint64
		event  Event
		expect func(r *mockswarm.MockRegistryMockRecorder)
	}{
		{"started leecher", 100, EventStarted, func(r *mockswarm.MockRegistryMockRecorder) {
			r.AddPeer(gomock.Any(), h, p, false).Return(nil)
		}},
		{"started seeder", 0, EventStarted, func(r *mockswarm.MockRegistryMockRecorder) {
			r.AddPeer(gomock.Any(), h, p, true).Return(nil)
		}},
		{"stopped", 100, EventStopped, func(r *mockswarm.MockRegistryMockRecorder) {
			r.RemovePeer(gomock.Any(), h, p).Return(nil)
		}},
		{"completed", 0, EventCompleted, func(r *mockswarm.MockRegistryMockRecorder) {
			r.PromotePeer(gomock.Any(), h, p).Return(nil)
		}},
		{"no event", 100, EventNone, func(r *mockswarm.MockRegistryMockRecorder) {}},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			require := require.New(t)

			mocks, cleanup := newHandlerMocks(t)
			defer cleanup()

			test.expect(mocks.registry.EXPECT())
			mocks.registry.EXPECT().Peers(gomock.Any(), h, test.left == 0, 30).Return(nil, nil, nil)
			mocks.registry.EXPECT().PeerStats(gomock.Any(), h).Return(1, 2, nil)

			resp := mocks.new().Announce(
				context.Background(), requestFixture(h, p, test.left, test.event), _remoteIP)
			require.False(resp.Failed(), resp.FailureReason)
			require.Equal(1800, resp.Interval)
			require.Equal(1, resp.Complete)
			require.Equal(2, resp.Incomplete)
			require.Equal(200, resp.StatusCode())
		})
	}
}

func TestAnnounceUsesRemoteIPWhenRequestHasNone(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newHandlerMocks(t)
	defer cleanup()

	h := core.InfoHashFixture()
	p := core.PeerInfoFixture()
	req := requestFixture(h, p, 10, EventStarted)
	req.IP = nil

	mocks.registry.EXPECT().AddPeer(
		gomock.Any(), h, core.NewPeerInfo(p.PeerID, _remoteIP, p.Port), false).Return(nil)
	mocks.registry.EXPECT().Peers(gomock.Any(), h, false, 30).Return(nil, nil, nil)
	mocks.registry.EXPECT().PeerStats(gomock.Any(), h).Return(0, 1, nil)

	resp := mocks.new().Announce(context.Background(), req, _remoteIP)
	require.False(resp.Failed())
}

func TestAnnounceWithoutAnyIP(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newHandlerMocks(t)
	defer cleanup()

	req := requestFixture(core.InfoHashFixture(), core.PeerInfoFixture(), 10, EventStarted)
	req.IP = nil

	resp := mocks.new().Announce(context.Background(), req, nil)
	require.Equal(ReasonNoIP, resp.FailureReason)
	require.Equal(400, resp.StatusCode())

	require.Equal(int64(1), mocks.stats.Snapshot().Counters()["failures+kind=request,module=announce"].Value())
}

func TestAnnounceWithoutEventDoesNotNeedIP(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newHandlerMocks(t)
	defer cleanup()

	h := core.InfoHashFixture()
	req := requestFixture(h, core.PeerInfoFixture(), 10, EventNone)
	req.IP = nil

	mocks.registry.EXPECT().Peers(gomock.Any(), h, false, 30).Return(nil, nil, nil)
	mocks.registry.EXPECT().PeerStats(gomock.Any(), h).Return(0, 0, nil)

	resp := mocks.new().Announce(context.Background(), req, nil)
	require.False(resp.Failed())
}

func TestAnnounceNumWant(t *testing.T) {
	tests := []struct {
		desc     string
		numWant  *int
		expected int
	}{
		{"default", nil, 30},
		{"explicit", intPtr(5), 5},
		{"zero", intPtr(0), 0},
		{"capped", intPtr(100000), 200},
		{"negative", intPtr(-1), 0},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			mocks, cleanup := newHandlerMocks(t)
			defer cleanup()

			h := core.InfoHashFixture()
			req := requestFixture(h, core.PeerInfoFixture(), 10, EventNone)
			req.NumWant = test.numWant

			mocks.registry.EXPECT().Peers(gomock.Any(), h, false, test.expected).Return(nil, nil, nil)
			mocks.registry.EXPECT().PeerStats(gomock.Any(), h).Return(0, 0, nil)

			require.False(t, mocks.new().Announce(context.Background(), req, _remoteIP).Failed())
		})
	}
}

func TestAnnounceFailures(t *testing.T) {
	h := core.InfoHashFixture()
	p := core.PeerInfoFixture()
	storeErr := &swarm.StorageError{Op: "test", Err: errors.New("connection refused")}
	decodeErr := &swarm.DecodeError{Data: []byte("x"), Reason: "too short"}

	tests := []struct {
		desc   string
		event  Event
		expect func(r *mockswarm.MockRegistryMockRecorder)
		reason string
		kind   string
	}{
		{"add", EventStarted, func(r *mockswarm.MockRegistryMockRecorder) {
			r.AddPeer(gomock.Any(), h, p, false).Return(storeErr)
		}, ReasonAddPeer, "storage"},
		{"remove", EventStopped, func(r *mockswarm.MockRegistryMockRecorder) {
			r.RemovePeer(gomock.Any(), h, p).Return(storeErr)
		}, ReasonRemovePeer, "storage"},
		{"promote", EventCompleted, func(r *mockswarm.MockRegistryMockRecorder) {
			r.PromotePeer(gomock.Any(), h, p).Return(storeErr)
		}, ReasonPromotePeer, "storage"},
		{"peers", EventNone, func(r *mockswarm.MockRegistryMockRecorder) {
			r.Peers(gomock.Any(), h, false, 30).Return(nil, nil, storeErr)
		}, ReasonGetPeers, "storage"},
		{"corrupt peer", EventNone, func(r *mockswarm.MockRegistryMockRecorder) {
			r.Peers(gomock.Any(), h, false, 30).Return(nil, nil, decodeErr)
		}, ReasonGetPeers, "decode"},
		{"stats after mutation", EventStarted, func(r *mockswarm.MockRegistryMockRecorder) {
			r.AddPeer(gomock.Any(), h, p, false).Return(nil)
			r.Peers(gomock.Any(), h, false, 30).Return(nil, nil, nil)
			r.PeerStats(gomock.Any(), h).Return(0, 0, storeErr)
		}, ReasonGetPeerStats, "storage"},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			require := require.New(t)

			mocks, cleanup := newHandlerMocks(t)
			defer cleanup()

			test.expect(mocks.registry.EXPECT())

			resp := mocks.new().Announce(
				context.Background(), requestFixture(h, p, 10, test.event), _remoteIP)
			require.Equal(test.reason, resp.FailureReason)
			require.Equal(400, resp.StatusCode())
			require.Nil(resp.Peers)

			counters := mocks.stats.Snapshot().Counters()
			require.Equal(int64(1), counters["failures+kind="+test.kind+",module=announce"].Value())
		})
	}
}

func TestAnnounceLeecherVisibleToOthers(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	handler, _ := newLocalHandler()

	h := core.InfoHashFixture()
	a := core.NewPeerInfo(core.PeerIDFixture(), net.ParseIP("10.1.1.1"), 6881)
	b := core.PeerInfoFixture()

	resp := handler.Announce(ctx, requestFixture(h, a, 1000, EventStarted), nil)
	require.False(resp.Failed())

	req := requestFixture(h, b, 500, EventNone)
	req.NumWant = intPtr(30)
	resp = handler.Announce(ctx, req, nil)
	require.False(resp.Failed())
	require.True(containsPeer(resp.Peers, a))
	require.Empty(resp.Peers6)
	require.Equal(1, resp.Incomplete)
	require.Equal(0, resp.Complete)
}

func TestAnnounceSeederSeesOnlyLeechers(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	handler, _ := newLocalHandler()

	h := core.InfoHashFixture()
	a := core.PeerInfoFixture()
	other := core.PeerInfoFixture()
	b := core.PeerInfo6Fixture()

	require.False(handler.Announce(ctx, requestFixture(h, a, 0, EventStarted), nil).Failed())
	require.False(handler.Announce(ctx, requestFixture(h, other, 0, EventStarted), nil).Failed())
	require.False(handler.Announce(ctx, requestFixture(h, b, 10, EventStarted), nil).Failed())

	resp := handler.Announce(ctx, requestFixture(h, b, 10, EventNone), nil)
	require.False(resp.Failed())
	require.True(containsPeer(resp.Peers, a))
	require.True(containsPeer(resp.Peers, other))
	require.Equal(2, resp.Complete)
	require.Equal(1, resp.Incomplete)

	resp = handler.Announce(ctx, requestFixture(h, a, 0, EventNone), nil)
	require.False(resp.Failed())
	require.Empty(resp.Peers)
	require.Len(resp.Peers6, 1)
	require.True(resp.Peers6[0].Equal(b))

	// Stopping seeders still get the leecher-only list.
	resp = handler.Announce(ctx, requestFixture(h, a, 0, EventStopped), nil)
	require.False(resp.Failed())
	require.Len(resp.Peers6, 1)
	require.Equal(1, resp.Complete)
}

func TestAnnounceStoppedRemovesPeer(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	handler, _ := newLocalHandler()

	h := core.InfoHashFixture()
	a := core.PeerInfoFixture()
	b := core.PeerInfoFixture()

	require.False(handler.Announce(ctx, requestFixture(h, a, 10, EventStarted), nil).Failed())
	require.False(handler.Announce(ctx, requestFixture(h, b, 10, EventStarted), nil).Failed())

	resp := handler.Announce(ctx, requestFixture(h, a, 10, EventStopped), nil)
	require.False(resp.Failed())
	require.Equal(1, resp.Incomplete)
	require.False(containsPeer(resp.Peers, a))

	resp = handler.Announce(ctx, requestFixture(h, b, 10, EventNone), nil)
	require.False(containsPeer(resp.Peers, a))
}

func TestAnnounceCompletedIsIdempotent(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	handler, registry := newLocalHandler()

	h := core.InfoHashFixture()
	a := core.PeerInfoFixture()
	b := core.PeerInfoFixture()

	require.False(handler.Announce(ctx, requestFixture(h, a, 10, EventStarted), nil).Failed())
	require.False(handler.Announce(ctx, requestFixture(h, b, 10, EventStarted), nil).Failed())

	resp := handler.Announce(ctx, requestFixture(h, a, 0, EventCompleted), nil)
	require.False(resp.Failed())
	require.Equal(1, resp.Complete)
	require.Equal(1, resp.Incomplete)

	resp = handler.Announce(ctx, requestFixture(h, a, 0, EventCompleted), nil)
	require.False(resp.Failed())
	require.Equal(1, resp.Complete)
	require.Equal(1, resp.Incomplete)

	seeders, leechers, err := registry.PeerStats(ctx, h)
	require.NoError(err)
	require.Equal(1, seeders)
	require.Equal(1, leechers)
}

func TestAnnounceNumWantTruncatesListing(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	handler, _ := newLocalHandler()

	h := core.InfoHashFixture()
	for i := 0; i < 5; i++ {
		require.False(handler.Announce(ctx, requestFixture(h, core.PeerInfoFixture(), 10, EventStarted), nil).Failed())
	}

	req := requestFixture(h, core.PeerInfoFixture(), 10, EventNone)
	req.NumWant = intPtr(2)
	resp := handler.Announce(ctx, req, nil)
	require.False(resp.Failed())
	require.Len(resp.Peers, 2)
	require.Equal(5, resp.Incomplete)
}

func TestAnnounceCountsEvents(t *testing.T) {
	require := require.New(t)

	stats := tally.NewTestScope("", nil)
	handler := NewHandler(Config{}, stats, swarm.New(kvstore.NewLocalStore()))

	h := core.InfoHashFixture()
	p := core.PeerInfoFixture()
	handler.Announce(context.Background(), requestFixture(h, p, 10, EventStarted), nil)
	handler.Announce(context.Background(), requestFixture(h, p, 10, EventNone), nil)

	counters := stats.Snapshot().Counters()
	require.Equal(int64(1), counters["events+event=started,module=announce"].Value())
	require.Equal(int64(1), counters["events+event=none,module=announce"].Value())
}
