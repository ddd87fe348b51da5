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
// Package announce turns announce requests into swarm mutations and peer
// handouts.
package announce

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/uber-go/tally"

	"github.com/uber/swarmtracker/core"
	"github.com/uber/swarmtracker/lib/tracing"
	"github.com/uber/swarmtracker/tracker/swarm"
	"github.com/uber/swarmtracker/utils/log"
)

// Handler handles announces against a swarm.Registry. It holds no per-request
// state and is safe for concurrent use.
type Handler struct {
	config   Config
	stats    tally.Scope
	registry swarm.Registry
}

// NewHandler creates a new Handler.
func NewHandler(config Config, stats tally.Scope, registry swarm.Registry) *Handler {
	config = config.applyDefaults()

	stats = stats.Tagged(map[string]string{
		"module": "announce",
	})

	return &Handler{config, stats, registry}
}

// Announce applies req to the swarm and returns the peers the client should
// connect to. remoteIP is the address the request was observed from and may
// be nil. Announce never returns nil; failures are reported as failure
// Responses.
//
// A mutation which succeeded stays in effect even if reading the swarm
// afterwards fails.
func (h *Handler) Announce(ctx context.Context, req *Request, remoteIP net.IP) *Response {
	ctx, end := tracing.StartSpanWithAttributes(ctx, "announce",
		tracing.AttrInfoHash.String(req.InfoHash.Hex()),
		tracing.AttrPeerID.String(req.PeerID.String()),
		tracing.AttrEvent.String(req.Event.metricTag()))
	defer end()

	h.stats.Tagged(map[string]string{"event": req.Event.metricTag()}).Counter("events").Inc(1)

	if req.Event != EventNone {
		ip := req.IP
		if ip == nil || ip.IsUnspecified() {
			ip = remoteIP
		}
		if ip == nil || ip.IsUnspecified() {
			return h.fail(ctx, "request", ReasonNoIP, &RequestError{ReasonNoIP})
		}
		peer := core.NewPeerInfo(req.PeerID, ip, req.Port)
		if resp := h.applyEvent(ctx, req, peer); resp != nil {
			return resp
		}
	}

	ipv4, ipv6, err := h.registry.Peers(ctx, req.InfoHash, req.Seeder(), h.numWant(req))
	if err != nil {
		h.logError(req, "Error getting peers", err)
		return h.fail(ctx, failureKind(err), ReasonGetPeers, err)
	}
	seeders, leechers, err := h.registry.PeerStats(ctx, req.InfoHash)
	if err != nil {
		h.logError(req, "Error getting peer stats", err)
		return h.fail(ctx, failureKind(err), ReasonGetPeerStats, err)
	}

	h.stats.Gauge("peers_handed_out").Update(float64(len(ipv4) + len(ipv6)))
	tracing.SetSpanOK(ctx)

	return &Response{
		Interval:   int(h.config.Interval.Seconds()),
		Complete:   seeders,
		Incomplete: leechers,
		Peers:      ipv4,
		Peers6:     ipv6,
	}
}

// applyEvent performs the swarm mutation req.Event calls for. It returns a
// failure Response if the mutation failed, else nil.
//
//	started    add as seeder if left == 0, else as leecher
//	stopped    remove from both sets
//	completed  move from leechers to seeders
func (h *Handler) applyEvent(ctx context.Context, req *Request, peer *core.PeerInfo) *Response {
	var err error
	var reason string
	switch req.Event {
	case EventNone:
		return nil
	case EventStarted:
		err = h.registry.AddPeer(ctx, req.InfoHash, peer, req.Seeder())
		reason = ReasonAddPeer
	case EventStopped:
		err = h.registry.RemovePeer(ctx, req.InfoHash, peer)
		reason = ReasonRemovePeer
	case EventCompleted:
		err = h.registry.PromotePeer(ctx, req.InfoHash, peer)
		reason = ReasonPromotePeer
	default:
		panic(fmt.Sprintf("unhandled announce event %d", req.Event))
	}
	if err != nil {
		h.logError(req, reason, err)
		return h.fail(ctx, failureKind(err), reason, err)
	}
	return nil
}

func (h *Handler) numWant(req *Request) int {
	n := h.config.DefaultNumWant
	if req.NumWant != nil {
		n = *req.NumWant
	}
	if n < 0 {
		n = 0
	}
	if n > h.config.MaxNumWant {
		n = h.config.MaxNumWant
	}
	return n
}

// fail records err and converts it into a failure Response carrying reason.
// The underlying cause is never shown to the client.
func (h *Handler) fail(ctx context.Context, kind, reason string, err error) *Response {
	h.stats.Tagged(map[string]string{"kind": kind}).Counter("failures").Inc(1)
	tracing.RecordSpanError(ctx, err)
	return Failure(reason)
}

func (h *Handler) logError(req *Request, msg string, err error) {
	log.With(
		"info_hash", req.InfoHash,
		"peer_id", req.PeerID,
		"event", req.Event.String()).Errorf("%s: %s", msg, err)
}

func failureKind(err error) string {
	var derr *swarm.DecodeError
	if errors.As(err, &derr) {
		return "decode"
	}
	return "storage"
}
