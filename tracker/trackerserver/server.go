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
package trackerserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof" // Registers /debug/pprof endpoints in http.DefaultServeMux.
	"strings"
	"sync"

	"github.com/go-chi/chi"
	"github.com/uber-go/tally"

	"github.com/uber/swarmtracker/lib/middleware"
	"github.com/uber/swarmtracker/lib/tracing"
	"github.com/uber/swarmtracker/tracker/announce"
	"github.com/uber/swarmtracker/utils/handler"
	"github.com/uber/swarmtracker/utils/listener"
	"github.com/uber/swarmtracker/utils/log"
)

// Announcer handles parsed announces.
type Announcer interface {
	Announce(ctx context.Context, req *announce.Request, remoteIP net.IP) *announce.Response
}

// Server serves the tracker HTTP API.
type Server struct {
	config    Config
	stats     tally.Scope
	announcer Announcer

	mu  sync.Mutex
	srv *http.Server
}

// New creates a new Server.
func New(config Config, stats tally.Scope, announcer Announcer) *Server {
	config = config.applyDefaults()

	stats = stats.Tagged(map[string]string{
		"module": "trackerserver",
	})

	return &Server{
		config:    config,
		stats:     stats,
		announcer: announcer,
	}
}

// Handler returns an HTTP handler for s.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(tracing.HTTPMiddleware(s.config.ServiceName))
	r.Use(middleware.HitCounter(s.stats))
	r.Use(middleware.StatusCounter(s.stats))
	r.Use(middleware.LatencyTimer(s.stats))

	r.Get("/health", handler.Wrap(s.healthHandler))
	r.Get("/announce", handler.Wrap(s.announceHandler))

	r.Mount("/debug", http.DefaultServeMux)

	return r
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	l, err := listener.Listen(s.config.Listener)
	if err != nil {
		return fmt.Errorf("listen: %s", err)
	}
	log.Infof("Starting tracker server on %s", s.config.Listener)
	return s.Serve(l)
}

// Serve serves on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.New("server already started")
	}
	s.srv = &http.Server{Handler: s.Handler()}
	srv := s.srv
	s.mu.Unlock()

	if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits up to the configured
// timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) error {
	fmt.Fprintln(w, "OK")
	return nil
}

func (s *Server) announceHandler(w http.ResponseWriter, r *http.Request) error {
	var resp *announce.Response
	req, err := announce.ParseQuery(r.URL.RawQuery)
	if err != nil {
		log.Debugf("Rejecting announce %q: %s", r.URL.RawQuery, err)
		resp = announce.Failure(err.Error())
	} else {
		resp = s.announcer.Announce(r.Context(), req, s.clientIP(r))
	}

	var b bytes.Buffer
	if err := announce.EncodeResponse(&b, resp); err != nil {
		return handler.Errorf("bencode response: %s", err)
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(resp.StatusCode())
	w.Write(b.Bytes())
	return nil
}

// clientIP returns the address r was sent from, or nil if it cannot be
// determined.
func (s *Server) clientIP(r *http.Request) net.IP {
	if s.config.TrustForwardedFor {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip
			}
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
