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
// Package shutdown coordinates graceful process shutdown.
package shutdown

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/uber/swarmtracker/utils/errutil"
	"github.com/uber/swarmtracker/utils/log"
)

type cleanup struct {
	name string
	fn   func(context.Context) error
}

// Handler runs registered cleanups in reverse registration order once
// SIGINT or SIGTERM arrives or Shutdown is called.
type Handler struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration

	mu       sync.Mutex
	cleanups []cleanup

	once sync.Once
	err  error
}

const defaultTimeout = 10 * time.Second

// New creates a Handler. Every cleanup shares a single deadline of timeout,
// which defaults to 10s.
func New(ctx context.Context, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handler{
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sig)
		select {
		case s := <-sig:
			log.Infof("Received signal %v, initiating graceful shutdown", s)
			h.Shutdown()
		case <-ctx.Done():
		}
	}()

	return h
}

// Context is canceled when shutdown begins.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// AddCleanup registers fn under name.
func (h *Handler) AddCleanup(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanups = append(h.cleanups, cleanup{name, fn})
}

// AddCloser registers c.Close under name.
func (h *Handler) AddCloser(name string, c io.Closer) {
	h.AddCleanup(name, func(context.Context) error { return c.Close() })
}

// Shutdown runs every cleanup, even after failures, and returns their
// combined error. Only the first call does any work.
func (h *Handler) Shutdown() error {
	h.once.Do(func() {
		h.cancel()

		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		defer h.mu.Unlock()

		var errs []error
		for i := len(h.cleanups) - 1; i >= 0; i-- {
			c := h.cleanups[i]
			if err := c.fn(ctx); err != nil {
				log.Errorf("Error cleaning up %s: %s", c.name, err)
				errs = append(errs, fmt.Errorf("%s: %s", c.name, err))
			}
		}
		h.err = errutil.Join(errs)
		log.Info("Shutdown complete")
	})
	return h.err
}

// Wait blocks until shutdown begins and returns the result of Shutdown.
func (h *Handler) Wait() error {
	<-h.ctx.Done()
	return h.Shutdown()
}
