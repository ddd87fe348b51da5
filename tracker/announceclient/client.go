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
// Package announceclient announces to a tracker over HTTP.
package announceclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff"

	"github.com/uber/swarmtracker/lib/tracing"
	"github.com/uber/swarmtracker/tracker/announce"
	"github.com/uber/swarmtracker/utils/httputil"
)

// FailureError is returned when the tracker rejects an announce.
type FailureError struct {
	Reason string
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("tracker failure: %s", e.Reason)
}

// Client defines a client for announcing and getting peers.
type Client interface {
	Announce(ctx context.Context, req *announce.Request) (*announce.Response, error)
}

// HTTPClient announces to a single tracker over HTTP.
type HTTPClient struct {
	config    Config
	addr      string
	transport http.RoundTripper
}

// New creates a new HTTPClient for the tracker at addr ("host:port").
func New(config Config, addr string) *HTTPClient {
	return &HTTPClient{
		config:    config.applyDefaults(),
		addr:      addr,
		transport: tracing.NewHTTPTransport(nil),
	}
}

func (c *HTTPClient) backoff() backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     c.config.InitialBackoff,
		RandomizationFactor: 0.05,
		Multiplier:          2,
		MaxInterval:         c.config.MaxBackoff,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return backoff.WithMaxRetries(b, c.config.MaxRetries)
}

// Announce sends req to the tracker. A response carrying a failure reason is
// returned as a *FailureError. Network errors and 5XX responses are retried.
func (c *HTTPClient) Announce(ctx context.Context, req *announce.Request) (*announce.Response, error) {
	resp, err := httputil.Get(
		fmt.Sprintf("http://%s/announce?%s", c.addr, req.Query()),
		httputil.SendContext(ctx),
		httputil.SendTimeout(c.config.Timeout),
		httputil.SendTransport(c.transport),
		httputil.SendAcceptedCodes(http.StatusOK, http.StatusBadRequest),
		httputil.SendRetry(httputil.RetryBackoff(c.backoff())))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result, err := announce.DecodeResponse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %s", err)
	}
	if result.Failed() {
		return nil, &FailureError{result.FailureReason}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d without failure reason", resp.StatusCode)
	}
	return result, nil
}
