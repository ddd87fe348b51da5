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
// Package httputil wraps net/http requests with status checks and retries.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
)

// StatusError occurs if an HTTP response has an unexpected status code.
type StatusError struct {
	Method       string
	URL          string
	Status       int
	ResponseDump string
}

// NewStatusError returns a new StatusError. resp.Body is consumed.
func NewStatusError(resp *http.Response) StatusError {
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
	dump := string(b)
	if err != nil {
		dump = fmt.Sprintf("read body: %s", err)
	}
	return StatusError{
		Method:       resp.Request.Method,
		URL:          resp.Request.URL.String(),
		Status:       resp.StatusCode,
		ResponseDump: dump,
	}
}

func (e StatusError) Error() string {
	return fmt.Sprintf("%s %s %d: %s", e.Method, e.URL, e.Status, e.ResponseDump)
}

// IsStatus returns true if err is a StatusError of the given status.
func IsStatus(err error, status int) bool {
	serr, ok := err.(StatusError)
	return ok && serr.Status == status
}

// NetworkError occurs on any Send error which occurred while trying to send
// the HTTP request, e.g. the given host is unresponsive.
type NetworkError struct {
	err error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.err)
}

// IsNetworkError returns true if err is a NetworkError.
func IsNetworkError(err error) bool {
	_, ok := err.(NetworkError)
	return ok
}

type sendOptions struct {
	ctx           context.Context
	timeout       time.Duration
	acceptedCodes map[int]bool
	headers       map[string]string
	transport     http.RoundTripper
	retry         *retryOptions
}

type retryOptions struct {
	backoff    backoff.BackOff
	retryCodes map[int]bool
}

// SendOption allows overriding defaults for the Send function.
type SendOption func(*sendOptions)

// SendContext sets the context of the request.
func SendContext(ctx context.Context) SendOption {
	return func(o *sendOptions) { o.ctx = ctx }
}

// SendTimeout sets the timeout of each attempt.
func SendTimeout(timeout time.Duration) SendOption {
	return func(o *sendOptions) { o.timeout = timeout }
}

// SendAcceptedCodes specifies which response codes are not errors.
func SendAcceptedCodes(codes ...int) SendOption {
	m := make(map[int]bool)
	for _, c := range codes {
		m[c] = true
	}
	return func(o *sendOptions) { o.acceptedCodes = m }
}

// SendHeaders specifies headers for the request.
func SendHeaders(headers map[string]string) SendOption {
	return func(o *sendOptions) { o.headers = headers }
}

// SendTransport sets the transport of the underlying client.
func SendTransport(transport http.RoundTripper) SendOption {
	return func(o *sendOptions) { o.transport = transport }
}

// RetryOption allows overriding defaults for the SendRetry option.
type RetryOption func(*retryOptions)

// RetryBackoff sets the backoff between attempts.
func RetryBackoff(b backoff.BackOff) RetryOption {
	return func(o *retryOptions) { o.backoff = b }
}

// RetryCodes sets which status codes are retried in addition to 5XX.
func RetryCodes(codes ...int) RetryOption {
	return func(o *retryOptions) {
		for _, c := range codes {
			o.retryCodes[c] = true
		}
	}
}

// SendRetry retries network errors and 5XX responses.
func SendRetry(options ...RetryOption) SendOption {
	retry := &retryOptions{
		backoff: backoff.WithMaxRetries(
			backoff.NewConstantBackOff(250*time.Millisecond), 2),
		retryCodes: make(map[int]bool),
	}
	for _, opt := range options {
		opt(retry)
	}
	return func(o *sendOptions) { o.retry = retry }
}

func (o *retryOptions) shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return IsNetworkError(err)
	}
	return resp.StatusCode >= 500 || o.retryCodes[resp.StatusCode]
}

// Send sends an HTTP request. Responses with unaccepted codes are returned
// as StatusErrors, and failures to reach the server as NetworkErrors.
func Send(method, url string, options ...SendOption) (*http.Response, error) {
	opts := &sendOptions{
		ctx:           context.Background(),
		timeout:       60 * time.Second,
		acceptedCodes: map[int]bool{http.StatusOK: true},
		headers:       map[string]string{},
		transport:     http.DefaultTransport,
	}
	for _, o := range options {
		o(opts)
	}

	client := &http.Client{
		Timeout:   opts.timeout,
		Transport: opts.transport,
	}

	var resp *http.Response
	var err error
	if opts.retry != nil {
		opts.retry.backoff.Reset()
		for {
			resp, err = send(client, method, url, opts)
			if !opts.retry.shouldRetry(resp, err) {
				break
			}
			d := opts.retry.backoff.NextBackOff()
			if d == backoff.Stop {
				break
			}
			if resp != nil {
				resp.Body.Close()
			}
			select {
			case <-time.After(d):
			case <-opts.ctx.Done():
				return nil, NetworkError{opts.ctx.Err()}
			}
		}
	} else {
		resp, err = send(client, method, url, opts)
	}
	if err != nil {
		return nil, err
	}
	if !opts.acceptedCodes[resp.StatusCode] {
		defer resp.Body.Close()
		return nil, NewStatusError(resp)
	}
	return resp, nil
}

func send(client *http.Client, method, url string, opts *sendOptions) (*http.Response, error) {
	req, err := http.NewRequestWithContext(opts.ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %s", err)
	}
	for k, v := range opts.headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, NetworkError{err}
	}
	return resp, nil
}

// Get sends a GET http request.
func Get(url string, options ...SendOption) (*http.Response, error) {
	return Send("GET", url, options...)
}
