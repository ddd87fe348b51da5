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
package httputil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/uber/swarmtracker/utils/testutil"
)

func statusServer(codes ...int) (addr string, calls *atomic.Int32, stop func()) {
	calls = atomic.NewInt32(0)
	addr, stop = testutil.StartServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := int(calls.Inc()) - 1
		if i >= len(codes) {
			i = len(codes) - 1
		}
		w.WriteHeader(codes[i])
		fmt.Fprint(w, "body")
	}))
	return addr, calls, stop
}

func fastRetry(n uint64) SendOption {
	return SendRetry(RetryBackoff(backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), n)))
}

func TestSendAcceptedCodes(t *testing.T) {
	require := require.New(t)

	addr, _, stop := statusServer(http.StatusBadRequest)
	defer stop()

	_, err := Get("http://" + addr)
	require.True(IsStatus(err, http.StatusBadRequest))

	resp, err := Get("http://"+addr, SendAcceptedCodes(http.StatusOK, http.StatusBadRequest))
	require.NoError(err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.Equal("body", string(b))
}

func TestSendRetryOn5XX(t *testing.T) {
	require := require.New(t)

	addr, calls, stop := statusServer(http.StatusServiceUnavailable, http.StatusInternalServerError, http.StatusOK)
	defer stop()

	resp, err := Get("http://"+addr, fastRetry(5))
	require.NoError(err)
	resp.Body.Close()
	require.Equal(int32(3), calls.Load())
}

func TestSendRetryGivesUp(t *testing.T) {
	require := require.New(t)

	addr, calls, stop := statusServer(http.StatusServiceUnavailable)
	defer stop()

	_, err := Get("http://"+addr, fastRetry(2))
	require.True(IsStatus(err, http.StatusServiceUnavailable))
	require.Equal(int32(3), calls.Load())
}

func TestSendDoesNotRetry4XX(t *testing.T) {
	require := require.New(t)

	addr, calls, stop := statusServer(http.StatusNotFound)
	defer stop()

	_, err := Get("http://"+addr, fastRetry(5))
	require.True(IsStatus(err, http.StatusNotFound))
	require.Equal(int32(1), calls.Load())
}

func TestSendRetryCodes(t *testing.T) {
	require := require.New(t)

	addr, calls, stop := statusServer(http.StatusTooManyRequests, http.StatusOK)
	defer stop()

	resp, err := Get("http://"+addr, SendRetry(
		RetryBackoff(backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)),
		RetryCodes(http.StatusTooManyRequests)))
	require.NoError(err)
	resp.Body.Close()
	require.Equal(int32(2), calls.Load())
}

func TestSendNetworkError(t *testing.T) {
	require := require.New(t)

	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(err)
	addr := l.Addr().String()
	l.Close()

	_, err = Get("http://"+addr, fastRetry(1))
	require.True(IsNetworkError(err))
}

func TestSendContextCanceled(t *testing.T) {
	require := require.New(t)

	addr, _, stop := statusServer(http.StatusOK)
	defer stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get("http://"+addr, SendContext(ctx))
	require.True(IsNetworkError(err))
}

func TestSendHeaders(t *testing.T) {
	require := require.New(t)

	var got string
	addr, stop := testutil.StartServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Test")
	}))
	defer stop()

	resp, err := Get("http://"+addr, SendHeaders(map[string]string{"X-Test": "foo"}))
	require.NoError(err)
	resp.Body.Close()
	require.Equal("foo", got)
}
