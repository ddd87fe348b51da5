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
package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return sr
}

func TestInitProviderDisabled(t *testing.T) {
	require := require.New(t)

	shutdown, err := InitProvider(context.Background(), Config{})
	require.NoError(err)
	require.NoError(shutdown(context.Background()))
}

func TestInitProviderRequiresServiceName(t *testing.T) {
	_, err := InitProvider(context.Background(), Config{Enabled: true})
	require.Error(t, err)
}

func TestSpanHelpers(t *testing.T) {
	require := require.New(t)

	sr := withRecorder(t)

	ctx, end := StartSpanWithAttributes(context.Background(), "ok", AttrEvent.String("started"))
	SetSpanOK(ctx)
	end()

	ctx, end = StartSpanWithAttributes(context.Background(), "failed")
	RecordSpanError(ctx, errors.New("some error"))
	end()

	spans := sr.Ended()
	require.Len(spans, 2)
	require.Equal("ok", spans[0].Name())
	require.Equal(codes.Ok, spans[0].Status().Code)
	require.Contains(spans[0].Attributes(), AttrEvent.String("started"))
	require.Equal(codes.Error, spans[1].Status().Code)
}

func TestHTTPMiddleware(t *testing.T) {
	require := require.New(t)

	sr := withRecorder(t)

	h := HTTPMiddleware("test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/announce", nil))

	require.Equal(http.StatusTeapot, w.Code)
	spans := sr.Ended()
	require.Len(spans, 1)
	require.Equal("GET /announce", spans[0].Name())
}
