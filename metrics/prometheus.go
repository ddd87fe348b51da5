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
package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/uber-go/tally"
	"github.com/uber-go/tally/prometheus"

	"github.com/uber/swarmtracker/utils/log"
)

// prometheusCloser stops both the root scope and the scrape endpoint.
type prometheusCloser struct {
	scope  io.Closer
	server *http.Server
}

func (c *prometheusCloser) Close() error {
	err := c.scope.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := c.server.Shutdown(ctx); serr != nil && err == nil {
		err = serr
	}
	return err
}

func newPrometheusScope(config Config, cluster string) (tally.Scope, io.Closer, error) {
	if config.Prometheus.Addr == "" {
		return nil, nil, errors.New("prometheus addr required")
	}
	reporter := prometheus.NewReporter(prometheus.Options{
		OnRegisterError: func(err error) {
			log.Warnf("Error registering prometheus metric: %s", err)
		},
	})

	l, err := net.Listen("tcp", config.Prometheus.Addr)
	if err != nil {
		return nil, nil, err
	}
	r := chi.NewRouter()
	r.Handle("/metrics", reporter.HTTPHandler())
	server := &http.Server{Handler: r}
	go func() {
		if err := server.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Errorf("Prometheus endpoint stopped: %s", err)
		}
	}()

	s, c := tally.NewRootScope(tally.ScopeOptions{
		Tags:           clusterTags(cluster),
		CachedReporter: reporter,
		Separator:      prometheus.DefaultSeparator,
	}, time.Second)
	return s, &prometheusCloser{c, server}, nil
}
