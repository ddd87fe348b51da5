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
package main

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/montanaflynn/stats"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/uber/swarmtracker/core"
	"github.com/uber/swarmtracker/tracker/announce"
	"github.com/uber/swarmtracker/tracker/announceclient"
	"github.com/uber/swarmtracker/utils/randutil"
)

type recorder struct {
	successes atomic.Int64
	failures  atomic.Int64

	mu        sync.Mutex
	latencies stats.Float64Data
}

func (r *recorder) record(latency time.Duration, err error) {
	if err != nil {
		r.failures.Inc()
		log.Printf("ERROR: %s", err)
		return
	}
	r.successes.Inc()
	r.mu.Lock()
	r.latencies = append(r.latencies, latency.Seconds())
	r.mu.Unlock()
}

func (r *recorder) report() {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Printf("successes: %d", r.successes.Load())
	log.Printf("failures: %d", r.failures.Load())
	if len(r.latencies) == 0 {
		return
	}
	p50, _ := stats.Median(r.latencies)
	p95, _ := stats.Percentile(r.latencies, 95)
	p99, _ := stats.Percentile(r.latencies, 99)
	log.Printf("p50: %.4fs", p50)
	log.Printf("p95: %.4fs", p95)
	log.Printf("p99: %.4fs", p99)
}

// peer simulates a single client downloading each torrent in a random order:
// started, a number of periodic announces, completed, then stopped.
type peer struct {
	client   announceclient.Client
	limiter  *rate.Limiter
	rec      *recorder
	info     *core.PeerInfo
	periodic int
}

func (p *peer) announce(ctx context.Context, h core.InfoHash, left uint64, event announce.Event) error {
	if err := p.limiter.Wait(ctx); err != nil {
		// Wait fails early when the next token lands past the deadline.
		<-ctx.Done()
		return ctx.Err()
	}
	start := time.Now()
	_, err := p.client.Announce(ctx, &announce.Request{
		InfoHash: h,
		PeerID:   p.info.PeerID,
		Port:     p.info.Port,
		Left:     left,
		Event:    event,
		IP:       p.info.IP,
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	p.rec.record(time.Since(start), err)
	return nil
}

func (p *peer) run(ctx context.Context, torrents []core.InfoHash) error {
	order := make([]int, len(torrents))
	for i := range order {
		order[i] = i
	}
	for {
		randutil.ShuffleInts(order)
		for _, i := range order {
			h := torrents[i]
			if err := p.announce(ctx, h, 1, announce.EventStarted); err != nil {
				return err
			}
			for j := 0; j < p.periodic; j++ {
				if err := p.announce(ctx, h, 1, announce.EventNone); err != nil {
					return err
				}
			}
			if err := p.announce(ctx, h, 0, announce.EventCompleted); err != nil {
				return err
			}
			if err := p.announce(ctx, h, 0, announce.EventStopped); err != nil {
				return err
			}
		}
	}
}

func main() {
	app := kingpin.New("trackerload", "Tracker announce load testing tool")

	tracker := app.Flag("tracker", "Tracker address (host:port)").Required().String()
	numPeers := app.Flag("num_peers", "Number of peers to simulate").Short('n').Default("100").Int()
	numTorrents := app.Flag("num_torrents", "Number of torrents shared by the peers").Short('t').Default("10").Int()
	periodic := app.Flag("periodic", "Periodic announces per torrent between started and completed").Default("2").Int()
	qps := app.Flag("rate", "Total announces per second").Short('r').Default("100").Float64()
	duration := app.Flag("duration", "How long to generate load").Short('d').Default("30s").Duration()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if *numPeers <= 0 || *numTorrents <= 0 {
		log.Fatal("num_peers and num_torrents must be positive")
	}

	torrents := make([]core.InfoHash, *numTorrents)
	for i := range torrents {
		torrents[i] = core.InfoHashFixture()
	}

	client := announceclient.New(announceclient.Config{}, *tracker)
	limiter := rate.NewLimiter(rate.Limit(*qps), 1)
	rec := &recorder{}

	loadCtx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	g, ctx := errgroup.WithContext(loadCtx)
	for i := 0; i < *numPeers; i++ {
		p := &peer{
			client:   client,
			limiter:  limiter,
			rec:      rec,
			info:     core.PeerInfoFixture(),
			periodic: *periodic,
		}
		g.Go(func() error {
			return p.run(ctx, torrents)
		})
	}
	if err := g.Wait(); err != nil && loadCtx.Err() == nil {
		log.Printf("Load generation stopped early: %s", err)
	}
	rec.report()
}
