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
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uber/swarmtracker/lib/tracing"
	"github.com/uber/swarmtracker/metrics"
	"github.com/uber/swarmtracker/tracker/announce"
	"github.com/uber/swarmtracker/tracker/kvstore"
	"github.com/uber/swarmtracker/tracker/swarm"
	"github.com/uber/swarmtracker/tracker/trackerserver"
	"github.com/uber/swarmtracker/utils/configutil"
	"github.com/uber/swarmtracker/utils/log"
	"github.com/uber/swarmtracker/utils/shutdown"
)

var (
	port       int
	configFile string
	cluster    string

	rootCmd = &cobra.Command{
		Short: "swarmtracker keeps track of the peers in each torrent swarm.",
		Run: func(rootCmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().IntVarP(
		&port, "port", "", 0, "port to listen on, overrides trackerserver.listener.addr")
	rootCmd.PersistentFlags().StringVarP(
		&configFile, "config", "", "", "configuration file path")
	rootCmd.PersistentFlags().StringVarP(
		&cluster, "cluster", "", "", "cluster name (e.g. prod01-zone1)")
}

// Execute runs the tracker.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() {
	var config Config
	if err := configutil.Load(configFile, &config); err != nil {
		panic(err)
	}
	log.ConfigureLogger(config.ZapLogging)

	if port != 0 {
		config.TrackerServer.Listener.Addr = fmt.Sprintf(":%d", port)
	}

	h := shutdown.New(context.Background(), config.TrackerServer.ShutdownTimeout)

	stats, closer, err := metrics.New(config.Metrics, cluster)
	if err != nil {
		log.Fatalf("Failed to init metrics: %s", err)
	}
	h.AddCloser("metrics", closer)

	go metrics.EmitVersion(stats)

	shutdownTracing, err := tracing.InitProvider(h.Context(), config.Tracing)
	if err != nil {
		log.Fatalf("Failed to init tracing: %s", err)
	}
	h.AddCleanup("tracing", shutdownTracing)

	store, err := kvstore.New(config.KVStore)
	if err != nil {
		log.Fatalf("Could not create kvstore: %s", err)
	}
	h.AddCloser("kvstore", store)

	handler := announce.NewHandler(config.Announce, stats, swarm.New(store))
	server := trackerserver.New(config.TrackerServer, stats, handler)
	h.AddCleanup("trackerserver", server.Shutdown)

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Errorf("Tracker server exited: %s", err)
		}
		h.Shutdown()
	}()

	if err := h.Wait(); err != nil {
		log.Errorf("Unclean shutdown: %s", err)
		os.Exit(1)
	}
}
