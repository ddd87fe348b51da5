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
	"github.com/uber-go/tally"

	"github.com/uber/swarmtracker/tracker/announce"
	"github.com/uber/swarmtracker/tracker/kvstore"
	"github.com/uber/swarmtracker/tracker/swarm"
	"github.com/uber/swarmtracker/utils/testutil"
)

// TestAnnouncer is a test utility which starts an in-memory tracker which
// listens for announce requests. Returns the "ip:port" the tracker is running
// on, and a closure for stopping the tracker.
func TestAnnouncer() (addr string, stop func()) {
	h := announce.NewHandler(announce.Config{}, tally.NoopScope, swarm.New(kvstore.NewLocalStore()))
	s := New(Config{}, tally.NoopScope, h)
	return testutil.StartServer(s.Handler())
}
