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
package announce

import "fmt"

// Event is the lifecycle event a peer reports with an announce.
type Event int

// Events, in the order BEP 3 introduces them.
const (
	// EventNone marks a periodic re-announce.
	EventNone Event = iota
	EventStarted
	EventStopped
	EventCompleted
)

// ParseEvent converts the wire form of an event. Both the empty string and
// "empty" mean no event.
func ParseEvent(s string) (Event, error) {
	switch s {
	case "", "empty":
		return EventNone, nil
	case "started":
		return EventStarted, nil
	case "stopped":
		return EventStopped, nil
	case "completed":
		return EventCompleted, nil
	default:
		return EventNone, &RequestError{fmt.Sprintf("Invalid event %q", s)}
	}
}

// String returns the wire form of e. EventNone is the empty string.
func (e Event) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventCompleted:
		return "completed"
	default:
		return ""
	}
}

func (e Event) metricTag() string {
	if e == EventNone {
		return "none"
	}
	return e.String()
}
