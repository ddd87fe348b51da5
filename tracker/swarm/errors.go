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
package swarm

import (
	"encoding/hex"
	"fmt"
)

// StorageError is returned when the underlying store rejects or fails a call.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("swarm %s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DecodeError is returned when a stored member is not a valid encoded peer.
// The offending member is left in place.
type DecodeError struct {
	Data   []byte
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode peer %s: %s", hex.EncodeToString(e.Data), e.Reason)
}
