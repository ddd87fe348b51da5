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
	"io"

	"github.com/uber-go/tally"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newDisabledScope(Config, string) (tally.Scope, io.Closer, error) {
	return tally.NoopScope, nopCloser{}, nil
}
