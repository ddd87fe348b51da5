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
package errutil

import (
	"bytes"
	"errors"
)

// MultiError combines the errors of independent steps which all ran.
type MultiError []error

func (e MultiError) Error() string {
	var b bytes.Buffer
	for i, err := range e {
		b.WriteString(err.Error())
		if i < len(e)-1 {
			b.WriteString(", ")
		}
	}
	return b.String()
}

// Unwrap exposes the wrapped errors to errors.Is and errors.As.
func (e MultiError) Unwrap() []error {
	return e
}

// Join drops nil entries of errs. It returns nil if nothing is left, the
// single remaining error, or a MultiError.
func Join(errs []error) error {
	var nonNil MultiError
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return nonNil
	}
}

// Is is a shorthand for checking err against any of targets.
func Is(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
