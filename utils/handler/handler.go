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
// Package handler adapts error-returning HTTP handlers to net/http.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/uber/swarmtracker/utils/log"
)

// Error is an HTTP handler error carrying the status to respond with.
type Error struct {
	status int
	msg    string
}

// Errorf creates a new 500 Error with Printf-style formatting.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{http.StatusInternalServerError, fmt.Sprintf(format, args...)}
}

// Status sets a custom status on e.
func (e *Error) Status(s int) *Error {
	e.status = s
	return e
}

func (e *Error) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("server error %d", e.status)
	}
	return fmt.Sprintf("server error %d: %s", e.status, e.msg)
}

// ErrHandler defines an HTTP handler which returns an error.
type ErrHandler func(http.ResponseWriter, *http.Request) error

// Wrap converts h into an http.HandlerFunc. A returned *Error sets the
// status and body; any other error is a 500. Every response of 400 or more,
// other than 404, is logged, including statuses h wrote itself.
func Wrap(h ErrHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sw := &StatusWriter{ResponseWriter: w, status: http.StatusOK}
		var msg string
		if err := h(sw, r); err != nil {
			status := http.StatusInternalServerError
			msg = err.Error()
			var herr *Error
			if errors.As(err, &herr) {
				status = herr.status
				msg = herr.msg
			}
			sw.WriteHeader(status)
			sw.Write([]byte(msg))
		}
		if sw.status >= 400 && sw.status != http.StatusNotFound {
			log.With(
				"status", sw.status,
				"method", r.Method,
				"path", r.URL.Path).Infof("Request failed: %s", msg)
		}
	}
}

// StatusWriter records the first status code written through it.
type StatusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

// WriteHeader records s and forwards it. Later calls are dropped.
func (w *StatusWriter) WriteHeader(s int) {
	if w.wrote {
		return
	}
	w.status = s
	w.wrote = true
	w.ResponseWriter.WriteHeader(s)
}

func (w *StatusWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Status returns the status written so far.
func (w *StatusWriter) Status() int {
	return w.status
}
