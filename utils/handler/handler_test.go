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
package handler

import (
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func serve(h ErrHandler) *http.Response {
	w := httptest.NewRecorder()
	Wrap(h).ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	return w.Result()
}

func TestWrapHandlerError(t *testing.T) {
	require := require.New(t)

	resp := serve(func(w http.ResponseWriter, r *http.Request) error {
		return fmt.Errorf("parse: %w", Errorf("bad thing").Status(http.StatusBadRequest))
	})
	require.Equal(http.StatusBadRequest, resp.StatusCode)
	b, _ := ioutil.ReadAll(resp.Body)
	require.Equal("bad thing", string(b))
}

func TestWrapUnknownErrorIs500(t *testing.T) {
	resp := serve(func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("boom")
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestWrapSuccess(t *testing.T) {
	require := require.New(t)

	resp := serve(func(w http.ResponseWriter, r *http.Request) error {
		w.Write([]byte("ok"))
		return nil
	})
	require.Equal(http.StatusOK, resp.StatusCode)
	b, _ := ioutil.ReadAll(resp.Body)
	require.Equal("ok", string(b))
}

func TestStatusWriterRecordsHandlerWrittenStatus(t *testing.T) {
	w := httptest.NewRecorder()
	var status int
	Wrap(func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("d14:failure_reason3:bade"))
		status = w.(*StatusWriter).Status()
		return nil
	}).ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))

	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorString(t *testing.T) {
	require.Equal(t, "server error 503", Errorf("").Status(503).Error())
	require.Equal(t, "server error 500: x", Errorf("x").Error())
}
