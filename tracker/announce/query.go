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

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/uber/swarmtracker/core"
)

// ParseQuery parses the raw query string of an announce. Values are
// percent-decoded without turning '+' into a space, since info_hash and
// peer_id are arbitrary bytes. Unknown parameters are ignored, and the first
// occurrence of a repeated parameter wins. All errors are RequestErrors.
func ParseQuery(rawQuery string) (*Request, error) {
	params := make(map[string]string)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.PathUnescape(k)
		if err != nil {
			return nil, &RequestError{"Malformed query"}
		}
		val, err := url.PathUnescape(v)
		if err != nil {
			return nil, &RequestError{"Invalid " + key}
		}
		if _, ok := params[key]; !ok {
			params[key] = val
		}
	}

	req := new(Request)

	v, ok := params["info_hash"]
	if !ok {
		return nil, &RequestError{"Missing info_hash"}
	}
	h, err := core.NewInfoHashFromBytes([]byte(v))
	if err != nil {
		return nil, &RequestError{"Invalid info_hash"}
	}
	req.InfoHash = h

	v, ok = params["peer_id"]
	if !ok {
		return nil, &RequestError{"Missing peer_id"}
	}
	pid, err := core.NewPeerIDFromBytes([]byte(v))
	if err != nil {
		return nil, &RequestError{"Invalid peer_id"}
	}
	req.PeerID = pid

	v, ok = params["port"]
	if !ok {
		return nil, &RequestError{"Missing port"}
	}
	port, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return nil, &RequestError{"Invalid port"}
	}
	req.Port = uint16(port)

	v, ok = params["left"]
	if !ok {
		return nil, &RequestError{"Missing left"}
	}
	req.Left, err = strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, &RequestError{"Invalid left"}
	}

	req.Event, err = ParseEvent(params["event"])
	if err != nil {
		return nil, err
	}

	if v := params["ip"]; v != "" {
		req.IP = net.ParseIP(v)
		if req.IP == nil {
			return nil, &RequestError{"Invalid ip"}
		}
	}

	if v, ok := params["numwant"]; ok {
		n, err := strconv.ParseUint(v, 10, 31)
		if err != nil {
			return nil, &RequestError{"Invalid numwant"}
		}
		numWant := int(n)
		req.NumWant = &numWant
	}

	return req, nil
}

// Query encodes r as a raw announce query string. Every byte outside the
// unreserved set is percent-encoded.
func (r *Request) Query() string {
	var b strings.Builder
	add := func(k string, v []byte) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		escape(&b, v)
	}
	add("info_hash", r.InfoHash[:])
	add("peer_id", r.PeerID[:])
	add("port", []byte(strconv.FormatUint(uint64(r.Port), 10)))
	add("left", []byte(strconv.FormatUint(r.Left, 10)))
	if r.Event != EventNone {
		add("event", []byte(r.Event.String()))
	}
	if r.IP != nil {
		add("ip", []byte(r.IP.String()))
	}
	if r.NumWant != nil {
		add("numwant", []byte(strconv.Itoa(*r.NumWant)))
	}
	return b.String()
}

const hexDigits = "0123456789ABCDEF"

func escape(b *strings.Builder, v []byte) {
	for _, c := range v {
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
}

func unreserved(c byte) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}
