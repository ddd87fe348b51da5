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
package randutil

import (
	"math/rand"
	"net"
)

const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Text returns randomly generated alphanumeric text of length n.
func Text(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))]
	}
	return b
}

// Bytes returns n random bytes. Unlike Text, any byte value may appear.
func Bytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}

// IP returns a randomly generated, non-zero ipv4 address.
func IP() net.IP {
	return net.IPv4(
		byte(rand.Intn(223)+1),
		byte(rand.Intn(256)),
		byte(rand.Intn(256)),
		byte(rand.Intn(255)+1)).To4()
}

// IP6 returns a randomly generated global unicast ipv6 address.
func IP6() net.IP {
	ip := make(net.IP, net.IPv6len)
	rand.Read(ip)
	// 2000::/3
	ip[0] = 0x20 | (ip[0] & 0x1f)
	return ip
}

// Port returns a randomly generated port.
func Port() uint16 {
	return uint16(rand.Intn(65535) + 1)
}

// ShuffleInts shuffles the values of xs in place.
func ShuffleInts(xs []int) {
	rand.Shuffle(len(xs), func(i, j int) {
		xs[i], xs[j] = xs[j], xs[i]
	})
}
