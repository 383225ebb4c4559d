// Copyright 2024 The rfbws Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ws

import (
	"sync"

	"golang.org/x/time/rate"
)

// HandshakeLimiter throttles handshake attempts per remote address, so a
// single misbehaving or hostile peer repeatedly failing the handshake
// (bad key, bad Flash probes, malformed headers) cannot busy-loop a
// listener.
type HandshakeLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	b        int
}

// NewHandshakeLimiter returns a limiter allowing r handshake attempts per
// second, per remote address, with burst b.
func NewHandshakeLimiter(r rate.Limit, b int) *HandshakeLimiter {
	return &HandshakeLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

// Allow reports whether a new handshake attempt from addr should proceed.
func (l *HandshakeLimiter) Allow(addr string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[addr]
	if !ok {
		lim = rate.NewLimiter(l.r, l.b)
		l.limiters[addr] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// Forget drops the per-address limiter state for addr, so long-running
// listeners don't accumulate one entry per distinct client forever.
func (l *HandshakeLimiter) Forget(addr string) {
	l.mu.Lock()
	delete(l.limiters, addr)
	l.mu.Unlock()
}
