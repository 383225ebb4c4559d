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

import "testing"

func TestHandshakeLimiterBurstThenReject(t *testing.T) {
	lim := NewHandshakeLimiter(1, 2)

	if !lim.Allow("10.0.0.1:1234") {
		t.Fatal("first attempt should be allowed")
	}
	if !lim.Allow("10.0.0.1:1234") {
		t.Fatal("second attempt (within burst) should be allowed")
	}
	if lim.Allow("10.0.0.1:1234") {
		t.Fatal("third attempt should exceed burst and be rejected")
	}
}

func TestHandshakeLimiterPerAddressIndependence(t *testing.T) {
	lim := NewHandshakeLimiter(1, 1)

	if !lim.Allow("10.0.0.1:1") {
		t.Fatal("first address's first attempt should be allowed")
	}
	if lim.Allow("10.0.0.1:1") {
		t.Fatal("first address's second attempt should be rejected")
	}
	if !lim.Allow("10.0.0.2:1") {
		t.Fatal("second address should have its own independent budget")
	}
}

func TestHandshakeLimiterForget(t *testing.T) {
	lim := NewHandshakeLimiter(1, 1)

	lim.Allow("10.0.0.1:1")
	if lim.Allow("10.0.0.1:1") {
		t.Fatal("second attempt before forget should be rejected")
	}

	lim.Forget("10.0.0.1:1")
	if _, ok := lim.limiters["10.0.0.1:1"]; ok {
		t.Fatal("Forget did not remove the per-address entry")
	}
	if !lim.Allow("10.0.0.1:1") {
		t.Fatal("attempt after Forget should be allowed again with a fresh limiter")
	}
}
