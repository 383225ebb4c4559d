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
	"io"
	"net"
	"testing"
	"time"
)

func TestConnAdapterPeekThenReadReplays(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		client.Write([]byte("GET / HTTP/1.1\r\n\r\n"))
	}()

	io := NewByteIO(server)

	var peek [4]byte
	n, err := io.PeekTimeout(peek[:], time.Second)
	if err != nil {
		t.Fatalf("PeekTimeout: %v", err)
	}
	if n != 4 || string(peek[:]) != "GET " {
		t.Fatalf("peeked %q, want %q", peek[:n], "GET ")
	}

	rest := make([]byte, 64)
	total := 0
	for total < len("GET / HTTP/1.1\r\n\r\n") {
		n, err := io.Read(rest[total:])
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		total += n
	}
	if string(rest[:total]) != "GET / HTTP/1.1\r\n\r\n" {
		t.Fatalf("replayed bytes = %q, want the full request line", rest[:total])
	}
}

func TestPrefixedConnReplaysPrefixBeforeUnderlying(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		client.Write([]byte("WORLD"))
	}()

	pc := &prefixedConn{Conn: server, prefix: []byte("HELLO")}

	buf := make([]byte, 5)
	if _, err := io.ReadFull(pc, buf); err != nil {
		t.Fatalf("read prefix: %v", err)
	}
	if string(buf) != "HELLO" {
		t.Fatalf("first read = %q, want %q", buf, "HELLO")
	}

	if _, err := io.ReadFull(pc, buf); err != nil {
		t.Fatalf("read underlying: %v", err)
	}
	if string(buf) != "WORLD" {
		t.Fatalf("second read = %q, want %q", buf, "WORLD")
	}
}
