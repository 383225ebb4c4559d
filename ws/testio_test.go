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
	"time"
)

// memIO is a ByteIO backed by an in-memory byte slice, used to feed
// precomputed frame bytes to the decoder without touching a real socket.
// It does not implement true non-consuming peeks; PeekTimeout behaves
// exactly like Read, which is sufficient for decoder- and encoder-level
// tests that never call Handshake.
type memIO struct {
	in  []byte
	pos int
	out []byte
}

func newMemIO(in []byte) *memIO {
	return &memIO{in: in}
}

// dribbleIO is a ByteIO that hands back at most max bytes per Read call,
// used to exercise decoder resumption across many short, partial reads.
type dribbleIO struct {
	in  []byte
	pos int
	max int
	out []byte
}

func newDribbleIO(in []byte, max int) *dribbleIO {
	return &dribbleIO{in: in, max: max}
}

func (d *dribbleIO) Read(p []byte) (int, error) {
	if d.pos >= len(d.in) {
		return 0, io.EOF
	}
	n := d.max
	if n > len(p) {
		n = len(p)
	}
	if n > len(d.in)-d.pos {
		n = len(d.in) - d.pos
	}
	copy(p, d.in[d.pos:d.pos+n])
	d.pos += n
	return n, nil
}

func (d *dribbleIO) Write(p []byte) (int, error) {
	d.out = append(d.out, p...)
	return len(p), nil
}

func (d *dribbleIO) Pending() int { return 0 }

func (d *dribbleIO) PeekTimeout(p []byte, _ time.Duration) (int, error) {
	return d.Read(p)
}

func (m *memIO) Read(p []byte) (int, error) {
	if m.pos >= len(m.in) {
		return 0, io.EOF
	}
	n := copy(p, m.in[m.pos:])
	m.pos += n
	return n, nil
}

func (m *memIO) Write(p []byte) (int, error) {
	m.out = append(m.out, p...)
	return len(p), nil
}

func (m *memIO) Pending() int { return 0 }

func (m *memIO) PeekTimeout(p []byte, _ time.Duration) (int, error) {
	return m.Read(p)
}

// peekIO implements a real non-consuming PeekTimeout, for handshake tests
// that rely on peek-then-read semantics (Flash probe / TLS dispatch). Both
// Read and PeekTimeout read from the same underlying slice at pos; only
// Read advances it, so a peek previews without consuming.
type peekIO struct {
	in  []byte
	pos int
	out []byte
}

func newPeekIO(in []byte) *peekIO {
	return &peekIO{in: in}
}

func (p *peekIO) Read(b []byte) (int, error) {
	if p.pos >= len(p.in) {
		return 0, io.EOF
	}
	n := copy(b, p.in[p.pos:])
	p.pos += n
	return n, nil
}

func (p *peekIO) Write(b []byte) (int, error) {
	p.out = append(p.out, b...)
	return len(b), nil
}

func (p *peekIO) Pending() int { return 0 }

func (p *peekIO) PeekTimeout(b []byte, _ time.Duration) (int, error) {
	if p.pos >= len(p.in) {
		return 0, io.EOF
	}
	n := copy(b, p.in[p.pos:])
	return n, nil
}
