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
	"encoding/base64"
	"encoding/binary"
)

// encoder builds outbound frames. Unlike the decoder it carries no
// in-flight state between calls: every send is a complete, unfragmented,
// unmasked frame, since a server never masks and this adapter never splits
// outgoing messages.
type encoder struct {
	base64 bool
}

// send writes src as a single complete frame: BINARY opcode carrying raw
// bytes, or TEXT opcode carrying a Base64 encoding of src, depending on
// which subprotocol the handshake negotiated. It returns the number of
// bytes of src consumed (always len(src) on success, since partial frames
// are never produced).
func (e *encoder) send(io ByteIO, src []byte) (int, error) {
	op := OpBinary
	payload := src
	if e.base64 {
		op = OpText
		payload = make([]byte, base64.StdEncoding.EncodedLen(len(src)))
		base64.StdEncoding.Encode(payload, src)
	}

	if err := e.writeFrame(io, op, payload); err != nil {
		return 0, err
	}
	return len(src), nil
}

// sendControl writes a complete, unmasked control frame (PONG, PING, or
// CLOSE). A payload longer than the 125-byte control frame limit is
// truncated to that limit.
func (e *encoder) sendControl(io ByteIO, op Opcode, payload []byte) error {
	if len(payload) > wsMaxControlPayload {
		payload = payload[:wsMaxControlPayload]
	}
	return e.writeFrame(io, op, payload)
}

func (e *encoder) writeFrame(io ByteIO, op Opcode, payload []byte) error {
	header := buildFrameHeader(op, len(payload))
	if err := writeAll(io, header); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	return writeAll(io, payload)
}

// buildFrameHeader encodes a FIN=1, mask=0 frame header using the shortest
// length encoding that fits n, per RFC 6455 5.2.
func buildFrameHeader(op Opcode, n int) []byte {
	switch {
	case n <= len7Max:
		return []byte{finBit | byte(op), byte(n)}
	case n <= 0xFFFF:
		h := make([]byte, 4)
		h[0] = finBit | byte(op)
		h[1] = len16Tag
		binary.BigEndian.PutUint16(h[2:], uint16(n))
		return h
	default:
		h := make([]byte, 10)
		h[0] = finBit | byte(op)
		h[1] = len64Tag
		binary.BigEndian.PutUint64(h[2:], uint64(n))
		return h
	}
}

// writeAll loops Write until buf is fully written, following the ByteIO
// contract that a single Write may accept fewer bytes than offered.
func writeAll(io ByteIO, buf []byte) error {
	for len(buf) > 0 {
		n, err := io.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}
