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

import "github.com/nats-io/nuid"

// Session is one upgraded WebSocket connection: a decoder and encoder
// sharing a ByteIO and the subprotocol chosen during the handshake.
//
// A Session is not safe for concurrent use: the host must serialize all
// calls on it, Recv and Send included. Recv can itself write to the ByteIO
// (an automatic PONG when AutoPong was set at handshake), so a Recv running
// alongside a Send can interleave the bytes of two frames on the wire.
type Session struct {
	io     ByteIO
	dec    *decoder
	enc    *encoder
	path   string
	scheme string
	id     string

	autoPong bool
}

func newSession(io ByteIO, base64Mode bool, path, scheme string, autoPong bool) *Session {
	s := &Session{
		io:       io,
		dec:      newDecoder(base64Mode),
		enc:      &encoder{base64: base64Mode},
		path:     path,
		scheme:   scheme,
		id:       nuid.Next(),
		autoPong: autoPong,
	}
	s.dec.pingHandler = s.handlePing
	return s
}

func (s *Session) handlePing(payload []byte) {
	if !s.autoPong {
		return
	}
	// Best-effort: a PONG write failure here surfaces on the next Send or
	// Recv call through the ByteIO's own error reporting.
	_ = s.enc.sendControl(s.io, OpPong, payload)
}

// Recv decodes and returns the next chunk of application payload into dst.
// One call performs at most one underlying read for the frame header and
// one for the payload. It returns n==0, err==nil once the peer has closed
// the connection at a frame boundary; its errors are the sentinels in
// errors.go (ErrWouldBlock, ErrProtocol, ErrConnReset, ErrInternal) or a
// wrapped error from the ByteIO.
func (s *Session) Recv(dst []byte) (int, error) {
	return s.dec.recv(s.io, dst)
}

// Send encodes src as a single complete frame and writes it to the
// underlying connection, blocking until the whole frame is written or an
// error occurs.
func (s *Session) Send(src []byte) (int, error) {
	return s.enc.send(s.io, src)
}

// Close sends a CLOSE frame with the given status code and reason, best
// effort. Callers still need to tear down the underlying ByteIO
// themselves; Close does not wait for the peer's own CLOSE frame.
func (s *Session) Close(code uint16, reason string) error {
	payload := make([]byte, 2+len(reason))
	payload[0] = byte(code >> 8)
	payload[1] = byte(code)
	copy(payload[2:], reason)
	return s.enc.sendControl(s.io, OpClose, payload)
}

// HasBufferedData reports whether the decoder holds decoded bytes that
// Recv has not yet returned, or the ByteIO itself has bytes buffered below
// the level a poller would see (e.g. inside a TLS record). Header bytes of
// a following frame that the decoder kept over from an earlier read are
// not counted.
func (s *Session) HasBufferedData() bool {
	return s.dec.readLen > 0 || s.io.Pending() > 0
}

// CheckDisconnect always reports false: this transport has no
// out-of-band signal for a dropped peer beyond the usual read/write
// errors.
func (s *Session) CheckDisconnect() bool {
	return false
}

// Path returns the request path the client asked to upgrade, e.g. "/".
func (s *Session) Path() string {
	return s.path
}

// Scheme returns "ws" or "wss", depending on whether the handshake
// dispatch detected a TLS ClientHello before the upgrade request.
func (s *Session) Scheme() string {
	return s.scheme
}

// ID returns a short, unique, non-cryptographic identifier for this
// session, suitable for log correlation.
func (s *Session) ID() string {
	return s.id
}

// LastClose returns the status code and reason parsed out of the most
// recently received CLOSE frame. Only meaningful once Recv has returned
// ErrConnReset.
func (s *Session) LastClose() CloseInfo {
	return s.dec.closeInfo
}
