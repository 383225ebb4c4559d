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

import "errors"

// Sentinel errors returned by Session.Recv, expressed in an errno-like
// vocabulary. Check them with errors.Is, since Recv wraps them with
// call-specific context.
var (
	// ErrWouldBlock is returned when the decoder needs more bytes than are
	// currently available and the caller should retry once the underlying
	// ByteIO becomes readable again. Equivalent to EAGAIN.
	ErrWouldBlock = errors.New("websocket: would block")

	// ErrProtocol is returned when the peer violated RFC 6455: an unmasked
	// frame, a non-minimal length encoding, a fragmented control frame, or
	// a stray continuation frame. Equivalent to EPROTO. The connection must
	// be closed.
	ErrProtocol = errors.New("websocket: protocol violation")

	// ErrConnReset is returned once a complete CLOSE frame has been
	// received from the peer. Equivalent to ECONNRESET.
	ErrConnReset = errors.New("websocket: connection closed by peer")

	// ErrInternal is returned when an invariant of the decoder state
	// machine is violated, which indicates a bug rather than a hostile
	// peer, and by every Recv call after the decoder has stopped on an
	// error or a clean close. Equivalent to EIO.
	ErrInternal = errors.New("websocket: internal decoder error")

	// ErrRejected is returned by Handshake when the connection could not
	// be upgraded and must be torn down by the caller.
	ErrRejected = errors.New("websocket: handshake rejected")

	// ErrNotWebSocket is a distinguished Handshake failure: the initial
	// peek timed out without producing any bytes at all, meaning the
	// caller may choose to treat the connection as a raw (non-WebSocket)
	// stream instead of closing it.
	ErrNotWebSocket = errors.New("websocket: not a websocket connection")
)
