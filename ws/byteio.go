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
	"crypto/tls"
	"net"
	"time"
)

// ByteIO is the byte-oriented, possibly TLS-wrapped connection a Session
// reads and writes through. The core never knows whether it is talking to
// a plain net.Conn or a crypto/tls.Conn.
//
// Read follows the ordinary io.Reader convention: io.EOF means the peer
// closed the connection cleanly, with no more bytes ever coming; n==0,
// err==ErrWouldBlock means no data is available yet on a non-blocking
// ByteIO and the caller should retry on readability; any other non-nil
// err is a genuine I/O failure. A blocking ByteIO (the common case, one
// goroutine per connection) never returns ErrWouldBlock: Read simply
// blocks until there is data, an error, or io.EOF. The decoder maps an
// io.EOF seen at a frame boundary to a quiet n==0, err==nil from Recv;
// one seen mid-frame is returned from Recv as an error wrapping io.EOF,
// since the peer vanished with a frame half-delivered.
type ByteIO interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)

	// Pending reports bytes already buffered by a lower transport layer
	// (e.g. TLS record buffering) that a select/poll on the raw file
	// descriptor would not see. Returns 0 for a plain TCP connection.
	Pending() int

	// PeekTimeout returns up to len(p) bytes without consuming them from
	// the stream, waiting at most timeout for the first byte. It is used
	// only during the initial handshake dispatch, to inspect the first
	// few bytes of a connection before deciding whether it is a Flash
	// policy probe, a TLS ClientHello, or a plain HTTP upgrade request.
	// Implementations that cannot truly peek (no short-lived buffering
	// available) may approximate it by reading into an internal buffer
	// and prefixing subsequent Read calls with it; connAdapter below does
	// exactly that.
	PeekTimeout(p []byte, timeout time.Duration) (n int, err error)
}

// connAdapter turns a net.Conn (plain TCP or already-wrapped TLS) into a
// ByteIO. It is the default adapter a host process hands to Handshake;
// hosts with their own buffering (e.g. already sitting behind a
// bufio.Reader) should implement ByteIO directly instead of double
// buffering.
type connAdapter struct {
	conn net.Conn

	// peeked holds bytes read ahead of the caller during PeekTimeout,
	// to be replayed by the next Read calls.
	peeked    []byte
	peekedPos int
}

// NewByteIO wraps a net.Conn (which may already be a *tls.Conn) as a
// ByteIO suitable for passing to Handshake.
func NewByteIO(conn net.Conn) ByteIO {
	return &connAdapter{conn: conn}
}

func (c *connAdapter) Read(p []byte) (int, error) {
	if c.peekedPos < len(c.peeked) {
		n := copy(p, c.peeked[c.peekedPos:])
		c.peekedPos += n
		if c.peekedPos == len(c.peeked) {
			c.peeked = nil
			c.peekedPos = 0
		}
		return n, nil
	}
	return c.conn.Read(p)
}

func (c *connAdapter) Write(p []byte) (int, error) {
	return c.conn.Write(p)
}

// tlsPending is the small interface connAdapter.Pending forwards to when
// the wrapped net.Conn implements it. *tls.Conn does not implement it, so
// Pending returns 0 for a TLS connection, including one set up by
// UpgradeServerTLS; callers that want Pending() to reflect TLS record
// buffering should supply their own ByteIO.
type tlsPending interface {
	Pending() int
}

func (c *connAdapter) Pending() int {
	if p, ok := c.conn.(tlsPending); ok {
		return p.Pending()
	}
	return 0
}

func (c *connAdapter) PeekTimeout(p []byte, timeout time.Duration) (int, error) {
	if c.peekedPos < len(c.peeked) {
		n := copy(p, c.peeked[c.peekedPos:])
		return n, nil
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	defer c.conn.SetReadDeadline(time.Time{})

	buf := make([]byte, len(p))
	n, err := c.conn.Read(buf)
	if n > 0 {
		c.peeked = buf[:n]
		c.peekedPos = 0
		copy(p, buf[:n])
	}
	return n, err
}

// TLSUpgrader is implemented by a ByteIO that can splice TLS into an
// already-open connection, used when the handshake dispatch peeks a TLS
// ClientHello and must continue the rest of the exchange over TLS instead
// of the raw socket.
type TLSUpgrader interface {
	UpgradeServerTLS(cfg *tls.Config) error
}

// UpgradeServerTLS performs a server-side TLS handshake over the wrapped
// connection, taking care to replay any bytes already consumed by a prior
// PeekTimeout so the TLS record layer sees the full ClientHello.
func (c *connAdapter) UpgradeServerTLS(cfg *tls.Config) error {
	var raw net.Conn = c.conn
	if c.peekedPos < len(c.peeked) {
		raw = &prefixedConn{Conn: c.conn, prefix: c.peeked[c.peekedPos:]}
	}

	tlsConn := tls.Server(raw, cfg)
	if err := tlsConn.Handshake(); err != nil {
		return err
	}

	c.conn = tlsConn
	c.peeked = nil
	c.peekedPos = 0
	return nil
}

// prefixedConn replays a handful of already-read bytes ahead of the
// wrapped connection's own stream, so a buffered peek can be fed back
// into a fresh protocol handshake without losing data.
type prefixedConn struct {
	net.Conn
	prefix []byte
}

func (p *prefixedConn) Read(b []byte) (int, error) {
	if len(p.prefix) > 0 {
		n := copy(b, p.prefix)
		p.prefix = p.prefix[n:]
		return n, nil
	}
	return p.Conn.Read(b)
}
