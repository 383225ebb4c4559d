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

// Command rfbwsd accepts RFC 6455 WebSocket connections on a single
// listening socket, completing the handshake (including legacy Flash
// policy probes and TLS detection) and then echoing whatever application
// payload it receives back to the sender. It stands in for a real
// downstream protocol handler, exercising the full ws package end to end.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime/debug"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/time/rate"

	"github.com/tzrikka/xdg"

	"github.com/vncbridge/rfbws/internal/wslog"
	"github.com/vncbridge/rfbws/ws"
)

func main() {
	bi, _ := debug.ReadBuildInfo()
	version := "(unknown)"
	if bi != nil {
		version = bi.Main.Version
	}

	cmd := &cli.Command{
		Name:    "rfbwsd",
		Usage:   "RFC 6455 WebSocket transport daemon",
		Version: version,
		Flags:   flags(configFile()),
		Action:  run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rfbwsd: %v\n", err)
		os.Exit(1)
	}
}

// configFile returns the path to the daemon's TOML configuration file,
// creating an empty one on first run.
func configFile() altsrc.StringSourcer {
	path, err := xdg.CreateFile(xdg.ConfigHome, configDirName, configFileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rfbwsd: failed to create config file: %v\n", err)
		os.Exit(1)
	}
	return altsrc.StringSourcer(path)
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger := wslog.New(wslog.Options{Pretty: cmd.Bool("dev")})

	listener, err := net.Listen("tcp", cmd.String("listen"))
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cmd.String("listen"), err)
	}
	defer listener.Close()

	tlsConfig, err := buildTLSConfig(cmd)
	if err != nil {
		return err
	}

	opts := ws.HandshakeOptions{
		AllowedOrigins: cmd.StringSlice("allowed-origin"),
		SameOrigin:     cmd.Bool("same-origin"),
		AutoPong:       cmd.Bool("auto-pong"),
		TLSConfig:      tlsConfig,
	}

	limiter := ws.NewHandshakeLimiter(rate.Limit(cmd.Int("handshake-rate")), cmd.Int("handshake-burst"))

	logger.Noticef("Listening for websocket clients on %s", listener.Addr())

	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}

		remote := conn.RemoteAddr().String()
		if host, _, err := net.SplitHostPort(remote); err == nil {
			remote = host
		}
		if !limiter.Allow(remote) {
			logger.Warnf("Rejecting connection from %s: handshake rate exceeded", remote)
			conn.Close()
			continue
		}

		go handleConn(conn, opts, logger)
	}
}

func buildTLSConfig(cmd *cli.Command) (*tls.Config, error) {
	if domain := cmd.String("autocert-domain"); domain != "" {
		mgr := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(domain),
			Cache:      autocert.DirCache(mustCacheDir()),
		}
		return mgr.TLSConfig(), nil
	}

	certPath, keyPath := cmd.String("tls-cert"), cmd.String("tls-key")
	if certPath == "" && keyPath == "" {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("loading TLS certificate: %w", err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}

func mustCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return os.TempDir()
	}
	dir = filepath.Join(dir, configDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return os.TempDir()
	}
	return dir
}

func handleConn(conn net.Conn, opts ws.HandshakeOptions, logger *wslog.Logger) {
	defer conn.Close()

	io := ws.NewByteIO(conn)
	sess, err := ws.Handshake(io, opts)
	if err != nil {
		if !errors.Is(err, ws.ErrNotWebSocket) {
			logger.Debugf("Handshake with %s failed: %v", conn.RemoteAddr(), err)
		}
		return
	}

	log := logger.WithConn(sess.ID())
	log.Noticef("Upgraded %s://%s%s from %s", sess.Scheme(), conn.LocalAddr(), sess.Path(), conn.RemoteAddr())

	buf := make([]byte, 32*1024)
	for {
		n, err := sess.Recv(buf)
		if n > 0 {
			if _, werr := sess.Send(buf[:n]); werr != nil {
				log.Errorf("Send failed: %v", werr)
				return
			}
		}
		if err == nil && n == 0 {
			// Peer closed the connection at a frame boundary.
			return
		}
		if err == nil || errors.Is(err, ws.ErrWouldBlock) {
			continue
		}

		switch {
		case errors.Is(err, ws.ErrConnReset):
			info := sess.LastClose()
			log.Debugf("Peer closed connection: code=%d reason=%q", info.Code, info.Reason)
		case errors.Is(err, ws.ErrProtocol):
			log.Warnf("Protocol violation from %s: %v", conn.RemoteAddr(), err)
			_ = sess.Close(1002, "protocol error")
		default:
			log.Errorf("Recv failed: %v", err)
		}
		return
	}
}
