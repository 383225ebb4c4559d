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

package main

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

const (
	configDirName  = "rfbwsd"
	configFileName = "config.toml"
)

// flags returns the full flag set. Every flag except --dev can also be set
// through an environment variable or the TOML config file; a value given on
// the command line takes precedence over both, and an environment variable
// takes precedence over the config file.
func flags(configFilePath altsrc.StringSourcer) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "dev",
			Usage: "human-readable console logging instead of JSON; does not affect origin checking",
		},
		&cli.StringFlag{
			Name:  "listen",
			Usage: "address to listen on for incoming WebSocket connections",
			Value: ":5900",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RFBWSD_LISTEN"),
				toml.TOML("server.listen", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "tls-cert",
			Usage: "path to a PEM TLS certificate, for wss:// connections",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RFBWSD_TLS_CERT"),
				toml.TOML("server.tls_cert", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "tls-key",
			Usage: "path to the PEM private key matching -tls-cert",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RFBWSD_TLS_KEY"),
				toml.TOML("server.tls_key", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "autocert-domain",
			Usage: "domain name to provision a TLS certificate for automatically via ACME; overrides -tls-cert/-tls-key",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RFBWSD_AUTOCERT_DOMAIN"),
				toml.TOML("server.autocert_domain", configFilePath),
			),
		},
		&cli.StringSliceFlag{
			Name:  "allowed-origin",
			Usage: "Origin header value to accept during the handshake (repeatable); unset means accept any",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RFBWSD_ALLOWED_ORIGINS"),
				toml.TOML("server.allowed_origins", configFilePath),
			),
		},
		&cli.BoolFlag{
			Name:  "same-origin",
			Usage: "reject handshakes whose Origin host does not match the Host header",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RFBWSD_SAME_ORIGIN"),
				toml.TOML("server.same_origin", configFilePath),
			),
		},
		&cli.BoolFlag{
			Name:  "auto-pong",
			Usage: "automatically answer PING frames with a matching PONG",
			Value: true,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RFBWSD_AUTO_PONG"),
				toml.TOML("server.auto_pong", configFilePath),
			),
		},
		&cli.IntFlag{
			Name:  "handshake-rate",
			Usage: "maximum handshake attempts per second, per remote address",
			Value: 5,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RFBWSD_HANDSHAKE_RATE"),
				toml.TOML("server.handshake_rate", configFilePath),
			),
		},
		&cli.IntFlag{
			Name:  "handshake-burst",
			Usage: "handshake rate limiter burst size, per remote address",
			Value: 10,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("RFBWSD_HANDSHAKE_BURST"),
				toml.TOML("server.handshake_burst", configFilePath),
			),
		},
	}
}
