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

// Package wslog provides the small, printf-style logging surface the
// daemon and its connection handlers log through, backed by zerolog.
package wslog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger behind a Noticef/Warnf/Errorf/Debugf/Tracef
// method set, the printf-style surface connection-handling code logs
// through.
type Logger struct {
	zl zerolog.Logger
}

// Options configures New.
type Options struct {
	// Pretty selects a human-readable, colorized console writer instead
	// of newline-delimited JSON. Intended for interactive/dev use; a
	// production daemon should leave this false and ship JSON to its log
	// collector.
	Pretty bool

	// Level sets the minimum level that reaches Writer. The zero value is
	// zerolog.DebugLevel, which New treats as unset and replaces with
	// zerolog.InfoLevel, so debug lines cannot be enabled through this field.
	Level zerolog.Level

	// Writer overrides the destination; defaults to os.Stderr.
	Writer io.Writer
}

// New builds a Logger per opts.
func New(opts Options) *Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level := opts.Level
	if level == 0 {
		level = zerolog.InfoLevel
	}

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// WithConn returns a child Logger that tags every subsequent line with the
// given connection ID.
func (l *Logger) WithConn(id string) *Logger {
	return &Logger{zl: l.zl.With().Str("conn", id).Logger()}
}

func (l *Logger) Noticef(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *Logger) Tracef(format string, args ...any) {
	l.zl.Trace().Msgf(format, args...)
}
