/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log provides centralized slog-based logging for the viewer.
// Console output is a compact one-line text format (or JSON); an optional rotating
// JSON file log is written through lumberjack.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"goflipbook/internal/version"
)

// Environment variables read by FromEnv.
const (
	EnvLevel  = "GFB_LOG_LEVEL"
	EnvFormat = "GFB_LOG_FORMAT"
	EnvSource = "GFB_LOG_SOURCE"
	EnvFile   = "GFB_LOG_FILE"
)

// Options controls logger initialization.
// Defaults: INFO level, console format, no source, no file.
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string // rotated JSON log, optional
	// Console overrides stderr; tests use it to capture output.
	Console io.Writer
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
	file   *lj.Logger
)

// L returns the application logger, initializing it from the environment on first use.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Init configures the global logger and installs it as slog.Default.
// Calling Init again replaces the previous configuration and closes its log file.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var handlers []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		handlers = append(handlers, slog.NewJSONHandler(console, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	} else {
		handlers = append(handlers, &lineHandler{w: console, level: lvl, addSource: opts.AddSource})
	}

	var fw *lj.Logger
	if path := strings.TrimSpace(opts.File); path != "" {
		fw = &lj.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(fw, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = fanout(handlers)
	}
	l := slog.New(h).With(
		slog.String("app", "goflipbook"),
		slog.String("ver", version.Version),
	)

	mu.Lock()
	old := file
	logger, file = l, fw
	mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	slog.SetDefault(l)
}

// FromEnv builds Options from GFB_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv(EnvLevel, "info"),
		Format:    getenv(EnvFormat, "console"),
		AddSource: parseBool(os.Getenv(EnvSource)),
		File:      os.Getenv(EnvFile),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// lineHandler prints "ts LVL msg key=val ..." lines for humans.
type lineHandler struct {
	w         io.Writer
	level     slog.Level
	addSource bool
	attrs     []slog.Attr
	prefix    string

	mu sync.Mutex
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool { return level >= h.level }

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.Grow(192)
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString(ts.Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(levelString(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	if h.addSource {
		// Record.Source only exists on newer Go releases
		if rs, ok := any(r).(interface{ Source() *slog.Source }); ok {
			if src := rs.Source(); src != nil {
				b.WriteString(" src=")
				b.WriteString(src.File)
				b.WriteByte(':')
				b.WriteString(strconv.Itoa(src.Line))
			}
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	na := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	na = append(na, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		na = append(na, a)
	}
	return &lineHandler{w: h.w, level: h.level, addSource: h.addSource, attrs: na, prefix: h.prefix}
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	return &lineHandler{w: h.w, level: h.level, addSource: h.addSource, attrs: h.attrs, prefix: h.prefix + name + "."}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindFloat64:
		b.WriteString(strconv.FormatFloat(v.Float64(), 'f', -1, 64))
	case slog.KindTime:
		b.WriteString(v.Time().Format(time.RFC3339))
	default:
		s := v.String()
		if strings.ContainsAny(s, " \t\"") {
			s = strconv.Quote(s)
		}
		b.WriteString(s)
	}
}

func levelString(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DBG"
	case l < slog.LevelWarn:
		return "INF"
	case l < slog.LevelError:
		return "WRN"
	default:
		return "ERR"
	}
}
