/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package telemetry is a small, opt-in sender for anonymous usage events
// (book_opened, page_zoomed) and crash reports.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	applog "goflipbook/internal/log"
	"goflipbook/internal/version"
)

// Environment variables read by FromEnv.
const (
	EnvOptIn     = "GFB_TELEMETRY_OPT_IN"
	EnvURL       = "GFB_TELEMETRY_URL"
	EnvCrashURL  = "GFB_CRASH_UPLOAD_URL"
	EnvTimeoutMs = "GFB_TELEMETRY_TIMEOUT_MS"
	EnvDebug     = "GFB_TELEMETRY_DEBUG"
)

// Config holds runtime configuration. Everything is disabled unless OptIn is set and
// an endpoint is configured.
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

// FromEnv reads Config from GFB_TELEMETRY_* variables.
func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv(EnvOptIn)),
		EventsURL:    strings.TrimSpace(os.Getenv(EnvURL)),
		CrashURL:     strings.TrimSpace(os.Getenv(EnvCrashURL)),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv(EnvDebug) != "",
	}
	if ms := strings.TrimSpace(os.Getenv(EnvTimeoutMs)); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil && v > 0 {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Client sends events from a bounded queue on a background goroutine and drops
// them on any error. It never blocks the UI.
type Client struct {
	cfg    Config
	log    *slog.Logger
	cli    *http.Client
	q      chan map[string]any
	once   sync.Once
	closed chan struct{}
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the package client, creating it from the environment on first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// SetDefault replaces the package client (closing the previous one).
func SetDefault(c *Client) {
	defaultMu.Lock()
	old := defaultClient
	defaultClient = c
	defaultMu.Unlock()
	if old != nil && old != c {
		old.Close()
	}
}

// New constructs a client and starts its sender.
func New(cfg Config) *Client {
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan map[string]any, 64),
		closed: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events will be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event queues a JSON event. props must not contain personal data (no paths or URLs).
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	payload := map[string]any{
		"name":    name,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		payload[k] = v
	}
	select {
	case c.q <- payload:
	default:
		// queue full, drop
	}
}

// Event sends through the default client.
func Event(name string, props map[string]any) { Default().Event(name, props) }

// Flush waits up to 500ms (or until ctx is done) for the queue to drain.
func (c *Client) Flush(ctx context.Context) {
	deadline := time.Now().Add(500 * time.Millisecond)
	for len(c.q) > 0 && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// Close stops the sender goroutine.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case item := <-c.q:
			buf, _ := json.Marshal(item)
			c.post(c.cfg.EventsURL, "application/json", buf)
		}
	}
}

func (c *Client) post(url, contentType string, body []byte) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.cli.Do(req)
	if err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("telemetry post failed", slog.String("content_type", contentType), slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if c.cfg.DebugLogging {
		c.log.Debug("telemetry posted", slog.String("content_type", contentType), slog.Int("status", resp.StatusCode))
	}
}

// UploadCrash posts a serialized crash report to the crash URL if opted in.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	go c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", append([]byte(nil), report...))
}

// UploadCrash uploads through the default client.
func UploadCrash(report []byte) { Default().UploadCrash(report) }
