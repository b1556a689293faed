/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"goflipbook/internal/book"
)

// memTokens is an in-memory TokenStore.
type memTokens map[string]string

func (m memTokens) Get(service, key string) (string, error) { return m[service+"/"+key], nil }
func (m memTokens) Set(service, key, value string) error {
	m[service+"/"+key] = value
	return nil
}
func (m memTokens) Delete(service, key string) error {
	delete(m, service+"/"+key)
	return nil
}

// isolate points the config at a temp file and stubs the keyring.
func isolate(t *testing.T) (string, memTokens) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, path)
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	toks := memTokens{}
	old := tokenStore
	tokenStore = toks
	t.Cleanup(func() { tokenStore = old })
	return path, toks
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, tok, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tok != "" {
		t.Fatalf("unexpected token %q", tok)
	}
	if cfg.Gesture.LongPress() != 500*time.Millisecond || cfg.Gesture.DragThreshold() != 300*time.Millisecond {
		t.Fatalf("gesture defaults wrong: %+v", cfg.Gesture)
	}
	if cfg.Discovery.Concurrency != 1 {
		t.Fatalf("discovery must default to sequential, got %d", cfg.Discovery.Concurrency)
	}
	dir, err := cfg.ReadingDirection()
	if err != nil || dir != book.LTR {
		t.Fatalf("ReadingDirection() = %v, %v", dir, err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path, toks := isolate(t)
	cfg := Defaults()
	cfg.Book.Source = "https://books.example/novel"
	cfg.Book.Direction = "rtl"
	cfg.Discovery.Watch = true
	if err := Save(cfg, "s3cret"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if toks[keyringService+"/"+keyringToken] != "s3cret" {
		t.Fatalf("token not stored in keyring: %v", toks)
	}

	got, tok, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Book.Source != cfg.Book.Source || got.Book.Direction != "rtl" || !got.Discovery.Watch {
		t.Fatalf("loaded config mismatch: %+v", got)
	}
	if tok != "s3cret" {
		t.Fatalf("token = %q", tok)
	}
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken() error: %v", err)
	}
	if _, tok, _ := Load(); tok != "" {
		t.Fatalf("token still present after delete: %q", tok)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvBookSource, "/srv/books/photo")
	t.Setenv(EnvDirection, "RTL")
	t.Setenv(EnvConcurrency, "4")
	t.Setenv(EnvLongPressMs, "650")
	t.Setenv(EnvWatch, "yes")
	t.Setenv(EnvTelemetryOptIn, "true")

	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Book.Source != "/srv/books/photo" || cfg.Book.Direction != "rtl" {
		t.Fatalf("book overrides not applied: %+v", cfg.Book)
	}
	if cfg.Discovery.Concurrency != 4 || !cfg.Discovery.Watch {
		t.Fatalf("discovery overrides not applied: %+v", cfg.Discovery)
	}
	if cfg.Gesture.LongPressMs != 650 {
		t.Fatalf("gesture override not applied: %+v", cfg.Gesture)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("telemetry override not applied")
	}
	if name, ok := EnvOverrideFor("book.direction"); !ok || name != EnvDirection {
		t.Fatalf("EnvOverrideFor(book.direction) = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("logging.file"); ok {
		t.Fatalf("logging.file should not be reported as overridden")
	}
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	isolate(t)
	t.Setenv(EnvConcurrency, "many")
	t.Setenv(EnvDragThresholdMs, "-5")
	cfg, _, _ := Load()
	if cfg.Discovery.Concurrency != 1 || cfg.Gesture.DragThresholdMs != 300 {
		t.Fatalf("invalid env values must be ignored: %+v %+v", cfg.Discovery, cfg.Gesture)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "DEBUG"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/gfb.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/gfb.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestUnknownDirection(t *testing.T) {
	cfg := Defaults()
	cfg.Book.Direction = "vertical"
	if _, err := cfg.ReadingDirection(); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestProbeTimeoutFallback(t *testing.T) {
	if got := (DiscoveryConfig{}).ProbeTimeout(); got != 5*time.Second {
		t.Fatalf("ProbeTimeout() = %v", got)
	}
}

func TestSetTokenLeavesConfigFileAlone(t *testing.T) {
	path, toks := isolate(t)
	if err := Save(Defaults(), ""); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	t.Setenv(EnvDirection, "rtl")
	loaded, _, err := Load()
	if err != nil || loaded.Book.Direction != "rtl" {
		t.Fatalf("env override not applied: %q, %v", loaded.Book.Direction, err)
	}

	if err := SetToken("secret"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("storing a token rewrote the config file:\n%s", after)
	}
	if toks[keyringService+"/"+keyringToken] != "secret" {
		t.Fatalf("token not stored in keyring: %v", toks)
	}
	if err := SetToken(""); err == nil {
		t.Fatalf("empty token must be rejected")
	}
}
