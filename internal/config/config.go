/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"goflipbook/internal/book"
)

// AppConfig is the user-editable configuration persisted as YAML in the user scope.
// Environment variables are read-only overrides applied on top at load time.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
}

// BookConfig selects the book to open. Source is a directory or an http(s) base URL
// that contains pages/{n}.jpg.
type BookConfig struct {
	Source    string `yaml:"source"`
	Direction string `yaml:"direction"` // "ltr" | "rtl"
	// The HTTP source token is not stored on disk; it lives in the OS keychain.
}

type DiscoveryConfig struct {
	Concurrency    int  `yaml:"concurrency"`
	ProbeTimeoutMs int  `yaml:"probe_timeout_ms"`
	MaxPages       int  `yaml:"max_pages"`
	Watch          bool `yaml:"watch"`
}

type GestureConfig struct {
	LongPressMs     int `yaml:"long_press_ms"`
	DragThresholdMs int `yaml:"drag_threshold_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	General       GeneralConfig   `yaml:"general"`
	Book          BookConfig      `yaml:"book"`
	Discovery     DiscoveryConfig `yaml:"discovery"`
	Gesture       GestureConfig   `yaml:"gesture"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Book:          BookConfig{Source: ".", Direction: "ltr"},
		Discovery:     DiscoveryConfig{Concurrency: 1, ProbeTimeoutMs: 5000, MaxPages: 10000, Watch: false},
		Gesture:       GestureConfig{LongPressMs: 500, DragThresholdMs: 300},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvBookSource      = "GFB_BOOK_SOURCE"
	EnvDirection       = "GFB_DIRECTION"
	EnvConcurrency     = "GFB_DISCOVERY_CONCURRENCY"
	EnvProbeTimeoutMs  = "GFB_PROBE_TIMEOUT_MS"
	EnvWatch           = "GFB_WATCH"
	EnvLongPressMs     = "GFB_LONG_PRESS_MS"
	EnvDragThresholdMs = "GFB_DRAG_THRESHOLD_MS"
	EnvTelemetryOptIn  = "GFB_TELEMETRY_OPT_IN"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GFB_LOG_LEVEL"
	EnvLogFormat = "GFB_LOG_FORMAT"
	EnvLogSource = "GFB_LOG_SOURCE"
	EnvLogFile   = "GFB_LOG_FILE"
)

// EnvConfigPath points Load and Save at a specific config file.
const EnvConfigPath = "GFB_CONFIG"

// ConfigPath returns the per-user config file path. GFB_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoFlipBook")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoFlipBook")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "goflipbook")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "goflipbook")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. The source token comes from the keyring and is returned separately.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into the OS keyring (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		return tokenStore.Set(keyringService, keyringToken, token)
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if s := strings.TrimSpace(src.General.Theme); s != "" {
		dst.General.Theme = s
	}
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn

	if s := strings.TrimSpace(src.Book.Source); s != "" {
		dst.Book.Source = s
	}
	if s := strings.TrimSpace(src.Book.Direction); s != "" {
		dst.Book.Direction = strings.ToLower(s)
	}

	if src.Discovery.Concurrency > 0 {
		dst.Discovery.Concurrency = src.Discovery.Concurrency
	}
	if src.Discovery.ProbeTimeoutMs > 0 {
		dst.Discovery.ProbeTimeoutMs = src.Discovery.ProbeTimeoutMs
	}
	if src.Discovery.MaxPages > 0 {
		dst.Discovery.MaxPages = src.Discovery.MaxPages
	}
	dst.Discovery.Watch = src.Discovery.Watch

	if src.Gesture.LongPressMs > 0 {
		dst.Gesture.LongPressMs = src.Gesture.LongPressMs
	}
	if src.Gesture.DragThresholdMs > 0 {
		dst.Gesture.DragThresholdMs = src.Gesture.DragThresholdMs
	}

	if s := strings.TrimSpace(src.Logging.Level); s != "" {
		dst.Logging.Level = strings.ToLower(s)
	}
	if s := strings.TrimSpace(src.Logging.Format); s != "" {
		dst.Logging.Format = strings.ToLower(s)
	}
	dst.Logging.Source = src.Logging.Source
	if s := strings.TrimSpace(src.Logging.File); s != "" {
		dst.Logging.File = s
	}
}

func envBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func envInt(key string, dst *int) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvBookSource)); v != "" {
		cfg.Book.Source = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDirection)); v != "" {
		cfg.Book.Direction = strings.ToLower(v)
	}
	envInt(EnvConcurrency, &cfg.Discovery.Concurrency)
	envInt(EnvProbeTimeoutMs, &cfg.Discovery.ProbeTimeoutMs)
	if v := strings.TrimSpace(os.Getenv(EnvWatch)); v != "" {
		cfg.Discovery.Watch = envBool(v)
	}
	envInt(EnvLongPressMs, &cfg.Gesture.LongPressMs)
	envInt(EnvDragThresholdMs, &cfg.Gesture.DragThresholdMs)
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = envBool(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"book.source":                EnvBookSource,
	"book.direction":             EnvDirection,
	"discovery.concurrency":      EnvConcurrency,
	"discovery.probe_timeout_ms": EnvProbeTimeoutMs,
	"discovery.watch":            EnvWatch,
	"gesture.long_press_ms":      EnvLongPressMs,
	"gesture.drag_threshold_ms":  EnvDragThresholdMs,
	"general.telemetry_opt_in":   EnvTelemetryOptIn,
	"logging.level":              EnvLogLevel,
	"logging.format":             EnvLogFormat,
	"logging.source":             EnvLogSource,
	"logging.file":               EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by the environment.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// ReadingDirection parses Book.Direction.
func (c AppConfig) ReadingDirection() (book.Direction, error) {
	return book.ParseDirection(c.Book.Direction)
}

// ProbeTimeout returns the per-probe timeout, falling back to the default.
func (d DiscoveryConfig) ProbeTimeout() time.Duration {
	if d.ProbeTimeoutMs <= 0 {
		return time.Duration(Defaults().Discovery.ProbeTimeoutMs) * time.Millisecond
	}
	return time.Duration(d.ProbeTimeoutMs) * time.Millisecond
}

// LongPress returns the long-press threshold.
func (g GestureConfig) LongPress() time.Duration {
	return time.Duration(g.LongPressMs) * time.Millisecond
}

// DragThreshold returns the tap/drag boundary.
func (g GestureConfig) DragThreshold() time.Duration {
	return time.Duration(g.DragThresholdMs) * time.Millisecond
}
