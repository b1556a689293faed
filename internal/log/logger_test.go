/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestInitAndStructuredLoggingToFile verifies that the rotating file handler writes JSON
// records carrying the static and contextual attributes.
func TestInitAndStructuredLoggingToFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "gfb.json")

	Init(Options{Level: "debug", Format: "json", File: fpath, Console: io.Discard})
	l := WithOperation(WithComponent("testcomp"), "op1")
	l.Info("hello world", slog.String("k", "v"))
	// closes the rotated file so the temp dir can be removed
	t.Cleanup(func() { Init(Options{}) })

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(strings.NewReader(string(b)))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	if m["app"] != "goflipbook" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "testcomp" || m["op"] != "op1" || m["k"] != "v" {
		t.Fatalf("context attrs mismatch: %v", m)
	}
	if m["msg"] != "hello world" {
		t.Fatalf("msg mismatch: %v", m["msg"])
	}
}
