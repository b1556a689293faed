/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic in the viewer into a logged error, a report file and
// (when telemetry is opted in) an anonymized upload.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "goflipbook/internal/log"
	"goflipbook/internal/telemetry"
	"goflipbook/internal/version"
)

// ReportsDirName is created under Info.Dir for crash reports.
const ReportsDirName = "crash"

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Info describes where reports go and what was open at the time.
type Info struct {
	// Dir is the parent of the reports directory. Empty means os.TempDir().
	Dir string
	// Source is the book location. It is written to the local report only.
	Source string
}

// Recover captures a panic, logs it with its stacktrace, writes a report and exits
// with code 2.
//
// Usage: defer crash.Recover(info)
func Recover(info *Info) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(info, r, stack)
		if err != nil {
			l.Error("crash report write failed", slog.Any("err", err), slog.String("path", reportPath))
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		exitFn(2)
	}
}

func reportDir(info *Info) string {
	if info == nil || info.Dir == "" {
		return os.TempDir()
	}
	dir := filepath.Join(info.Dir, ReportsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return os.TempDir()
	}
	return dir
}

func writeReport(info *Info, panicVal any, stack []byte) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(reportDir(info), fmt.Sprintf("crash-%s.log", stamp))

	var local, shared bytes.Buffer
	header := func(b *bytes.Buffer) {
		_, _ = fmt.Fprintf(b, "GoFlipBook Crash Report\n")
		_, _ = fmt.Fprintf(b, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
		_, _ = fmt.Fprintf(b, "Version: %s\n", version.String())
		_, _ = fmt.Fprintf(b, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}
	header(&local)
	header(&shared)
	if info != nil {
		_, _ = fmt.Fprintf(&local, "Source: %s\n", info.Source)
	}
	for _, b := range []*bytes.Buffer{&local, &shared} {
		_, _ = fmt.Fprintf(b, "\nPanic: %v\n\n", panicVal)
		_, _ = fmt.Fprintf(b, "Stack:\n%s\n", string(stack))
	}

	// upload never includes the source location
	telemetry.UploadCrash(shared.Bytes())

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()
	if _, err := f.Write(local.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()
	return path, nil
}
