/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"goflipbook/internal/crash"
	"goflipbook/internal/version"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GFB_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv("GFB_LOG_LEVEL", "error")
	a := &app{crash: &crash.Info{}}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, version.String())
}

func TestSizeCommand(t *testing.T) {
	out, err := run(t, "size", "1000", "2000")
	require.NoError(t, err)
	require.Equal(t, "900.00 x 1350.00\n", out)

	_, err = run(t, "size", "wide", "2000")
	require.Error(t, err)
}

func TestPagesCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pages"), 0o755))
	for _, n := range []string{"1", "2", "3", "5"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, "pages", n+".jpg"), []byte("jpg"), 0o644))
	}

	out, err := run(t, "pages", root, "--concurrency", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasSuffix(lines[2], filepath.Join("pages", "3.jpg")))
}

func TestPagesCommandEmpty(t *testing.T) {
	out, err := run(t, "pages", t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "no pages found\n", out)
}

func TestPagesSourceFromEnv(t *testing.T) {
	t.Setenv("GFB_BOOK_SOURCE", t.TempDir())
	out, err := run(t, "pages")
	require.NoError(t, err)
	require.Equal(t, "no pages found\n", out)
}

func TestViewRejectsUnknownDirection(t *testing.T) {
	_, err := run(t, "view", t.TempDir(), "--direction", "up")
	require.Error(t, err)
}
