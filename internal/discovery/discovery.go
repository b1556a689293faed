/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package discovery finds the page images of a book.
//
// Pages follow the naming contract pages/{n}.jpg with n = 1, 2, 3, ... and the first
// missing n ends the book. Probes are metadata-only (HTTP HEAD or stat). A probe that
// fails for any reason counts as "missing", so a transient network error truncates the
// book at that page. This is a known limitation and is not retried.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"goflipbook/internal/book"
	applog "goflipbook/internal/log"
)

// PagesDir is the directory holding the page images, relative to the book root.
const PagesDir = "pages"

// DefaultMaxPages bounds discovery when Options.MaxPages is unset.
const DefaultMaxPages = 10000

// PagePath returns the relative path of page n: pages/{n}.jpg.
func PagePath(n int) string { return fmt.Sprintf("%s/%d.jpg", PagesDir, n) }

// Source is a place pages can be probed in.
type Source interface {
	// Probe reports whether page n exists. An error means the probe itself failed.
	Probe(ctx context.Context, n int) (bool, error)
	// URL returns the address handed to the widget for page n.
	URL(n int) string
}

// Options tunes Discover.
type Options struct {
	// Concurrency > 1 probes in ordered batches of that size. The result is the same
	// as sequential probing.
	Concurrency int
	MaxPages    int
}

// Discover probes pages 1..n until the first miss and returns them in order.
// An empty PageSet means page 1 does not exist (or could not be probed).
// Only cancellation of ctx is reported as an error.
func Discover(ctx context.Context, src Source, opts Options) (book.PageSet, error) {
	l := applog.WithOperation(applog.WithComponent("discovery"), "discover")
	limit := opts.MaxPages
	if limit <= 0 {
		limit = DefaultMaxPages
	}
	batch := max(opts.Concurrency, 1)

	start := time.Now()
	var urls []string
	for next := 1; next <= limit; next += batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := min(batch, limit-next+1)
		found, err := probeBatch(ctx, src, next, n, l)
		if err != nil {
			return nil, err
		}
		for i, ok := range found {
			if !ok {
				l.Debug("discovery finished", slog.Int("pages", len(urls)), slog.Duration("took", time.Since(start)))
				return book.NewPageSet(urls), nil
			}
			urls = append(urls, src.URL(next+i))
		}
	}
	l.Warn("discovery hit page limit", slog.Int("limit", limit))
	return book.NewPageSet(urls), nil
}

// probeBatch probes pages first..first+n-1, at most n at a time, and returns presence in order.
func probeBatch(ctx context.Context, src Source, first, n int, l *slog.Logger) ([]bool, error) {
	found := make([]bool, n)
	if n == 1 {
		found[0] = probe(ctx, src, first, l)
		return found, ctx.Err()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			found[i] = probe(gctx, src, first+i, l)
			return nil
		})
	}
	_ = g.Wait()
	return found, ctx.Err()
}

func probe(ctx context.Context, src Source, n int, l *slog.Logger) bool {
	ok, err := src.Probe(ctx, n)
	if err != nil {
		if ctx.Err() == nil {
			l.Debug("probe failed, treating page as missing", slog.Int("page", n), slog.Any("err", err))
		}
		return false
	}
	return ok
}

// HTTPSource probes pages with HEAD requests relative to a base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
	token  string
}

// NewHTTPSource builds a source for base (e.g. https://example.com/books/novel/).
// A non-empty token is sent as a bearer token. timeout bounds each probe.
func NewHTTPSource(base string, token string, timeout time.Duration) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse book url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported book url scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTPSource{base: u, client: &http.Client{Timeout: timeout}, token: token}, nil
}

func (s *HTTPSource) URL(n int) string {
	return s.base.ResolveReference(&url.URL{Path: PagePath(n)}).String()
}

func (s *HTTPSource) Probe(ctx context.Context, n int) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.URL(n), nil)
	if err != nil {
		return false, err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// DirSource probes pages on the local filesystem.
type DirSource struct {
	Root string
}

func (s DirSource) path(n int) string { return filepath.Join(s.Root, filepath.FromSlash(PagePath(n))) }

func (s DirSource) URL(n int) string { return s.path(n) }

func (s DirSource) Probe(_ context.Context, n int) (bool, error) {
	fi, err := os.Stat(s.path(n))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

// NewSource picks an HTTPSource for http(s) locations and a DirSource otherwise.
func NewSource(location, token string, timeout time.Duration) (Source, error) {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, token, timeout)
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("resolve book dir: %w", err)
	}
	return DirSource{Root: abs}, nil
}

// IsPageFile reports whether name looks like a page image under the naming contract.
func IsPageFile(name string) bool {
	base := path.Base(filepath.ToSlash(name))
	num, ok := strings.CutSuffix(base, ".jpg")
	if !ok || num == "" {
		return false
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
