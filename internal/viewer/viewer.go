/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewer wires page discovery, layout, gesture classification, zone
// resolution and the zoom menu to a flip-book widget.
//
// A Viewer is owned by the UI event goroutine. Only Rediscover may be called from
// elsewhere.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"goflipbook/internal/book"
	"goflipbook/internal/discovery"
	"goflipbook/internal/gesture"
	"goflipbook/internal/layout"
	applog "goflipbook/internal/log"
	"goflipbook/internal/menu"
	"goflipbook/internal/zone"
)

// ErrNoPages is returned by Open when the source has no pages/1.jpg.
var ErrNoPages = errors.New("no pages found")

// Widget is the flip-book capability surface.
type Widget interface {
	LoadImages(urls []string)
	CurrentLeftPageIndex() int
	ResizeBook(width, height float64)
	JumpToPage(n int)
}

// Factory creates the widget at its initial size.
type Factory func(size layout.Size, dir book.Direction) Widget

// Events receives anonymous usage events. *telemetry.Client implements it.
type Events interface {
	Event(name string, props map[string]any)
}

// Options configures Open.
type Options struct {
	Source    discovery.Source
	Discovery discovery.Options
	Direction book.Direction
	// Viewport is the size of the area hosting the book.
	Viewport layout.Size
	Factory  Factory
	Menu     menu.View

	LongPress     time.Duration
	DragThreshold time.Duration
	Clock         gesture.Clock
	Scheduler     gesture.Scheduler

	Events Events
}

// Viewer is one open book.
type Viewer struct {
	opts Options
	log  *slog.Logger

	widget   Widget
	pages    book.PageSet
	display  []book.Page
	viewport layout.Size
	bounds   book.Rect

	zone     zone.Resolver
	gestures *gesture.Classifier
	menu     *menu.Controller
}

// Open discovers the pages, builds the widget and loads the book in display order.
// An RTL book starts at its last display page, which is the first page read.
func Open(ctx context.Context, opts Options) (*Viewer, error) {
	if opts.Source == nil || opts.Factory == nil || opts.Menu == nil {
		return nil, errors.New("viewer: source, factory and menu view are required")
	}
	v := &Viewer{
		opts: opts,
		log:  applog.WithComponent("viewer"),
		zone: zone.New(opts.Direction),
	}

	pages, err := v.Rediscover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover pages: %w", err)
	}
	if pages.Empty() {
		v.log.Debug("no pages, nothing to show")
		return nil, ErrNoPages
	}

	v.gestures = gesture.New(gesture.Options{
		LongPress:     opts.LongPress,
		DragThreshold: opts.DragThreshold,
		Clock:         opts.Clock,
		Scheduler:     opts.Scheduler,
		Live:          v.live,
		OnLongPress:   v.openMenu,
	})
	v.menu = menu.New(opts.Menu, v.pageAt)
	v.menu.OnZoom = func(p book.Page) {
		v.event("page_zoomed", map[string]any{"page": p.Index, "direction": opts.Direction.String()})
	}

	v.viewport = opts.Viewport
	size := layout.ComputeSize(opts.Viewport.Width, opts.Viewport.Height)
	v.bounds = centered(opts.Viewport, size)
	v.widget = opts.Factory(size, opts.Direction)
	v.load(pages)
	if opts.Direction == book.RTL {
		v.widget.JumpToPage(len(v.display) - 1)
	}

	v.log.Info("book opened", slog.Int("pages", len(pages)), slog.String("direction", opts.Direction.String()))
	v.event("book_opened", map[string]any{"pages": len(pages), "direction": opts.Direction.String()})
	return v, nil
}

// Rediscover runs page discovery against the source. It does not touch viewer state.
func (v *Viewer) Rediscover(ctx context.Context) (book.PageSet, error) {
	return discovery.Discover(ctx, v.opts.Source, v.opts.Discovery)
}

// Reload re-discovers the book and reloads the widget.
func (v *Viewer) Reload(ctx context.Context) error {
	pages, err := v.Rediscover(ctx)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	v.Apply(pages)
	return nil
}

// Apply replaces the loaded pages, keeping the reader's place. An empty set keeps
// the current book.
func (v *Viewer) Apply(pages book.PageSet) {
	if pages.Empty() {
		v.log.Warn("reload found no pages, keeping current book")
		return
	}
	oldLen := len(v.display)
	left := v.widget.CurrentLeftPageIndex()

	v.load(pages)

	// RTL display order grows at the front, so keep the distance from the end.
	target := left
	if v.opts.Direction == book.RTL {
		target = left + len(v.display) - oldLen
	}
	v.widget.JumpToPage(book.Clamp(target, len(v.display)))
	v.log.Info("book reloaded", slog.Int("pages", len(pages)), slog.Int("was", oldLen))
}

func (v *Viewer) load(pages book.PageSet) {
	v.pages = pages
	v.display = pages.DisplayOrder(v.opts.Direction)
	v.widget.LoadImages(book.URLsOf(v.display))
}

// Resize recomputes the book size for a new viewport.
func (v *Viewer) Resize(width, height float64) {
	v.viewport = layout.Size{Width: width, Height: height}
	size := layout.ComputeSize(width, height)
	v.bounds = centered(v.viewport, size)
	v.widget.ResizeBook(size.Width, size.Height)
}

func centered(viewport, size layout.Size) book.Rect {
	return book.Rect{
		X:      (viewport.Width - size.Width) / 2,
		Y:      (viewport.Height - size.Height) / 2,
		Width:  size.Width,
		Height: size.Height,
	}
}

func (v *Viewer) spread() book.SpreadState {
	return book.SpreadState{LeftPageIndex: v.widget.CurrentLeftPageIndex()}
}

func (v *Viewer) live(p book.Point) bool { return v.zone.Live(p, v.bounds, v.spread()) }

func (v *Viewer) pageAt(p book.Point) (book.Page, bool) {
	return zone.Lookup(v.zone.Resolve(p, v.bounds, v.spread()), v.display)
}

func (v *Viewer) openMenu(in gesture.Intent) { v.menu.Open(in) }

func (v *Viewer) event(name string, props map[string]any) {
	if v.opts.Events != nil {
		v.opts.Events.Event(name, props)
	}
}

// The pointer entry points take viewport coordinates and report whether the
// widget's native handling must be suppressed.

// MouseDown is called before the widget handles a button press.
func (v *Viewer) MouseDown(btn gesture.Button, p book.Point) bool {
	return v.gestures.MouseDown(btn, p) == gesture.Swallow
}

// Click is called for a completed click. A click that is not swallowed dismisses
// the menu.
func (v *Viewer) Click(btn gesture.Button, p book.Point) bool {
	_, verdict := v.gestures.Click(btn, p)
	if verdict == gesture.Swallow {
		return true
	}
	v.menu.ClickElsewhere()
	return false
}

// ContextMenu handles a secondary click. It is always suppressed.
func (v *Viewer) ContextMenu(p book.Point) bool {
	in, _ := v.gestures.ContextMenu(p)
	v.menu.Open(in)
	return true
}

// TouchStart arms the long-press timer. Touch starts are never suppressed.
func (v *Viewer) TouchStart(p book.Point) { v.gestures.TouchStart(p) }

// TouchEnd finishes a touch.
func (v *Viewer) TouchEnd() bool {
	_, verdict := v.gestures.TouchEnd()
	return verdict == gesture.Swallow
}

// TouchCancel drops the current touch.
func (v *Viewer) TouchCancel() { v.gestures.TouchCancel() }

// MenuActivated zooms the page under the menu anchor.
func (v *Viewer) MenuActivated() (book.Page, bool) { return v.menu.Activate() }

// OverlayDismissed hides the zoom overlay.
func (v *Viewer) OverlayDismissed() { v.menu.DismissOverlay() }

// Pages returns the discovered pages in natural order.
func (v *Viewer) Pages() book.PageSet { return v.pages }

// Display returns the pages in the order handed to the widget.
func (v *Viewer) Display() []book.Page { return v.display }

// Bounds is the book rectangle inside the viewport.
func (v *Viewer) Bounds() book.Rect { return v.bounds }

// Menu returns the zoom menu controller.
func (v *Viewer) Menu() *menu.Controller { return v.menu }

// Direction is the reading direction the book was opened with.
func (v *Viewer) Direction() book.Direction { return v.opts.Direction }
