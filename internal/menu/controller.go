/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package menu drives the contextual zoom menu and the full-screen page overlay.
package menu

import (
	"log/slog"

	"goflipbook/internal/book"
	"goflipbook/internal/gesture"
	applog "goflipbook/internal/log"
)

// State of the zoom menu.
type State int

const (
	Hidden State = iota
	Positioned
)

// View renders the menu and overlay. Implementations only draw; all decisions
// are made by Controller.
type View interface {
	ShowMenu(at book.Point)
	HideMenu()
	ShowOverlay(url string)
	HideOverlay()
}

// Resolver maps the stored interaction point to a page.
type Resolver func(p book.Point) (book.Page, bool)

// Controller owns the menu state. One Controller exists per viewer.
type Controller struct {
	view    View
	resolve Resolver
	log     *slog.Logger

	state   State
	anchor  book.Point
	pending *gesture.Intent

	overlayVisible bool
	overlayURL     string

	// OnZoom is called with the page shown in the overlay.
	OnZoom func(book.Page)
}

// New creates a Controller in the Hidden state.
func New(view View, resolve Resolver) *Controller {
	return &Controller{view: view, resolve: resolve, log: applog.WithComponent("menu")}
}

// Open positions the menu at a long-press. Other intents are ignored.
func (c *Controller) Open(in gesture.Intent) {
	if in.Kind != gesture.LongPress {
		return
	}
	snapshot := in
	c.state = Positioned
	c.anchor = in.Point
	c.pending = &snapshot
	c.view.ShowMenu(in.Point)
}

// Activate zooms the page under the stored interaction and hides the menu.
// It reports false when no menu was open or no page could be resolved.
func (c *Controller) Activate() (book.Page, bool) {
	if c.state != Positioned || c.pending == nil {
		return book.Page{}, false
	}
	p := c.pending.Point
	c.hide()

	page, ok := c.resolve(p)
	if !ok {
		c.log.Warn("no page under zoom point", slog.Float64("x", p.X), slog.Float64("y", p.Y))
		return book.Page{}, false
	}
	c.overlayURL = page.URL
	c.overlayVisible = true
	c.view.ShowOverlay(page.URL)
	c.log.Debug("zoom", slog.Int("page", page.Index), slog.String("url", page.URL))
	if c.OnZoom != nil {
		c.OnZoom(page)
	}
	return page, true
}

// ClickElsewhere hides a positioned menu and does nothing else.
func (c *Controller) ClickElsewhere() {
	if c.state == Positioned {
		c.hide()
	}
}

// DismissOverlay hides the overlay (background click or close affordance).
func (c *Controller) DismissOverlay() {
	if !c.overlayVisible {
		return
	}
	c.overlayVisible = false
	c.view.HideOverlay()
}

func (c *Controller) hide() {
	c.state = Hidden
	c.pending = nil
	c.view.HideMenu()
}

// State returns the menu state.
func (c *Controller) State() State { return c.state }

// Anchor returns where the menu was last positioned.
func (c *Controller) Anchor() book.Point { return c.anchor }

// OverlayVisible reports whether the zoom overlay is showing.
func (c *Controller) OverlayVisible() bool { return c.overlayVisible }

// OverlaySource is the URL last shown in the overlay.
func (c *Controller) OverlaySource() string { return c.overlayURL }
