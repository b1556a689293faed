/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture turns raw mouse and touch events into interaction intents.
//
// A Classifier is a plain state object owned by one viewer. It is not safe for
// concurrent use: every method, including the long-press timer callback, must run on
// the UI event goroutine. Schedulers that fire on other goroutines have to hop back
// (see ui.fyneScheduler).
package gesture

import (
	"log/slog"
	"time"

	"goflipbook/internal/book"
	applog "goflipbook/internal/log"
)

// Default thresholds.
const (
	DefaultLongPress     = 500 * time.Millisecond
	DefaultDragThreshold = 300 * time.Millisecond
)

// Button identifies a mouse button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Kind discriminates Intent.
type Kind int

const (
	None Kind = iota
	Tap
	LongPress
	Drag
)

func (k Kind) String() string {
	switch k {
	case Tap:
		return "tap"
	case LongPress:
		return "long_press"
	case Drag:
		return "drag"
	default:
		return "none"
	}
}

// Intent is a classified interaction. Point is unset for Drag and None.
type Intent struct {
	Kind  Kind
	Point book.Point
}

// Verdict tells the caller what to do with the raw event.
type Verdict int

const (
	// Pass lets the flip widget handle the event natively (page turn).
	Pass Verdict = iota
	// Swallow stops propagation and prevents the widget's default handling.
	Swallow
)

// Clock returns the current time.
type Clock func() time.Time

// Scheduler runs f once after d. The returned stop func cancels a pending run and
// reports whether it did so.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// TimeScheduler schedules with time.AfterFunc. f runs on its own goroutine.
type TimeScheduler struct{}

func (TimeScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Options configures a Classifier. Zero values fall back to the defaults.
type Options struct {
	LongPress     time.Duration
	DragThreshold time.Duration
	Clock         Clock
	Scheduler     Scheduler
	// Live reports whether a point may start a long-press or open the menu.
	// Nil means every point is live.
	Live func(book.Point) bool
	// OnLongPress receives touch long-presses when the timer fires.
	OnLongPress func(Intent)
}

// Classifier holds the per-viewer gesture state.
type Classifier struct {
	opts Options
	log  *slog.Logger

	touching   bool
	// touchOwned marks that the secondary tap some platforms emit after a long
	// touch (following TouchEnd) belongs to that touch. The first ContextMenu,
	// Click or MouseDown consumes it.
	touchOwned bool
	touchStart time.Time
	fired      bool
	stop       func() bool
	gen        uint64

	// suppressClick swallows the click synthesized after a completed long-press.
	suppressClick bool
}

// New constructs a Classifier.
func New(opts Options) *Classifier {
	if opts.LongPress <= 0 {
		opts.LongPress = DefaultLongPress
	}
	if opts.DragThreshold <= 0 {
		opts.DragThreshold = DefaultDragThreshold
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimeScheduler{}
	}
	return &Classifier{opts: opts, log: applog.WithComponent("gesture")}
}

func (c *Classifier) live(p book.Point) bool {
	return c.opts.Live == nil || c.opts.Live(p)
}

// MouseDown intercepts a button press before the widget sees it.
// Secondary presses never reach page-turn handling.
func (c *Classifier) MouseDown(btn Button, _ book.Point) Verdict {
	if !c.touching {
		c.touchOwned = false
	}
	if btn == ButtonSecondary {
		return Swallow
	}
	return Pass
}

// Click classifies a completed click on the page-turn surface.
// A pending suppression flag swallows the click and is cleared.
func (c *Classifier) Click(btn Button, p book.Point) (Intent, Verdict) {
	c.touchOwned = false
	if c.suppressClick {
		c.suppressClick = false
		c.log.Debug("click swallowed after long-press")
		return Intent{}, Swallow
	}
	if btn == ButtonSecondary {
		return Intent{}, Swallow
	}
	return Intent{Kind: Tap, Point: p}, Pass
}

// ContextMenu classifies a secondary click. It is always swallowed and yields a
// LongPress unless p is on a blank cover half or the click belongs to a touch.
// Touches are classified by TouchEnd and the long-press timer only.
func (c *Classifier) ContextMenu(p book.Point) (Intent, Verdict) {
	if c.touching || c.touchOwned || c.suppressClick {
		c.touchOwned = false
		return Intent{}, Swallow
	}
	if !c.live(p) {
		c.log.Debug("context menu on blank cover half ignored")
		return Intent{}, Swallow
	}
	return Intent{Kind: LongPress, Point: p}, Swallow
}

// TouchStart records the press and arms the long-press timer on live points.
func (c *Classifier) TouchStart(p book.Point) {
	c.cancelTimer()
	c.touching = true
	c.touchOwned = true
	c.touchStart = c.opts.Clock()
	c.fired = false
	// a click that never arrived must not eat this touch's click
	c.suppressClick = false

	if !c.live(p) {
		return
	}
	c.gen++
	gen := c.gen
	c.stop = c.opts.Scheduler.AfterFunc(c.opts.LongPress, func() { c.fire(gen, p) })
}

func (c *Classifier) fire(gen uint64, p book.Point) {
	if gen != c.gen || !c.touching || c.fired {
		return
	}
	c.fired = true
	c.stop = nil
	in := Intent{Kind: LongPress, Point: p}
	c.log.Debug("long-press", slog.Float64("x", p.X), slog.Float64("y", p.Y))
	if c.opts.OnLongPress != nil {
		c.opts.OnLongPress(in)
	}
}

// TouchEnd cancels the timer and classifies the finished touch.
func (c *Classifier) TouchEnd() (Intent, Verdict) {
	c.cancelTimer()
	elapsed := c.opts.Clock().Sub(c.touchStart)
	c.touching = false

	if c.fired {
		c.suppressClick = true
		return Intent{}, Swallow
	}
	if elapsed < c.opts.DragThreshold {
		return Intent{}, Pass
	}
	return Intent{Kind: Drag}, Swallow
}

// TouchCancel drops the current touch without classifying it.
func (c *Classifier) TouchCancel() {
	c.cancelTimer()
	c.touching = false
	c.touchOwned = false
	c.fired = false
}

// SuppressPending reports whether the next click will be swallowed.
func (c *Classifier) SuppressPending() bool { return c.suppressClick }

func (c *Classifier) cancelTimer() {
	c.gen++
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}
