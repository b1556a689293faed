//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"
	"log/slog"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"goflipbook/internal/book"
	"goflipbook/internal/gesture"
	applog "goflipbook/internal/log"
)

// Gestures receives the raw pointer events of a FlipBook in viewport coordinates.
// The bool results report whether the native page turn must be skipped.
// *viewer.Viewer implements it.
type Gestures interface {
	MouseDown(btn gesture.Button, p book.Point) bool
	Click(btn gesture.Button, p book.Point) bool
	ContextMenu(p book.Point) bool
	TouchStart(p book.Point)
	TouchEnd() bool
	TouchCancel()
}

var (
	_ desktop.Mouseable      = (*FlipBook)(nil)
	_ fyne.SecondaryTappable = (*FlipBook)(nil)
	_ mobile.Touchable       = (*FlipBook)(nil)
)

// FlipBook shows a book as a cover followed by two-page spreads and turns pages on tap.
// Display index 0 is a single cover page; spreads then start at odd indices.
// RTL books are drawn mirrored: display[left] on the right half.
type FlipBook struct {
	widget.BaseWidget

	dir   book.Direction
	urls  []string
	left  int
	size  fyne.Size
	input Gestures

	mu    sync.Mutex
	cache map[string]fyne.Resource
	log   *slog.Logger
}

// NewFlipBook creates an empty book widget.
func NewFlipBook(dir book.Direction) *FlipBook {
	fb := &FlipBook{dir: dir, cache: map[string]fyne.Resource{}, log: applog.WithComponent("flipbook")}
	fb.ExtendBaseWidget(fb)
	return fb
}

// SetGestures routes pointer events through g before native handling.
func (f *FlipBook) SetGestures(g Gestures) { f.input = g }

// LoadImages replaces the pages and shows the cover.
func (f *FlipBook) LoadImages(urls []string) {
	f.urls = append([]string(nil), urls...)
	f.left = 0
	f.Refresh()
}

// CurrentLeftPageIndex is the display index of the left page of the visible spread.
func (f *FlipBook) CurrentLeftPageIndex() int { return f.left }

// ResizeBook sets the book size. Zero sizes are allowed and draw nothing.
func (f *FlipBook) ResizeBook(width, height float64) {
	f.size = fyne.NewSize(float32(width), float32(height))
	f.Resize(f.size)
}

// JumpToPage shows the spread containing display index n.
func (f *FlipBook) JumpToPage(n int) {
	if len(f.urls) == 0 {
		return
	}
	f.left = spreadStart(book.Clamp(n, len(f.urls)))
	f.Refresh()
}

func spreadStart(n int) int {
	if n <= 0 {
		return 0
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

func (f *FlipBook) next() {
	if len(f.urls) == 0 {
		return
	}
	n := f.left + 2
	if f.left == 0 {
		n = 1
	}
	if n < len(f.urls) {
		f.left = n
		f.Refresh()
	}
}

func (f *FlipBook) prev() {
	switch {
	case f.left == 0:
		return
	case f.left == 1:
		f.left = 0
	default:
		f.left -= 2
	}
	f.Refresh()
}

// turn flips towards the page under pos.
func (f *FlipBook) turn(pos fyne.Position) {
	f.turnHalf(pos.X < f.Size().Width/2)
}

// turnKey maps Left/Right to the same turn as a tap on that half.
func (f *FlipBook) turnKey(name fyne.KeyName) bool {
	switch name {
	case fyne.KeyLeft:
		f.turnHalf(true)
	case fyne.KeyRight:
		f.turnHalf(false)
	default:
		return false
	}
	return true
}

// turnHalf flips from one half. The half showing display[left+1] moves forward.
func (f *FlipBook) turnHalf(inLeftHalf bool) {
	forward := !inLeftHalf
	if f.dir == book.RTL {
		forward = inLeftHalf
	}
	if forward {
		f.next()
	} else {
		f.prev()
	}
}

// visible returns the URLs drawn on the left and right halves ("" for blank).
func (f *FlipBook) visible() (left, right string) {
	if len(f.urls) == 0 {
		return "", ""
	}
	first := f.urls[f.left]
	second := ""
	if f.left > 0 && f.left+1 < len(f.urls) {
		second = f.urls[f.left+1]
	}
	if f.left == 0 {
		// the cover sits on the right half
		return "", first
	}
	if f.dir == book.RTL {
		return second, first
	}
	return first, second
}

func (f *FlipBook) viewportPoint(pos fyne.Position) book.Point {
	abs := f.Position().Add(pos)
	return book.Point{X: float64(abs.X), Y: float64(abs.Y)}
}

func (f *FlipBook) Tapped(e *fyne.PointEvent) {
	if f.input != nil && f.input.Click(gesture.ButtonPrimary, f.viewportPoint(e.Position)) {
		return
	}
	f.turn(e.Position)
}

func (f *FlipBook) TappedSecondary(e *fyne.PointEvent) {
	if f.input != nil {
		f.input.ContextMenu(f.viewportPoint(e.Position))
	}
}

func (f *FlipBook) MouseDown(e *desktop.MouseEvent) {
	if f.input == nil {
		return
	}
	btn := gesture.ButtonPrimary
	if e.Button == desktop.MouseButtonSecondary {
		btn = gesture.ButtonSecondary
	}
	f.input.MouseDown(btn, f.viewportPoint(e.Position))
}

func (f *FlipBook) MouseUp(*desktop.MouseEvent) {}

func (f *FlipBook) TouchDown(e *mobile.TouchEvent) {
	if f.input != nil {
		f.input.TouchStart(f.viewportPoint(e.Position))
	}
}

func (f *FlipBook) TouchUp(*mobile.TouchEvent) {
	if f.input != nil && f.input.TouchEnd() {
		f.log.Debug("touch swallowed")
	}
}

func (f *FlipBook) TouchCancel(*mobile.TouchEvent) {
	if f.input != nil {
		f.input.TouchCancel()
	}
}

// resource returns the cached image for url, loading it in the background on a miss.
func (f *FlipBook) resource(url string) fyne.Resource {
	if url == "" {
		return nil
	}
	f.mu.Lock()
	res, ok := f.cache[url]
	if !ok {
		f.cache[url] = nil
	}
	f.mu.Unlock()
	if ok {
		return res
	}
	go func() {
		res, err := loadResource(url)
		if err != nil {
			f.log.Warn("page image load failed", slog.String("url", url), slog.Any("err", err))
			return
		}
		f.mu.Lock()
		f.cache[url] = res
		f.mu.Unlock()
		fyne.Do(f.Refresh)
	}()
	return nil
}

func loadResource(url string) (fyne.Resource, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return fyne.LoadResourceFromURLString(url)
	}
	return fyne.LoadResourceFromPath(url)
}

// CreateRenderer draws a background, the two page halves and a spine line.
func (f *FlipBook) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	left := canvas.NewImageFromResource(nil)
	left.FillMode = canvas.ImageFillContain
	right := canvas.NewImageFromResource(nil)
	right.FillMode = canvas.ImageFillContain
	spine := canvas.NewLine(color.RGBA{R: 90, G: 90, B: 90, A: 255})
	spine.StrokeWidth = 1
	return &flipBookRenderer{fb: f, bg: bg, left: left, right: right, spine: spine,
		objects: []fyne.CanvasObject{bg, left, right, spine}}
}

type flipBookRenderer struct {
	fb          *FlipBook
	bg          *canvas.Rectangle
	left, right *canvas.Image
	spine       *canvas.Line
	objects     []fyne.CanvasObject
}

func (r *flipBookRenderer) Destroy()                     {}
func (r *flipBookRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *flipBookRenderer) MinSize() fyne.Size           { return fyne.NewSize(0, 0) }

func (r *flipBookRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	half := fyne.NewSize(size.Width/2, size.Height)
	r.left.Resize(half)
	r.left.Move(fyne.NewPos(0, 0))
	r.right.Resize(half)
	r.right.Move(fyne.NewPos(size.Width/2, 0))
	r.spine.Position1 = fyne.NewPos(size.Width/2, 0)
	r.spine.Position2 = fyne.NewPos(size.Width/2, size.Height)
}

func (r *flipBookRenderer) Refresh() {
	l, rt := r.fb.visible()
	r.left.Resource = r.fb.resource(l)
	r.right.Resource = r.fb.resource(rt)
	r.spine.Hidden = r.fb.left == 0
	r.Layout(r.fb.Size())
	r.left.Refresh()
	r.right.Refresh()
	canvas.Refresh(r.fb)
}
