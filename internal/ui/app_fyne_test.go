//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne widgets. They are gated behind the "fyne" build tag
// so CI (which is headless) does not need Fyne or a display. To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"goflipbook/internal/book"
	"goflipbook/internal/gesture"
)

func pageURLs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "missing/pages/" + string(rune('a'+i)) + ".jpg"
	}
	return out
}

func newTestBook(t *testing.T, dir book.Direction, pages int) *FlipBook {
	t.Helper()
	test.NewApp()
	fb := NewFlipBook(dir)
	fb.ResizeBook(800, 600)
	fb.LoadImages(pageURLs(pages))
	return fb
}

type recGestures struct {
	swallow bool
	clicks  []book.Point
	menus   []book.Point
}

func (r *recGestures) MouseDown(gesture.Button, book.Point) bool { return false }
func (r *recGestures) Click(_ gesture.Button, p book.Point) bool {
	r.clicks = append(r.clicks, p)
	return r.swallow
}
func (r *recGestures) ContextMenu(p book.Point) bool { r.menus = append(r.menus, p); return true }
func (r *recGestures) TouchStart(book.Point)         {}
func (r *recGestures) TouchEnd() bool                { return false }
func (r *recGestures) TouchCancel()                  {}

func TestSpreadStart(t *testing.T) {
	cases := map[int]int{-3: 0, 0: 0, 1: 1, 2: 1, 3: 3, 4: 3}
	for in, want := range cases {
		if got := spreadStart(in); got != want {
			t.Fatalf("spreadStart(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestFlipBook_JumpAndTurn(t *testing.T) {
	fb := newTestBook(t, book.LTR, 6)
	if fb.CurrentLeftPageIndex() != 0 {
		t.Fatalf("expected cover after load, got %d", fb.CurrentLeftPageIndex())
	}
	fb.next()
	fb.next()
	if fb.CurrentLeftPageIndex() != 3 {
		t.Fatalf("expected spread 3, got %d", fb.CurrentLeftPageIndex())
	}
	fb.JumpToPage(99)
	if fb.CurrentLeftPageIndex() != 5 {
		t.Fatalf("jump past the end should clamp to the last spread, got %d", fb.CurrentLeftPageIndex())
	}
	fb.next()
	if fb.CurrentLeftPageIndex() != 5 {
		t.Fatalf("turning past the end must be a no-op")
	}
	fb.prev()
	fb.prev()
	fb.prev()
	if fb.CurrentLeftPageIndex() != 0 {
		t.Fatalf("expected cover, got %d", fb.CurrentLeftPageIndex())
	}
}

func TestFlipBook_VisibleHalves(t *testing.T) {
	urls := pageURLs(4)
	ltr := newTestBook(t, book.LTR, 4)
	if l, r := ltr.visible(); l != "" || r != urls[0] {
		t.Fatalf("cover must sit on the right half, got %q %q", l, r)
	}
	ltr.JumpToPage(2)
	if l, r := ltr.visible(); l != urls[1] || r != urls[2] {
		t.Fatalf("unexpected LTR spread %q %q", l, r)
	}

	rtl := newTestBook(t, book.RTL, 4)
	rtl.JumpToPage(1)
	if l, r := rtl.visible(); l != urls[2] || r != urls[1] {
		t.Fatalf("RTL spread must be mirrored, got %q %q", l, r)
	}
	rtl.JumpToPage(3)
	if l, r := rtl.visible(); l != "" || r != urls[3] {
		t.Fatalf("last single page expected on the right, got %q %q", l, r)
	}
}

func TestFlipBook_TapTurnsUnlessSwallowed(t *testing.T) {
	fb := newTestBook(t, book.LTR, 6)
	g := &recGestures{}
	fb.SetGestures(g)

	fb.Tapped(&fyne.PointEvent{Position: fyne.NewPos(700, 300)})
	if fb.CurrentLeftPageIndex() != 1 {
		t.Fatalf("tap on the right half should turn forward, got %d", fb.CurrentLeftPageIndex())
	}
	g.swallow = true
	fb.Tapped(&fyne.PointEvent{Position: fyne.NewPos(700, 300)})
	if fb.CurrentLeftPageIndex() != 1 {
		t.Fatalf("swallowed tap must not turn")
	}
	if len(g.clicks) != 2 {
		t.Fatalf("expected both taps to reach gestures, got %d", len(g.clicks))
	}

	fb.TappedSecondary(&fyne.PointEvent{Position: fyne.NewPos(10, 20)})
	if len(g.menus) != 1 || fb.CurrentLeftPageIndex() != 1 {
		t.Fatalf("secondary tap must open the menu and not turn")
	}
}

func TestFlipBook_RTLLeftHalfTurnsForward(t *testing.T) {
	fb := newTestBook(t, book.RTL, 6)
	fb.Tapped(&fyne.PointEvent{Position: fyne.NewPos(100, 300)})
	if fb.CurrentLeftPageIndex() != 1 {
		t.Fatalf("RTL tap on the left half should advance the display index, got %d", fb.CurrentLeftPageIndex())
	}
}

func TestFlipBook_KeysFollowTapSides(t *testing.T) {
	for _, dir := range []book.Direction{book.LTR, book.RTL} {
		byKey := newTestBook(t, dir, 8)
		byTap := newTestBook(t, dir, 8)
		byKey.JumpToPage(3)
		byTap.JumpToPage(3)

		byKey.turnKey(fyne.KeyLeft)
		byTap.Tapped(&fyne.PointEvent{Position: fyne.NewPos(100, 300)})
		if byKey.CurrentLeftPageIndex() != byTap.CurrentLeftPageIndex() {
			t.Fatalf("%s: Left key went to %d, left-half tap to %d", dir, byKey.CurrentLeftPageIndex(), byTap.CurrentLeftPageIndex())
		}
		byKey.turnKey(fyne.KeyRight)
		byTap.Tapped(&fyne.PointEvent{Position: fyne.NewPos(700, 300)})
		if byKey.CurrentLeftPageIndex() != byTap.CurrentLeftPageIndex() {
			t.Fatalf("%s: Right key went to %d, right-half tap to %d", dir, byKey.CurrentLeftPageIndex(), byTap.CurrentLeftPageIndex())
		}
	}

	rtl := newTestBook(t, book.RTL, 8)
	if !rtl.turnKey(fyne.KeyLeft) || rtl.CurrentLeftPageIndex() != 1 {
		t.Fatalf("RTL Left key should advance the display index, got %d", rtl.CurrentLeftPageIndex())
	}
	if rtl.turnKey(fyne.KeyEscape) {
		t.Fatalf("Escape is not a turn key")
	}
}

func TestFlipBook_ViewportCoordinates(t *testing.T) {
	fb := newTestBook(t, book.LTR, 2)
	g := &recGestures{swallow: true}
	fb.SetGestures(g)
	fb.Move(fyne.NewPos(50, 40))
	fb.Tapped(&fyne.PointEvent{Position: fyne.NewPos(10, 10)})
	if g.clicks[0] != (book.Point{X: 60, Y: 50}) {
		t.Fatalf("expected viewport point (60,50), got %+v", g.clicks[0])
	}
}

func TestViewportLayout_ResizesOncePerSize(t *testing.T) {
	test.NewApp()
	var calls int
	bounds := book.Rect{X: 10, Y: 20, Width: 300, Height: 200}
	l := &viewportLayout{
		onResize: func(w, h float64) { calls++ },
		bounds:   func() book.Rect { return bounds },
	}
	fb := NewFlipBook(book.LTR)
	l.Layout([]fyne.CanvasObject{fb}, fyne.NewSize(400, 300))
	l.Layout([]fyne.CanvasObject{fb}, fyne.NewSize(400, 300))
	if calls != 1 {
		t.Fatalf("expected one resize notification, got %d", calls)
	}
	if fb.Position() != fyne.NewPos(10, 20) || fb.Size() != fyne.NewSize(300, 200) {
		t.Fatalf("book not placed on bounds: pos=%v size=%v", fb.Position(), fb.Size())
	}
	l.Layout([]fyne.CanvasObject{fb}, fyne.NewSize(500, 300))
	if calls != 2 {
		t.Fatalf("expected a second resize notification, got %d", calls)
	}
}

func TestMenuView_ShowHide(t *testing.T) {
	test.NewApp()
	zooms, dismisses := 0, 0
	m := newMenuView(func() { zooms++ }, func() { dismisses++ })
	if m.button.Visible() || m.overlay.Visible() {
		t.Fatalf("menu and overlay start hidden")
	}
	m.ShowMenu(book.Point{X: 120, Y: 80})
	if !m.button.Visible() || m.button.Position() != fyne.NewPos(120, 80) {
		t.Fatalf("menu not positioned at anchor: %v", m.button.Position())
	}
	test.Tap(m.button)
	if zooms != 1 {
		t.Fatalf("expected zoom callback")
	}
	m.HideMenu()
	if m.button.Visible() {
		t.Fatalf("menu still visible")
	}
	m.ShowOverlay("missing/pages/1.jpg")
	if !m.overlay.Visible() || m.loaded != "missing/pages/1.jpg" {
		t.Fatalf("overlay not shown")
	}
	m.HideOverlay()
	if m.overlay.Visible() {
		t.Fatalf("overlay still visible")
	}
}
