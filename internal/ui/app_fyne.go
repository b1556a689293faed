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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"

	"goflipbook/internal/book"
	"goflipbook/internal/discovery"
	"goflipbook/internal/gesture"
	"goflipbook/internal/layout"
	applog "goflipbook/internal/log"
	"goflipbook/internal/version"
	"goflipbook/internal/viewer"
)

// fyneScheduler fires long-press timers back on the Fyne event goroutine.
type fyneScheduler struct{}

func (fyneScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, func() { fyne.Do(f) }).Stop
}

var _ gesture.Scheduler = fyneScheduler{}

// viewportLayout reports container size changes to onResize and places every
// object on the rectangle returned by bounds.
type viewportLayout struct {
	onResize func(width, height float64)
	bounds   func() book.Rect
	last     fyne.Size
}

func (l *viewportLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if size != l.last {
		l.last = size
		l.onResize(float64(size.Width), float64(size.Height))
	}
	r := l.bounds()
	for _, o := range objects {
		o.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
		o.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
	}
}

func (l *viewportLayout) MinSize([]fyne.CanvasObject) fyne.Size { return fyne.NewSize(0, 0) }

// Run opens the book in a window and blocks until the window is closed.
// A source without pages returns nil without showing anything.
func Run(opts Options) error {
	l := applog.WithComponent("ui")
	cfg := opts.Config
	dir, err := cfg.ReadingDirection()
	if err != nil {
		return fmt.Errorf("reading direction: %w", err)
	}

	fyneApp := app.NewWithID("goflipbook")
	applyTheme(fyneApp, cfg.General.Theme)
	w := fyneApp.NewWindow("GoFlipBook")
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 1200), 400)
	winH := max(prefs.IntWithFallback("window.height", 800), 300)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var v *viewer.Viewer
	var fb *FlipBook
	mv := newMenuView(
		func() { v.MenuActivated() },
		func() { v.OverlayDismissed() },
	)
	v, err = viewer.Open(ctx, viewer.Options{
		Source: opts.Source,
		Discovery: discovery.Options{
			Concurrency: cfg.Discovery.Concurrency,
			MaxPages:    cfg.Discovery.MaxPages,
		},
		Direction: dir,
		Viewport:  layout.Size{Width: float64(winW), Height: float64(winH)},
		Factory: func(size layout.Size, d book.Direction) viewer.Widget {
			fb = NewFlipBook(d)
			fb.ResizeBook(size.Width, size.Height)
			return fb
		},
		Menu:          mv,
		LongPress:     cfg.Gesture.LongPress(),
		DragThreshold: cfg.Gesture.DragThreshold(),
		Scheduler:     fyneScheduler{},
		Events:        opts.Events,
	})
	if errors.Is(err, viewer.ErrNoPages) {
		l.Debug("nothing to show")
		return nil
	}
	if err != nil {
		return err
	}
	fb.SetGestures(v)

	// clicks beside the book still dismiss the menu
	backdrop := newTapArea(theme.Color(theme.ColorNameBackground), func(e *fyne.PointEvent) {
		v.Click(gesture.ButtonPrimary, book.Point{X: float64(e.Position.X), Y: float64(e.Position.Y)})
	})
	bookLayer := container.New(&viewportLayout{onResize: v.Resize, bounds: v.Bounds}, fb)
	w.SetContent(container.NewStack(backdrop, bookLayer, mv.layer, mv.overlay))

	w.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		if fb.turnKey(e.Name) {
			return
		}
		if e.Name == fyne.KeyEscape {
			v.OverlayDismissed()
			v.Menu().ClickElsewhere()
		}
	})

	aboutItem := fyne.NewMenuItem("About GoFlipBook", func() {
		dialog.ShowInformation("About", fmt.Sprintf("GoFlipBook %s\n%d pages, %s", version.String(), len(v.Pages()), v.Direction()), w)
	})
	w.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("Help", aboutItem)))

	if cfg.Discovery.Watch && opts.WatchRoot != "" {
		go watch(ctx, v, opts.WatchRoot, l)
	}

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		cancel()
		w.Close()
	})

	w.ShowAndRun()
	return nil
}

// watch reloads the book when page files change. Discovery runs here; the result
// is applied on the UI goroutine.
func watch(ctx context.Context, v *viewer.Viewer, root string, l *slog.Logger) {
	err := discovery.Watch(ctx, root, discovery.DefaultSettle, func() {
		pages, err := v.Rediscover(ctx)
		if err != nil {
			return
		}
		fyne.Do(func() { v.Apply(pages) })
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		l.Warn("page watcher stopped", slog.String("root", root), slog.Any("err", err))
	}
}

func applyTheme(a fyne.App, name string) {
	switch name {
	case "light":
		a.Settings().SetTheme(theme.LightTheme())
	case "dark":
		a.Settings().SetTheme(theme.DarkTheme())
	}
}
