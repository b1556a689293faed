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

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"goflipbook/internal/book"
	applog "goflipbook/internal/log"
)

// tapArea is an invisible tappable surface.
type tapArea struct {
	widget.BaseWidget
	fill  color.Color
	onTap func(*fyne.PointEvent)
}

func newTapArea(fill color.Color, onTap func(*fyne.PointEvent)) *tapArea {
	t := &tapArea{fill: fill, onTap: onTap}
	t.ExtendBaseWidget(t)
	return t
}

func (t *tapArea) Tapped(e *fyne.PointEvent) {
	if t.onTap != nil {
		t.onTap(e)
	}
}

func (t *tapArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(t.fill))
}

// menuView draws the zoom menu and the page overlay as layers above the book.
// It implements menu.View; state lives in menu.Controller.
type menuView struct {
	button *widget.Button
	layer  *fyne.Container

	overlay *fyne.Container
	image   *canvas.Image
	loaded  string

	log *slog.Logger
}

func newMenuView(onZoom, onDismiss func()) *menuView {
	m := &menuView{log: applog.WithComponent("ui")}

	m.button = widget.NewButtonWithIcon("Zoom", theme.ZoomInIcon(), onZoom)
	m.button.Importance = widget.HighImportance
	m.button.Resize(m.button.MinSize())
	m.button.Hide()
	m.layer = container.NewWithoutLayout(m.button)

	m.image = canvas.NewImageFromResource(nil)
	m.image.FillMode = canvas.ImageFillContain
	// taps on the page image are consumed so they never reach the book
	imageArea := container.NewStack(newTapArea(color.Transparent, nil), m.image)
	backdrop := newTapArea(color.NRGBA{A: 200}, func(*fyne.PointEvent) { onDismiss() })
	closeBtn := widget.NewButtonWithIcon("", theme.CancelIcon(), onDismiss)
	m.overlay = container.NewStack(
		backdrop,
		container.NewPadded(container.NewPadded(imageArea)),
		container.NewBorder(container.NewHBox(layout.NewSpacer(), closeBtn), nil, nil, nil),
	)
	m.overlay.Hide()
	return m
}

func (m *menuView) ShowMenu(at book.Point) {
	m.button.Move(fyne.NewPos(float32(at.X), float32(at.Y)))
	m.button.Show()
	m.layer.Refresh()
}

func (m *menuView) HideMenu() {
	m.button.Hide()
}

func (m *menuView) ShowOverlay(url string) {
	if url != m.loaded {
		m.loaded = url
		m.image.Resource = nil
		m.image.Refresh()
		go func() {
			res, err := loadResource(url)
			if err != nil {
				m.log.Warn("zoom image load failed", slog.String("url", url), slog.Any("err", err))
				return
			}
			fyne.Do(func() {
				if m.loaded != url {
					return
				}
				m.image.Resource = res
				m.image.Refresh()
			})
		}()
	}
	m.overlay.Show()
}

func (m *menuView) HideOverlay() {
	m.overlay.Hide()
}
