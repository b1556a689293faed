/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package zone maps a screen coordinate on the page-turn surface to the page under it.
// A single Resolver covers both reading directions; RTL mirrors the LTR halves.
package zone

import "goflipbook/internal/book"

// Resolver resolves interaction points for one reading direction.
type Resolver struct {
	Direction book.Direction
}

// New returns a Resolver for dir.
func New(dir book.Direction) Resolver { return Resolver{Direction: dir} }

// Resolve returns the display-order index of the page under p.
//
// LTR: left half -> left page, right half -> right page.
// RTL: left half -> right page, right half -> left page.
// The cover spread always resolves to 0. The result is never negative.
func (r Resolver) Resolve(p book.Point, bounds book.Rect, spread book.SpreadState) int {
	left := spread.LeftPageIndex
	right := spread.RightPageIndex()

	var idx int
	inLeftHalf := bounds.LocalX(p) < bounds.Mid()
	switch r.Direction {
	case book.RTL:
		if inLeftHalf {
			idx = right
		} else {
			idx = left
		}
	default:
		if inLeftHalf {
			idx = left
		} else {
			idx = right
		}
	}

	if spread.IsCover() {
		idx = 0
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Live reports whether p may start a long-press or open the menu.
// On an RTL cover only the right half shows a page; the left half is blank and ignored.
// LTR covers have no blank half.
func (r Resolver) Live(p book.Point, bounds book.Rect, spread book.SpreadState) bool {
	if r.Direction != book.RTL || !spread.IsCover() {
		return true
	}
	return bounds.LocalX(p) >= bounds.Mid()
}

// Lookup returns the page at a resolved index in the display-order list.
// Out-of-range indices are clamped; it reports false only when display is empty.
func Lookup(index int, display []book.Page) (book.Page, bool) {
	return book.PageSet(display).At(index)
}
