/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package book

// This file defines the data model shared by the viewer components.
// Pages are created once by discovery and never mutated afterwards; spread state
// belongs to the flip widget and is only read here.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned by ParseDirection for anything other than ltr/rtl.
var ErrUnknownDirection = errors.New("unknown reading direction")

// Direction is the reading direction of a book. It is fixed at configuration time.
type Direction int

const (
	// LTR books turn towards the visual right (photo books, western comics).
	LTR Direction = iota
	// RTL books turn towards the visual left (Japanese novels, manga).
	RTL
)

func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// ParseDirection converts "ltr" or "rtl" (case-insensitive) to a Direction.
// An empty string means LTR.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ltr":
		return LTR, nil
	case "rtl":
		return RTL, nil
	default:
		return LTR, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

// Page is a single page image. Index is 1-based.
type Page struct {
	Index int
	URL   string
}

// PageSet is the ordered list of pages of a book.
// Indices are contiguous and start at 1; the set ends at the first missing page.
type PageSet []Page

// NewPageSet builds a PageSet from URLs in natural order, assigning indices 1..n.
func NewPageSet(urls []string) PageSet {
	set := make(PageSet, 0, len(urls))
	for i, u := range urls {
		set = append(set, Page{Index: i + 1, URL: u})
	}
	return set
}

// Empty reports whether the set holds no pages.
func (s PageSet) Empty() bool { return len(s) == 0 }

// DisplayOrder returns the pages in the order handed to the flip widget:
// natural order for LTR, reversed for RTL.
func (s PageSet) DisplayOrder(dir Direction) []Page {
	out := make([]Page, len(s))
	copy(out, s)
	if dir == RTL {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// At returns the page at 0-based position i, clamped into range.
// It reports false only for an empty set.
func (s PageSet) At(i int) (Page, bool) {
	if len(s) == 0 {
		return Page{}, false
	}
	return s[Clamp(i, len(s))], true
}

// Clamp limits a 0-based index to [0, n-1]. n must be positive.
func Clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// URLsOf extracts the URLs of a page slice, preserving order.
func URLsOf(pages []Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.URL
	}
	return out
}

// SpreadState is the widget's current spread. Index 0 is the one-sided cover.
type SpreadState struct {
	LeftPageIndex int
}

// RightPageIndex is the page facing the left one.
func (s SpreadState) RightPageIndex() int { return s.LeftPageIndex + 1 }

// IsCover reports whether the single-sided cover is showing.
func (s SpreadState) IsCover() bool { return s.LeftPageIndex == 0 }

// Point is a screen coordinate.
type Point struct {
	X, Y float64
}

// Rect is the on-screen rectangle of the page-turn surface.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Mid returns half the width of the rectangle, relative to its left edge.
func (r Rect) Mid() float64 { return r.Width / 2 }

// LocalX converts an absolute x coordinate into one relative to the left edge.
func (r Rect) LocalX(p Point) float64 { return p.X - r.X }
