/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package book

import (
	"errors"
	"testing"
)

func TestParseDirection(t *testing.T) {
	cases := map[string]Direction{"": LTR, "ltr": LTR, " RTL ": RTL, "rtl": RTL}
	for in, want := range cases {
		got, err := ParseDirection(in)
		if err != nil {
			t.Fatalf("ParseDirection(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDirection(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseDirection("ttb"); !errors.Is(err, ErrUnknownDirection) {
		t.Fatalf("expected ErrUnknownDirection, got %v", err)
	}
}

func TestNewPageSetAssignsContiguousIndices(t *testing.T) {
	s := NewPageSet([]string{"pages/1.jpg", "pages/2.jpg", "pages/3.jpg"})
	for i, p := range s {
		if p.Index != i+1 {
			t.Fatalf("page %d has index %d", i, p.Index)
		}
	}
	if s.Empty() {
		t.Fatalf("set should not be empty")
	}
}

func TestDisplayOrder(t *testing.T) {
	s := NewPageSet([]string{"a", "b", "c"})
	ltr := URLsOf(s.DisplayOrder(LTR))
	if ltr[0] != "a" || ltr[2] != "c" {
		t.Fatalf("ltr order wrong: %v", ltr)
	}
	rtl := URLsOf(s.DisplayOrder(RTL))
	if rtl[0] != "c" || rtl[1] != "b" || rtl[2] != "a" {
		t.Fatalf("rtl order wrong: %v", rtl)
	}
	// the set itself is untouched
	if s[0].URL != "a" {
		t.Fatalf("DisplayOrder mutated the set: %v", URLsOf(s))
	}
}

func TestAtClamps(t *testing.T) {
	s := NewPageSet([]string{"a", "b"})
	if p, _ := s.At(-3); p.URL != "a" {
		t.Fatalf("At(-3) = %q", p.URL)
	}
	if p, _ := s.At(7); p.URL != "b" {
		t.Fatalf("At(7) = %q", p.URL)
	}
	if _, ok := PageSet(nil).At(0); ok {
		t.Fatalf("At on empty set should report false")
	}
}

func TestSpreadState(t *testing.T) {
	s := SpreadState{LeftPageIndex: 2}
	if s.RightPageIndex() != 3 || s.IsCover() {
		t.Fatalf("unexpected spread: %+v", s)
	}
	if !(SpreadState{}).IsCover() {
		t.Fatalf("zero spread should be the cover")
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 100, Y: 10, Width: 400, Height: 300}
	if r.Mid() != 200 {
		t.Fatalf("Mid = %v", r.Mid())
	}
	if r.LocalX(Point{X: 150}) != 50 {
		t.Fatalf("LocalX wrong")
	}
}
