/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layout derives the flip widget size from the viewport.
package layout

const (
	// AspectRatio is width/height of a single portrait page (800x1200).
	AspectRatio = 800.0 / 1200.0
	// Margin scales the fitted size so 10% of the binding dimension stays free.
	Margin = 0.90
)

// Size is a widget size in device-independent pixels.
type Size struct {
	Width  float64
	Height float64
}

// ComputeSize fits the book into the viewport by its binding dimension and applies Margin.
// It is pure and must be called again on every resize. Negative input is treated as zero,
// and a zero viewport yields a zero size.
func ComputeSize(viewportWidth, viewportHeight float64) Size {
	vw := max(viewportWidth, 0)
	vh := max(viewportHeight, 0)

	width := vw
	height := vw / AspectRatio
	if height > vh {
		height = vh
		width = vh * AspectRatio
	}
	return Size{Width: width * Margin, Height: height * Margin}
}
