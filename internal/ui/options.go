/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ui is the Fyne front end of the viewer. It is only built with -tags fyne;
// other builds get a stub Run that explains how to enable it.
package ui

import (
	"goflipbook/internal/config"
	"goflipbook/internal/discovery"
	"goflipbook/internal/viewer"
)

// Options configures Run.
type Options struct {
	// Source serves pages/{n}.jpg.
	Source discovery.Source
	// WatchRoot is the local book directory to watch for page changes. Empty disables watching.
	WatchRoot string
	Config    config.AppConfig
	// Events receives usage events. Nil disables them.
	Events viewer.Events
}
