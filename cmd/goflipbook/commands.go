/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"goflipbook/internal/config"
	"goflipbook/internal/discovery"
	"goflipbook/internal/layout"
	"goflipbook/internal/telemetry"
	"goflipbook/internal/ui"
	"goflipbook/internal/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "GoFlipBook", version.String())
		},
	}
}

// source resolves the book location from args or config.
func (a *app) source(args []string) (discovery.Source, string, error) {
	location := a.cfg.Book.Source
	if len(args) > 0 {
		location = args[0]
	}
	src, err := discovery.NewSource(location, a.token, a.cfg.Discovery.ProbeTimeout())
	if err != nil {
		return nil, location, err
	}
	a.crash.Source = location
	return src, location, nil
}

func pagesCmd(a *app) *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "pages [source]",
		Short: "List the pages of a book",
		Long:  "Probe pages/1.jpg, pages/2.jpg, ... until the first missing page and print what was found.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _, err := a.source(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = a.cfg.Discovery.Concurrency
			}
			pages, err := discovery.Discover(cmd.Context(), src, discovery.Options{
				Concurrency: concurrency,
				MaxPages:    a.cfg.Discovery.MaxPages,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if pages.Empty() {
				fmt.Fprintln(out, "no pages found")
				return nil
			}
			for _, p := range pages {
				fmt.Fprintln(out, p.URL)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 1, "pages probed at once")
	return cmd
}

func sizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size <width> <height>",
		Short: "Print the book size for a viewport",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("width: %w", err)
			}
			h, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("height: %w", err)
			}
			s := layout.ComputeSize(w, h)
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f x %.2f\n", s.Width, s.Height)
			return nil
		},
	}
}

func viewCmd(a *app) *cobra.Command {
	var direction string
	cmd := &cobra.Command{
		Use:   "view [source]",
		Short: "Open a book in the viewer window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if direction != "" {
				a.cfg.Book.Direction = direction
			}
			if _, err := a.cfg.ReadingDirection(); err != nil {
				return err
			}
			src, _, err := a.source(args)
			if err != nil {
				return err
			}
			opts := ui.Options{Source: src, Config: a.cfg, Events: telemetry.Default()}
			if ds, ok := src.(discovery.DirSource); ok {
				opts.WatchRoot = ds.Root
			}
			defer telemetry.Default().Flush(context.Background())
			return ui.Run(opts)
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "reading direction: ltr or rtl (default from config)")
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the HTTP source token kept in the OS keychain",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <token>",
		Short: "Store the bearer token sent with page probes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.SetToken(args[0])
		},
	}, &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.DeleteToken()
		},
	})
	return cmd
}
