/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goflipbook/internal/config"
	"goflipbook/internal/crash"
	applog "goflipbook/internal/log"
	"goflipbook/internal/telemetry"
	"goflipbook/internal/version"
)

// app carries what PersistentPreRunE loaded to the subcommands.
type app struct {
	cfg   config.AppConfig
	token string
	crash *crash.Info
}

func main() {
	a := &app{crash: &crash.Info{}}
	defer crash.Recover(a.crash)

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "goflipbook",
		Short:         "Page-flip book viewer",
		Long:          "GoFlipBook shows a directory or web location of pages/{n}.jpg images as a flip book.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	root.AddCommand(versionCmd(), pagesCmd(a), sizeCmd(), viewCmd(a), tokenCmd())
	return root
}

// load reads .env, the config file and the keyring, then sets up logging and telemetry.
func (a *app) load() error {
	// a missing .env is normal
	_ = godotenv.Load()

	cfg, tok, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg, a.token = cfg, tok

	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})

	tcfg := telemetry.FromEnv()
	tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
	telemetry.SetDefault(telemetry.New(tcfg))

	if p, err := config.ConfigPath(); err == nil {
		a.crash.Dir = filepath.Dir(p)
	}
	applog.WithComponent("cli").Debug("config loaded", slog.String("source", cfg.Book.Source), slog.String("direction", cfg.Book.Direction))
	return nil
}
