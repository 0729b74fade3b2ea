// Copyright (C) 2025 anp-x
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/anp-x/anp-go/config"
	"github.com/anp-x/anp-go/did"
	"github.com/anp-x/anp-go/internal/logger"
	"github.com/anp-x/anp-go/internal/metrics"
)

var serveConfigDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the metrics exporter using loaded configuration",
	Long: `serve loads configuration (config/<environment>.yaml, falling back to
config/default.yaml and config/config.yaml), applies it to the logger and
the DID manager's resolution timeout/cache TTL, and exposes Prometheus
metrics over HTTP until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfigDir, "config-dir", "config", "directory holding environment config files")
}

func levelFromString(s string) logger.Level {
	switch strings.ToLower(s) {
	case "debug":
		return logger.DebugLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.LoaderOptions{ConfigDir: serveConfigDir})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(os.Stdout, levelFromString(cfg.Logging.Level))
	log.SetPrettyPrint(cfg.Logging.Format == "pretty")
	logger.SetDefaultLogger(log)

	manager := did.NewManager(did.Config{
		CacheTTL: cfg.DID.CacheTTL,
		Timeout:  cfg.DID.Timeout,
	})

	log.Info("starting anpctl serve",
		logger.String("environment", cfg.Environment),
		logger.Duration("did_cache_ttl", cfg.DID.CacheTTL),
		logger.Duration("did_timeout", cfg.DID.Timeout),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", resolveHandler(manager, log))
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}
	server := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("metrics server listening", logger.String("addr", cfg.Metrics.Addr), logger.String("path", cfg.Metrics.Path))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", logger.Error(err))
		}
	}()

	waitForShutdown(cmd.Context())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// resolveHandler serves GET /resolve?did=<did:wba:...>, resolving
// through manager so its configured cache TTL and timeout apply.
func resolveHandler(manager *did.Manager, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("did")
		if target == "" {
			http.Error(w, "missing did query parameter", http.StatusBadRequest)
			return
		}

		doc, err := manager.Resolve(r.Context(), target, did.ResolveOptions{})
		if err != nil {
			log.Warn("resolve failed", logger.String("did", target), logger.Error(err))
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}
}

func waitForShutdown(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-ctx.Done():
	}
}
