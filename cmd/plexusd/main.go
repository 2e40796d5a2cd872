/**
 * Copyright (c) 2024, The Plexus Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// Command plexusd runs the Plexus GraphQL server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/plexusapp/plexus/internal/server"
	"github.com/plexusapp/plexus/internal/storage"
)

// version is set at build time via -ldflags.
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		listenAddr string
		dataDir    string
	)

	rootCmd := &cobra.Command{
		Use:           "plexusd",
		Short:         "Plexus GraphQL server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the GraphQL server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), listenAddr, dataDir)
		},
	}
	serveCmd.Flags().StringVar(&listenAddr, "listen", envOr("PLEXUS_LISTEN", ":8080"), "address to listen on")
	serveCmd.Flags().StringVar(&dataDir, "data-dir", envOr("PLEXUS_DATA_DIR", "data"), "directory holding the database files")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	rootCmd.AddCommand(serveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "plexusd:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func serve(ctx context.Context, listenAddr, dataDir string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	store, err := storage.Open(storage.Options{Dir: dataDir})
	if err != nil {
		return err
	}
	defer store.Close()

	handler, err := server.NewHandler(store, logger)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", handler)

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", listenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := httpServer.Shutdown(shutdownCtx)

	// ListenAndServe returns as soon as Shutdown starts, so the drain never
	// blocks even when Shutdown itself failed.
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return shutdownErr
}
