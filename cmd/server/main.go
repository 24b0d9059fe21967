// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/pantryrank/internal/api"
	"github.com/tomtom215/pantryrank/internal/auth"
	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/config"
	"github.com/tomtom215/pantryrank/internal/images"
	"github.com/tomtom215/pantryrank/internal/logging"
	"github.com/tomtom215/pantryrank/internal/storage"
	"github.com/tomtom215/pantryrank/internal/supervisor"
	"github.com/tomtom215/pantryrank/internal/supervisor/services"
)

func main() {
	issueToken := flag.String("issue-token", "", "print a signed bearer token for this user id and exit")
	flag.Parse()

	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if *issueToken != "" {
		if err := printToken(cfg, *issueToken); err != nil {
			logging.Fatal().Err(err).Msg("Failed to issue token")
		}
		return
	}

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	logging.Info().
		Str("driver", cfg.Database.Driver).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("environment", cfg.Server.Environment).
		Msg("Starting PantryRank with supervisor tree")

	backend, err := storage.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog store")
		}
	}()

	imageStore, err := images.Open(&cfg.Images)
	if err != nil {
		return err
	}
	defer func() {
		if err := imageStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing image store")
		}
	}()
	logging.Info().Bool("in_memory", cfg.Images.InMemory).Str("path", cfg.Images.Path).Msg("Image store opened")

	svc := catalog.NewService(backend.Store, storage.ServiceOptions(cfg))
	defer svc.Close()

	authenticator, err := auth.NewAuthenticator(&cfg.Security)
	if err != nil {
		return fmt.Errorf("configure authentication: %w", err)
	}

	router := api.NewRouter(
		api.NewHandler(svc, imageStore),
		authenticator,
		api.ChiMiddlewareConfigFromSecurity(&cfg.Security),
	)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if backend.DuckDB != nil && cfg.Database.CheckpointInterval > 0 {
		tree.AddStorageService(services.NewCheckpointService(backend.DuckDB, cfg.Database.CheckpointInterval))
		logging.Info().Dur("interval", cfg.Database.CheckpointInterval).Msg("DuckDB checkpoint service added")
	}
	if !cfg.Images.InMemory && cfg.Images.GCInterval > 0 {
		tree.AddStorageService(services.NewImageGCService(imageStore, cfg.Images.GCInterval))
		logging.Info().Dur("interval", cfg.Images.GCInterval).Msg("Image GC service added")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, s := range unstopped {
		logging.Warn().Str("service", s.Name).Msg("Service failed to stop")
	}
	return nil
}

// printToken writes a development bearer token for userID to stdout.
func printToken(cfg *config.Config, userID string) error {
	if cfg.Security.AuthMode == config.AuthModeProxy {
		return errors.New("tokens are not used when AUTH_MODE=proxy")
	}
	manager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return err
	}
	token, err := manager.GenerateToken(auth.Subject{ID: userID})
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
