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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	contentadapter "github.com/ericfisherdev/iatsite/internal/adapter/driven/content"
	githubadapter "github.com/ericfisherdev/iatsite/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/iatsite/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/iatsite/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/iatsite/internal/adapter/driving/web"
	"github.com/ericfisherdev/iatsite/internal/application"
	"github.com/ericfisherdev/iatsite/internal/config"
	"github.com/ericfisherdev/iatsite/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"content_source", cfg.ContentSource(),
		"content_refresh", cfg.ContentRefresh,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Load content feeds. The site cannot serve anything without them.
	source, err := newContentSource(cfg)
	if err != nil {
		return err
	}
	contentSvc := application.NewContentService(source)
	snapshot, err := contentSvc.Load(ctx)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	provider := application.NewContentProvider(snapshot)
	slog.Info("content loaded",
		"source", snapshot.Source,
		"courses", len(snapshot.Content.Courses),
		"categories", len(snapshot.Catalog.Categories()),
		"testimonials", len(snapshot.Content.Testimonials),
		"placements", len(snapshot.Content.Placements),
	)

	// 4. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 5. Run migrations on writer connection.
	schemaVersion, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", cfg.DBPath, err)
	}
	slog.Info("migrations complete", "schema_version", schemaVersion)

	// 6. Wire services.
	inquirySvc := application.NewInquiryService(sqliteadapter.NewInquiryRepo(db))
	stored, err := inquirySvc.Count(ctx)
	if err != nil {
		return err
	}
	slog.Info("inquiries stored", "count", stored)

	if cfg.ContentRefresh > 0 {
		go application.RefreshContent(ctx, contentSvc, provider, cfg.ContentRefresh)
	}

	// 7. Register API and site routes on one mux.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(provider, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler, cfg.CORSOrigins)

	webHandler := webhandler.NewHandler(provider, inquirySvc, webhandler.Settings{
		CounterDuration:      cfg.CounterDuration,
		CounterFrameInterval: cfg.CounterFrameInterval,
		CounterMountTimeout:  cfg.CounterMountTimeout,
		SecureCookies:        cfg.SecureCookies,
	}, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv.RegisterOnShutdown(webHandler.Close)

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown. Counter sockets are closed by webHandler.Close.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// newContentSource selects the feed source named by the configuration.
func newContentSource(cfg *config.Config) (driven.ContentSource, error) {
	switch cfg.ContentSource() {
	case config.ContentGitHub:
		src, err := githubadapter.NewSource(cfg.ContentRepo, cfg.ContentRef, cfg.ContentPath, cfg.GitHubToken)
		if err != nil {
			return nil, fmt.Errorf("create github content source: %w", err)
		}
		return src, nil
	case config.ContentDir:
		src, err := contentadapter.NewDirSource(cfg.ContentDir)
		if err != nil {
			return nil, fmt.Errorf("create directory content source: %w", err)
		}
		return src, nil
	default:
		return contentadapter.NewEmbeddedSource(), nil
	}
}
