// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/vitrine/internal/cache"
	"github.com/olegiv/vitrine/internal/config"
	"github.com/olegiv/vitrine/internal/handler"
	"github.com/olegiv/vitrine/internal/handler/api"
	"github.com/olegiv/vitrine/internal/imaging"
	"github.com/olegiv/vitrine/internal/logging"
	"github.com/olegiv/vitrine/internal/middleware"
	"github.com/olegiv/vitrine/internal/render"
	"github.com/olegiv/vitrine/internal/scheduler"
	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/session"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/translate"
	"github.com/olegiv/vitrine/internal/version"
	"github.com/olegiv/vitrine/web"
)

// translateConcurrency bounds concurrent translation jobs.
const translateConcurrency = 4

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "vitrine - admin console\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_SESSION_SECRET      Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_DB_PATH             SQLite database path (default: ./data/vitrine.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_SERVER_PORT         Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_ENV                 Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_REDIS_URL           Redis URL for the shared cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_TRANSLATE_PROVIDER  libretranslate|openai|none (default: libretranslate)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_API_TOKEN           Bearer token of the admin JSON API (empty disables it)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VITRINE_ADMIN_EMAIL         First administrator, created when no user exists\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("vitrine %s\n", version.Get())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.LogLevelValue()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// WARN and ERROR records also go to the event log.
	logger = slog.New(logging.NewEventLogHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}), db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	backend, backendName := cache.New(cfg.CacheConfig())
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "backend", backendName)
	hints := cache.NewPathVersions(backend)
	settingsCache := cache.NewSettingsCache(backend, db)

	translator, err := translate.New(cfg.TranslateOptions())
	if err != nil {
		return fmt.Errorf("initializing translator: %w", err)
	}
	runner := translate.NewRunner(cfg.TranslateTimeout, translateConcurrency, logger)
	slog.Info("translation initialized", "provider", cfg.TranslateProvider, "source", cfg.SourceLang, "target", cfg.TargetLang)

	services := service.New(service.Deps{
		DB:               db,
		Logger:           logger,
		Hints:            hints,
		Settings:         settingsCache,
		Translator:       translator,
		Runner:           runner,
		SourceLang:       cfg.SourceLang,
		TargetLang:       cfg.TargetLang,
		TranslateTimeout: cfg.TranslateTimeout,
	})

	sessionManager := session.New(db, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	uploads := imaging.NewProcessor(cfg.UploadsDir, cfg.MaxUploadBytes())

	loginGuard := middleware.NewLoginGuard(middleware.DefaultLoginGuardConfig())

	sched := scheduler.New(services.Events, cfg.EventRetention(), logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}

	adminHandler := handler.New(handler.Deps{
		DB:         db,
		Renderer:   renderer,
		Sessions:   sessionManager,
		Services:   services,
		Uploads:    uploads,
		LoginGuard: loginGuard,
		Hints:      hints,
		PageSize:   cfg.PageSize,
		Logger:     logger,
	})
	apiHandler := api.NewHandler(api.Deps{
		Services: services,
		Hints:    hints,
		PageSize: cfg.PageSize,
		Logger:   logger,
	})
	healthHandler := handler.NewHealthHandler(db, sessionManager, cfg.UploadsDir)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecureHeaders(cfg.IsDevelopment()))

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// The JSON API is stateless: no session, no CSRF.
	r.Mount("/api/v1", apiHandler.Routes(cfg.APIToken))
	if !cfg.APIEnabled() {
		slog.Info("admin JSON API disabled", "reason", "VITRINE_API_TOKEN not set")
	}

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerPort))

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(csrfMiddleware)
		r.Use(middleware.LoadSiteSettings(settingsCache))

		r.Group(func(r chi.Router) {
			r.Use(loginGuard.Throttle)
			adminHandler.RegisterAuth(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessionManager))
			r.Use(middleware.LoadUser(sessionManager, db))
			r.Use(middleware.RequireAdmin(services.Events))
			adminHandler.RegisterAdmin(r)
		})
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/admin", http.StatusFound)
	})

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	// Static assets: cache for 1 year.
	r.Handle("/static/dist/*", middleware.StaticCache(31536000)(http.StripPrefix("/static/dist/", http.FileServer(http.FS(staticFS)))))
	// Uploads: cache for 1 week.
	r.Handle(imaging.URLPrefix+"*", middleware.StaticCache(604800)(http.StripPrefix(imaging.URLPrefix, http.FileServer(http.Dir(cfg.UploadsDir)))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := runner.Close(shutdownCtx); err != nil {
		slog.Warn("translation jobs abandoned", "error", err)
	}
	sched.Stop()

	slog.Info("server stopped")
	return nil
}
