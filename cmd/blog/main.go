// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
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
	"github.com/joho/godotenv"

	"github.com/olegiv/blog-go/internal/config"
	"github.com/olegiv/blog-go/internal/handler"
	"github.com/olegiv/blog-go/internal/middleware"
	"github.com/olegiv/blog-go/internal/render"
	"github.com/olegiv/blog-go/internal/session"
	"github.com/olegiv/blog-go/internal/store"
	"github.com/olegiv/blog-go/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
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

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Seed the default admin account
	if cfg.DoSeed {
		if err := store.Seed(context.Background(), db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Session managers: one cookie for anonymous visitors, one /admin-scoped
	// cookie for the admin identity. Both persist into the sessions table.
	visitor := session.NewVisitor(db, cfg.IsDevelopment())
	identity := session.NewIdentity(db, cfg.IsDevelopment())

	// Renderer over the embedded templates; flash messages ride the visitor
	// session, which is loaded on every route.
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("locating templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: visitor,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	blogHandler := handler.NewBlogHandler(db, renderer, visitor)
	authHandler := handler.NewAuthHandler(db, renderer, identity)
	adminHandler := handler.NewAdminHandler(db, renderer)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(visitor.LoadAndSave)

	// Public blog
	r.Get(handler.RouteRoot, blogHandler.Index)
	r.Get(handler.RouteIndex, blogHandler.Index)
	r.Get(handler.RoutePage, blogHandler.Page)
	r.Get(handler.RouteArticle, blogHandler.PostDetail)
	r.Get(handler.RouteCategoryYear, blogHandler.Year)
	r.Get(handler.RouteAllPosts, blogHandler.AllPosts)
	r.Post(handler.RouteSearch, blogHandler.Search)
	r.Get(handler.RouteAbout, blogHandler.About)
	r.Get(handler.RouteContact, blogHandler.Contact)
	r.Get(handler.RouteNotFound, blogHandler.NotFound)
	r.Post(handler.RouteAddComment, blogHandler.AddComment)
	r.Post(handler.RouteAddContact, blogHandler.AddContact)
	r.Post(handler.RouteUserLikes, blogHandler.Likes)

	// Admin area
	r.Route("/admin", func(r chi.Router) {
		r.Use(identity.LoadAndSave)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))

		r.Get("/", adminHandler.Root)
		r.Get(handler.RouteAdminLogin, authHandler.LoginForm)
		r.Post(handler.RouteAdminLogin, authHandler.Login)
		r.Get(handler.RouteAdminRegister, authHandler.RegisterForm)
		r.Post(handler.RouteAdminRegister, authHandler.Register)
		r.Post(handler.RouteAdminUserExist, authHandler.UserExists)
		r.Post(handler.RouteAdminEmailExist, authHandler.EmailExists)

		// Everything below requires a logged-in identity.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity(identity))

			r.Get(handler.RouteAdminLogout, authHandler.Logout)
			r.Get(handler.RouteAdminDashboard, adminHandler.Dashboard)
			r.Post(handler.RouteAdminDashboard, adminHandler.Dashboard)
			r.Get(handler.RouteAdminWritePost, adminHandler.WritePostForm)
			r.Post(handler.RouteAdminWritePost, adminHandler.SubmitPost)
			r.Get(handler.RouteAdminResetPassword, authHandler.ResetPasswordForm)
			r.Post(handler.RouteAdminResetPassword, authHandler.ResetPassword)
			r.Get(handler.RouteAdminAllPosts, adminHandler.AuthorPosts)
			r.Get(handler.RouteAdminTodayComments, adminHandler.TodayComments)
			r.Get(handler.RouteAdminGuestMessages, adminHandler.GuestMessages)
			r.Get(handler.RouteAdminAboutSelf, adminHandler.AboutSelf)

			// Catch-all edit route, registered last so the named admin
			// pages above win.
			r.Get(handler.RouteAdminEditPost, adminHandler.EditPostForm)
			r.Post(handler.RouteAdminEditPost, adminHandler.SavePost)
		})
	})

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("locating static assets: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// 404 fallback
	r.NotFound(blogHandler.NotFound)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
