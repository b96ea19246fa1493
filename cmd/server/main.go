package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/social-pod/backend/internal/auth"
	"github.com/anonto42/social-pod/backend/internal/handlers"
	"github.com/anonto42/social-pod/backend/internal/i18n"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/router"
	"github.com/anonto42/social-pod/backend/internal/storage"
	"github.com/anonto42/social-pod/backend/internal/validators"
	"github.com/anonto42/social-pod/backend/pkg/config"
	"github.com/anonto42/social-pod/backend/pkg/firebase"
	"github.com/anonto42/social-pod/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(logger.Options{Level: cfg.LogLevel, Filename: cfg.LogFile, Stdout: true})
	defer func() { _ = log.Sync() }()

	if err := models.ValidateNotificationTypes(); err != nil {
		log.Fatal("Invalid notification type table", zap.Error(err))
	}

	// Initialize database connections
	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	var blacklist auth.Blacklist = auth.NopBlacklist{}
	if db.Redis != nil {
		blacklist = auth.NewRedisBlacklist(db.Redis)
	}
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.AccessTokenTTL, blacklist)

	store, err := storage.NewStorage(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	trans, err := i18n.NewTranslator(cfg.Locale)
	if err != nil {
		log.Fatal("Failed to load translations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var firebaseAuth handlers.IDTokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		client, err := firebase.InitAuth(ctx, cfg.FirebaseCredentialsPath, log)
		if err != nil {
			log.Fatal("Failed to initialize Firebase", zap.Error(err))
		}
		firebaseAuth = client
	} else {
		log.Warn("FIREBASE_CREDENTIALS_PATH not set, Firebase login is disabled")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, log)

	err = router.SetupRoutes(ctx, e, router.Deps{
		Config:       cfg,
		DB:           db,
		Tokens:       tokens,
		Storage:      store,
		FirebaseAuth: firebaseAuth,
		Trans:        trans,
		Log:          log,
	})
	if err != nil {
		log.Fatal("Failed to set up routes", zap.Error(err))
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server stopped", zap.Error(err))
		}
	}()
	log.Info("Server started", zap.String("port", cfg.Port))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
