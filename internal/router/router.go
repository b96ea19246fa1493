package router

import (
	"context"
	"fmt"

	"github.com/anonto42/social-pod/backend/internal/auth"
	"github.com/anonto42/social-pod/backend/internal/handlers"
	"github.com/anonto42/social-pod/backend/internal/middleware"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/repositories"
	"github.com/anonto42/social-pod/backend/internal/services"
	"github.com/anonto42/social-pod/backend/internal/storage"
	"github.com/anonto42/social-pod/backend/pkg/config"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Deps are the process-wide dependencies the routes are built from.
type Deps struct {
	Config       *config.Config
	DB           *config.DB
	Tokens       *auth.Tokens
	Storage      storage.Storage
	FirebaseAuth handlers.IDTokenVerifier // nil disables /auth/firebase-login
	Trans        ut.Translator
	Log          *zap.Logger
}

// SetupRoutes migrates the relational schema, builds repositories, services
// and handlers and mounts them on e.
func SetupRoutes(ctx context.Context, e *echo.Echo, d Deps) error {
	pgdb := d.DB.Postgres
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Person{},
		&models.Profile{},
		&models.Aspect{},
		&models.AspectMembership{},
		&models.Photo{},
		&models.PhotoAspect{},
		&models.Like{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Notification{},
		&models.NotificationActor{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	d.Log.Info("PostgreSQL auto-migrations completed")

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	personRepo := repositories.NewPostgresPersonRepository(pgdb)
	aspectRepo := repositories.NewPostgresAspectRepository(pgdb)
	photoRepo := repositories.NewPostgresPhotoRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(d.DB.Mongo.Database(d.Config.MongoDatabase))
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("post indexes: %w", err)
	}

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo, personRepo, postRepo, d.Log)
	photoService := services.NewPhotoService(photoRepo, aspectRepo, personRepo, d.Storage, d.Config.Storage.UploadMaxBytes, d.Config.Storage.UploadMaxPixels, d.Log)
	postService := services.NewPostService(postRepo, likeRepo, commentRepo, commentLikeRepo, aspectRepo, personRepo, photoRepo, notificationService, d.Log)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	if local, ok := d.Storage.(*storage.LocalStorage); ok {
		e.Static("/uploads", local.BasePath())
	}

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(userRepo, aspectRepo, d.Tokens, d.FirebaseAuth, d.Config.PodHost, d.Trans, d.Log)
	authHandler.RegisterAuthRoutes(e.Group("/api/v1/auth"))

	// --- Protected routes (require an access token) ---
	api := e.Group("/api/v1")
	api.Use(middleware.AccessToken(d.Tokens, userRepo, d.Trans, d.Log))
	write := middleware.RequireScope(auth.ScopeWrite, d.Trans)

	authHandler.RegisterTokenRoutes(api)
	handlers.NewUserHandler(personRepo, d.Trans, d.Log).RegisterProfileRoutes(api, write)
	handlers.NewPhotoHandler(photoService, d.Trans, d.Log).RegisterPhotoRoutes(api, write)
	handlers.NewPostHandler(postService, d.Trans, d.Log).RegisterPostRoutes(api, write)
	handlers.NewLikeHandler(postService, d.Trans, d.Log).RegisterLikeRoutes(api, write)
	handlers.NewCommentHandler(postService, d.Trans, d.Log).RegisterCommentRoutes(api, write)
	handlers.NewFeedHandler(postService, d.Trans, d.Log).RegisterFeedRoutes(api)
	handlers.NewAspectHandler(aspectRepo, personRepo, notificationService, d.Trans, d.Log).RegisterAspectRoutes(api, write)
	handlers.NewNotificationHandler(notificationService, d.Trans, d.Log).RegisterNotificationRoutes(api, write)

	d.Log.Info("All routes configured")
	return nil
}
