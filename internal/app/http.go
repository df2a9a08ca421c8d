package app

import (
	"context"

	"github.com/Food-Locker/consumer/internal/assignment"
	"github.com/Food-Locker/consumer/internal/auth"
	"github.com/Food-Locker/consumer/internal/auth/handler"
	"github.com/Food-Locker/consumer/internal/auth/profile"
	"github.com/Food-Locker/consumer/internal/auth/provider"
	"github.com/Food-Locker/consumer/internal/auth/provider/google"
	"github.com/Food-Locker/consumer/internal/auth/provider/keycloak"
	"github.com/Food-Locker/consumer/internal/config"
	"github.com/Food-Locker/consumer/internal/kiosk"
	"github.com/Food-Locker/consumer/internal/middleware"
	"github.com/Food-Locker/consumer/internal/notify"
	"github.com/Food-Locker/consumer/internal/seat"
	"github.com/Food-Locker/consumer/internal/session"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	profileService := profile.NewPGService(infra.DB)
	identityManager := auth.NewManager(profileService)

	seatStore := seat.NewStore(seat.NewRedisKV(infra.Redis.Client))
	notifications := notify.NewQueue()

	workflow := assignment.NewWorkflow(
		assignment.NewClient(cfg.LockerAPIBaseURL),
		identityManager,
		seatStore,
		notifications,
		assignment.WithRequiredIdentity(cfg.SeatRequired),
		assignment.WithCloseDelay(cfg.SeatCloseDelay),
	)

	googleProvider, err := google.New(
		ctx,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	keycloakProvider, err := keycloak.New(
		ctx,
		cfg.KeycloakIssuer,
		cfg.KeycloakClientID,
		cfg.KeycloakRedirectURL,
		cfg.KeycloakPublicBaseURL,
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(
		googleProvider,
		keycloakProvider,
	)

	authHandler := handler.NewHandler(
		registry,
		sessionStore,
		profileService,
		identityManager,
	)

	kioskHandler := kiosk.NewHandler(
		identityManager,
		workflow,
		seatStore,
		notifications,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	kioskHandler.RegisterRoutes(api)

	// ----------------------------
	// Cleanup
	// ----------------------------

	cleanup := func() error {
		workflow.Close()
		identityManager.Close()
		return infra.DB.Close()
	}

	return router, cleanup, nil
}
