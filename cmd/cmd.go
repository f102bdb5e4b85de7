package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swipe-match-backend/internal/cache"
	"swipe-match-backend/internal/config"
	"swipe-match-backend/internal/handlers"
	"swipe-match-backend/internal/middleware"
	"swipe-match-backend/internal/migrations"
	"swipe-match-backend/internal/repository"
	"swipe-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Run migrations over a stdlib connection, then connect the pool
	if err := runMigrations(cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Connect to Redis
	unreadCache, err := cache.Connect(context.Background(), cfg.Redis.Addr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer unreadCache.Close()
	log.Info().Msg("Redis connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	swipeRepo := repository.NewSwipeRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize push delivery
	var pusher services.PushSender
	if cfg.APNs.KeyFile != "" {
		apnsPusher, err := services.NewAPNSPusher(
			cfg.APNs.KeyFile,
			cfg.APNs.KeyID,
			cfg.APNs.TeamID,
			cfg.APNs.Topic,
			cfg.APNs.Production,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create APNs client")
		}
		pusher = apnsPusher
	} else {
		log.Warn().Msg("APNs not configured, push delivery disabled")
		pusher = services.NopPusher{}
	}

	// Initialize services
	presence := services.NewPresence()
	wsHub := services.NewWSHub()
	userService := services.NewUserService(userRepo, cfg.JWT.Secret)
	notifier := services.NewNotifier(userRepo, matchRepo, pusher, presence)
	swipeService := services.NewSwipeService(swipeRepo, matchRepo, userRepo, notifier, wsHub)
	matchService := services.NewMatchService(matchRepo, notifier)
	chatService := services.NewChatService(messageRepo, matchRepo, userRepo, unreadCache, presence, wsHub, notifier)
	mediaService, err := services.NewMediaService(
		userRepo,
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create media service")
	}

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	tokenHandler := handlers.NewTokenHandler(userService)
	swipeHandler := handlers.NewSwipeHandler(swipeService)
	matchHandler := handlers.NewMatchHandler(matchService)
	messageHandler := handlers.NewMessageHandler(chatService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService, chatService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/signup", userHandler.SignUp)
		r.Post("/auth/verify", userHandler.VerifyEmail)
		r.Post("/auth/signin", userHandler.SignIn)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))
			r.Get("/auth/access-token", tokenHandler.GetAccessToken)
			r.Get("/me", userHandler.GetMe)
			r.Patch("/me", userHandler.UpdateProfile)
			r.Put("/me/push-token", userHandler.UpdatePushToken)
			r.Get("/discover", userHandler.Discover)
			r.Post("/swipes", swipeHandler.Swipe)
			r.Get("/matches", matchHandler.ListMatches)
			r.Get("/matches/{match_id}", matchHandler.GetMatch)
			r.Get("/matches/{match_id}/messages", messageHandler.ListMessages)
			r.Post("/matches/{match_id}/messages", messageHandler.SendMessage)
			r.Post("/matches/{match_id}/read", messageHandler.MarkRead)
			r.Get("/unread", messageHandler.GetUnread)
			r.Post("/notifications/match", matchHandler.RenotifyMatch)
			r.Post("/media/profile-photo", mediaHandler.GetUploadURL)
			r.Post("/media/profile-photo/confirm", mediaHandler.ConfirmPhoto)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// runMigrations applies embedded goose migrations
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(context.Background(), db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
