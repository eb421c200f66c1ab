package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopify-bundle-upsell/internal/application"
	"shopify-bundle-upsell/internal/config"
	"shopify-bundle-upsell/internal/infrastructure/api"
	"shopify-bundle-upsell/internal/infrastructure/metrics"
	"shopify-bundle-upsell/internal/infrastructure/repository"
	"shopify-bundle-upsell/internal/infrastructure/session"
	shopifyinfra "shopify-bundle-upsell/internal/infrastructure/shopify"
	"shopify-bundle-upsell/internal/ports"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: .env file not found")
	}

	cfg := config.Load()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Connect to MongoDB
	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer db.Client().Disconnect(context.Background())

	bundleRepo := repository.NewMongoBundleRepository(db)
	if err := bundleRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create bundle indexes")
	}

	// Session and OAuth state stores
	var (
		sessions ports.SessionStore
		states   ports.OAuthStateStore
	)
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		store := session.NewRedisStore(rdb)
		sessions, states = store, store
	case config.SessionStoreMongo:
		store := repository.NewMongoSessionStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to create session indexes")
		}
		sessions, states = store, session.NewMemoryStore()
	default:
		store := session.NewMemoryStore()
		sessions, states = store, store
	}
	logger.Info().Str("backend", cfg.SessionStore).Msg("Session store ready")

	shopifyClient := shopifyinfra.NewClient(shopifyinfra.Options{
		APIKey:      cfg.APIKey,
		APISecret:   cfg.APISecret,
		RedirectURL: cfg.RedirectURL(),
		Scopes:      cfg.Scopes,
		APIVersion:  cfg.APIVersion,
		Retries:     cfg.APIRetries,
	}, logger)

	// Initialize application services
	authService := application.NewAuthService(
		shopifyClient,
		sessions,
		states,
		cfg.Scopes,
		cfg.OAuthStateTTL,
		logger,
	)
	bundleService := application.NewBundleService(bundleRepo, logger)

	router := api.NewRouter(api.RouterDeps{
		Auth:               authService,
		Bundles:            bundleService,
		Cookies:            api.NewSessionCookie(cfg.APISecret, cfg.SecureCookies()),
		Metrics:            metrics.New(),
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout:     cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	if err := serve(srv, sig, 10*time.Second, logger); err != nil {
		logger.Error().Err(err).Msg("Server stopped")
	}
}
