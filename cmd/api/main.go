package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/karibu-kenya/travel-api/internal/api"
	"github.com/karibu-kenya/travel-api/internal/core/ports"
	"github.com/karibu-kenya/travel-api/internal/core/service"
	mongodb "github.com/karibu-kenya/travel-api/internal/infrastructure/db/mongo"
	redisdb "github.com/karibu-kenya/travel-api/internal/infrastructure/db/redis"
	"github.com/karibu-kenya/travel-api/internal/infrastructure/mail"
	"github.com/karibu-kenya/travel-api/internal/pkg/config"
	"github.com/karibu-kenya/travel-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	// --- Persistence ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(ctx) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure user indexes")
	}

	// --- Core services ---
	clock := ports.RealClock{}
	store := service.NewCredentialStore(userRepo, service.NewPasswordHasher(cfg.Auth.BcryptCost))
	codec := service.NewTokenCodec(clock)
	sessions := service.NewSessionIssuer(service.SessionIssuerConfig{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.Expire,
		RefreshTTL:    cfg.JWT.RefreshExpire,
	}, clock)
	notifier := mail.NewSMTPNotifier(mail.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	})
	events := redisdb.NewEventPublisher(rdb)

	accounts := service.NewAccountService(store, codec, sessions, notifier, events, clock, service.AccountConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
		FrontendURL:      cfg.FrontendURL,
	}, log)

	e := api.NewRouter(api.Dependencies{
		Accounts: accounts,
		Mongo:    db,
		Redis:    rdb,
	}, cfg, log)

	// --- Serve with graceful shutdown ---
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Karibu Kenya API server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
