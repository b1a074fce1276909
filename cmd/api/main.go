// Accademia Musicale I Musici — management API.
//
// @title        Accademia Musicale I Musici API
// @version      1.0
// @description  Gestione allievi, insegnanti, corsi, pagamenti e calendario.
// @BasePath     /api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/imusici/academy-system/internal/api"
	"github.com/imusici/academy-system/internal/infrastructure/config"
	mongodb "github.com/imusici/academy-system/internal/infrastructure/db/mongo"
	redisdb "github.com/imusici/academy-system/internal/infrastructure/db/redis"
	"github.com/imusici/academy-system/internal/infrastructure/scheduler"
	"github.com/imusici/academy-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Missing .env is fine: containers inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	e, paymentService := api.NewRouter(cfg, db, rdb, log)

	jobs := scheduler.New(cfg.Scheduler, paymentService, log)
	if err := jobs.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler start failed")
	}
	defer jobs.Stop()

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("api listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
