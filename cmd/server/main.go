package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/perfectcherry/cherry-server/internal/app"
	"github.com/perfectcherry/cherry-server/internal/auth"
	"github.com/perfectcherry/cherry-server/internal/cache"
	"github.com/perfectcherry/cherry-server/internal/config"
	"github.com/perfectcherry/cherry-server/internal/db"
	"github.com/perfectcherry/cherry-server/internal/logger"
	"github.com/perfectcherry/cherry-server/internal/mail"
	"github.com/perfectcherry/cherry-server/internal/server"
	"github.com/perfectcherry/cherry-server/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	lg := logger.L()

	if err := auth.Init(cfg); err != nil {
		lg.Error("failed to init auth", "err", err)
		return
	}

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		lg.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		lg.Error("failed to connect to redis", "err", err)
		return
	}

	// Upload directories must exist before the first request
	store := storage.NewDiskStore(cfg)
	if err := store.Init(); err != nil {
		lg.Error("failed to init upload dirs", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, mail.NewSMTPMailer(cfg), store, lg)

	r := server.NewRouter(appCtx)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	lg.Info("starting HTTP server", "addr", addr)

	if err := r.Run(addr); err != nil {
		lg.Error("failed to start HTTP server", "err", err)
	}
}
