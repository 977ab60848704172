package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/perfectcherry/cherry-server/internal/cache"
	"github.com/perfectcherry/cherry-server/internal/mail"
	"github.com/perfectcherry/cherry-server/internal/storage"
)

// AppContext holds shared dependencies (DB, Redis, Mailer, Store, Logger).
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Mailer     mail.Mailer
	Store      *storage.DiskStore
	Logger     *slog.Logger
}

// New creates a new AppContext.
func New(db *gorm.DB, rdb *cache.RedisCache, mailer mail.Mailer, store *storage.DiskStore, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Mailer:     mailer,
		Store:      store,
		Logger:     logger,
	}
}
