package app

import (
	"context"
	"time"

	"github.com/Evarmedia/jumbly-BE-sub000/auth"
	"github.com/Evarmedia/jumbly-BE-sub000/config"
	"github.com/Evarmedia/jumbly-BE-sub000/db"
	"github.com/Evarmedia/jumbly-BE-sub000/logger"
	"github.com/Evarmedia/jumbly-BE-sub000/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Aliases so handlers do not import gin directly everywhere.
type Ctx = gin.Context
type H = gin.H

// App aggregates process-wide dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Log    *zap.Logger
	Tokens *auth.Signer
	Config config.Config

	appSess *session.AppSessionStore
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := config.Load()
	log := logger.Get()

	dbConn := db.ConnectDB(cfg)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	r.Use(Metrics())

	a := &App{
		Router: r,
		DB:     dbConn,
		RDB:    rdb,
		Log:    log,
		Tokens: auth.NewSigner(cfg.JWTSecret, cfg.TokenTTL),
		Config: cfg,

		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
	return a
}

func (a *App) Close() {
	_ = a.RDB.Close()
	_ = a.Log.Sync()
}
