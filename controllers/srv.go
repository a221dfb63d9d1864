package controllers

import (
	"strconv"

	"github.com/Evarmedia/jumbly-BE-sub000/app"
	"github.com/Evarmedia/jumbly-BE-sub000/auth"
	"github.com/Evarmedia/jumbly-BE-sub000/config"
	"github.com/Evarmedia/jumbly-BE-sub000/db"
	"github.com/Evarmedia/jumbly-BE-sub000/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Srv bundles the dependencies controllers share.
type Srv struct {
	Repo    *db.Repo
	AppSess *session.AppSessionStore
	Tokens  *auth.Signer
	Log     *zap.Logger
	RDB     *redis.Client
	Cfg     config.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:    db.NewRepo(a.DB),
		AppSess: a.AppSessions(),
		Tokens:  a.Tokens,
		Log:     a.Log,
		RDB:     a.RDB,
		Cfg:     a.Config,
	}
}

// --- helpers ---

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))
	return page, size
}
