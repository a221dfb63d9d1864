package controllers

import (
	"errors"
	"net/http"

	"github.com/Evarmedia/jumbly-BE-sub000/app"
	"github.com/Evarmedia/jumbly-BE-sub000/db"

	"github.com/gin-gonic/gin"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

func (uc *UserController) ListUsers(c *gin.Context) {
	_, tenantID := app.Identity(c)
	page, size := pageParams(c)

	res, err := uc.Repo.ListUsers(c.Request.Context(), tenantID, c.Query("q"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "users": res.Users, "total": res.Total})
}

func (uc *UserController) GetUser(c *gin.Context) {
	_, tenantID := app.Identity(c)
	u, err := uc.Repo.FindUserByID(c.Request.Context(), c.Param("id"))
	if err != nil || u.TenantID != tenantID {
		c.JSON(http.StatusNotFound, app.H{"message": "user not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "user": u})
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	uid, tenantID := app.Identity(c)
	id := c.Param("id")
	if id == uid {
		c.JSON(http.StatusBadRequest, app.H{"message": "cannot delete own account"})
		return
	}
	if err := uc.Repo.DeleteUserByID(c.Request.Context(), tenantID, id); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, app.H{"message": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	// Deleted users lose every live session immediately.
	_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	c.JSON(http.StatusOK, app.H{"message": "user deleted"})
}
