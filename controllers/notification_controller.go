package controllers

import (
	"errors"
	"net/http"

	"github.com/Evarmedia/jumbly-BE-sub000/app"
	"github.com/Evarmedia/jumbly-BE-sub000/db"

	"github.com/gin-gonic/gin"
)

type NotificationController struct{ *Srv }

func NewNotificationController(s *Srv) *NotificationController {
	return &NotificationController{Srv: s}
}

func (nc *NotificationController) ListNotifications(c *gin.Context) {
	userID, tenantID := app.Identity(c)
	page, size := pageParams(c)
	unreadOnly := c.Query("unread") == "true"

	res, err := nc.Repo.ListNotifications(c.Request.Context(), tenantID, userID, unreadOnly, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "notifications": res.Notifications, "total": res.Total})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID, tenantID := app.Identity(c)
	if err := nc.Repo.MarkNotificationRead(c.Request.Context(), tenantID, userID, c.Param("id")); err != nil {
		if errors.Is(err, db.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, app.H{"message": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "notification marked read"})
}
