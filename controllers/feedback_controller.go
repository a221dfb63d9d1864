package controllers

import (
	"net/http"

	"github.com/Evarmedia/jumbly-BE-sub000/app"
	"github.com/Evarmedia/jumbly-BE-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FeedbackController struct{ *Srv }

func NewFeedbackController(s *Srv) *FeedbackController { return &FeedbackController{Srv: s} }

type createFeedbackRequest struct {
	ProjectID *string `json:"project_id"`
	Rating    int     `json:"rating" binding:"required,min=1,max=5"`
	Comment   string  `json:"comment"`
}

func (fc *FeedbackController) CreateFeedback(c *gin.Context) {
	var in createFeedbackRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"message": err.Error()})
		return
	}

	userID, tenantID := app.Identity(c)
	if in.ProjectID != nil {
		if _, err := fc.Repo.FindProjectByID(c.Request.Context(), tenantID, *in.ProjectID); err != nil {
			c.JSON(http.StatusNotFound, app.H{"message": "project not found"})
			return
		}
	}

	f := &models.Feedback{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		UserID:    userID,
		ProjectID: in.ProjectID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := fc.Repo.CreateFeedback(c.Request.Context(), f); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"message": "feedback submitted", "feedback": f})
}

func (fc *FeedbackController) ListFeedback(c *gin.Context) {
	_, tenantID := app.Identity(c)
	page, size := pageParams(c)

	res, err := fc.Repo.ListFeedback(c.Request.Context(), tenantID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "feedback": res.Feedback, "total": res.Total})
}
