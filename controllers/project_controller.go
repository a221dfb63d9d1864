package controllers

import (
	"errors"
	"net/http"

	"github.com/Evarmedia/jumbly-BE-sub000/app"
	"github.com/Evarmedia/jumbly-BE-sub000/db"
	"github.com/Evarmedia/jumbly-BE-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectController struct{ *Srv }

func NewProjectController(s *Srv) *ProjectController { return &ProjectController{Srv: s} }

type createProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	ClientID    *string `json:"client_id"`
	StatusID    string  `json:"status_id"`
	Description string  `json:"description"`
}

func (pc *ProjectController) CreateProject(c *gin.Context) {
	var in createProjectRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"message": err.Error()})
		return
	}
	if in.StatusID == "" {
		in.StatusID = "active"
	}

	_, tenantID := app.Identity(c)
	p := &models.Project{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		ClientID:    in.ClientID,
		StatusID:    in.StatusID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := pc.Repo.CreateProject(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"message": "project created", "project": p})
}

func (pc *ProjectController) ListProjects(c *gin.Context) {
	_, tenantID := app.Identity(c)
	page, size := pageParams(c)

	res, err := pc.Repo.ListProjects(c.Request.Context(), tenantID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "projects": res.Projects, "total": res.Total})
}

func (pc *ProjectController) GetProject(c *gin.Context) {
	_, tenantID := app.Identity(c)
	p, err := pc.Repo.FindProjectByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"message": "project not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "project": p})
}

// GetProjectInventory lists what the project currently holds.
func (pc *ProjectController) GetProjectInventory(c *gin.Context) {
	_, tenantID := app.Identity(c)
	allocs, err := pc.Repo.ProjectAllocations(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, app.H{"message": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "inventory": allocs})
}
