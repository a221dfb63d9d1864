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

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

type createItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Quantity    *int64 `json:"quantity" binding:"required"`
	Description string `json:"description"`
}

func (ic *ItemController) CreateItem(c *gin.Context) {
	var in createItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"message": err.Error()})
		return
	}
	if *in.Quantity < 0 {
		c.JSON(http.StatusBadRequest, app.H{"message": "quantity must not be negative"})
		return
	}

	_, tenantID := app.Identity(c)
	it := &models.Item{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Name:        in.Name,
		Quantity:    *in.Quantity,
		Description: in.Description,
	}
	if err := ic.Repo.CreateItem(c.Request.Context(), it); err != nil {
		if errors.Is(err, db.ErrDuplicateItem) {
			c.JSON(http.StatusBadRequest, app.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"message": "item created", "item": it})
}

func (ic *ItemController) ListItems(c *gin.Context) {
	_, tenantID := app.Identity(c)
	page, size := pageParams(c)

	res, err := ic.Repo.ListItems(c.Request.Context(), tenantID, c.Query("q"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "items": res.Items, "total": res.Total})
}

func (ic *ItemController) GetItem(c *gin.Context) {
	_, tenantID := app.Identity(c)
	it, err := ic.Repo.FindItemByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"message": "item not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "item": it})
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Quantity    *int64  `json:"quantity"`
	Description *string `json:"description"`
}

func (ic *ItemController) UpdateItem(c *gin.Context) {
	var in updateItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"message": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			c.JSON(http.StatusBadRequest, app.H{"message": "quantity must not be negative"})
			return
		}
		updates["quantity"] = *in.Quantity
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"message": "nothing to update"})
		return
	}

	_, tenantID := app.Identity(c)
	it, err := ic.Repo.UpdateItem(c.Request.Context(), tenantID, c.Param("id"), updates)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrItemNotFound):
			c.JSON(http.StatusNotFound, app.H{"message": "item not found"})
		case errors.Is(err, db.ErrDuplicateItem):
			c.JSON(http.StatusBadRequest, app.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "item updated", "item": it})
}

func (ic *ItemController) DeleteItem(c *gin.Context) {
	_, tenantID := app.Identity(c)
	if err := ic.Repo.DeleteItem(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, db.ErrItemNotFound):
			c.JSON(http.StatusNotFound, app.H{"message": "item not found"})
		case errors.Is(err, db.ErrItemAllocated):
			c.JSON(http.StatusConflict, app.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "item deleted"})
}
