package controllers

import (
	"errors"
	"net/http"

	"github.com/Evarmedia/jumbly-BE-sub000/app"
	"github.com/Evarmedia/jumbly-BE-sub000/db"
	"github.com/Evarmedia/jumbly-BE-sub000/metrics"
	"github.com/Evarmedia/jumbly-BE-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"message": err.Error()})
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("failed").Inc()
		c.JSON(http.StatusUnauthorized, app.H{"message": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("failed").Inc()
		c.JSON(http.StatusUnauthorized, app.H{"message": "invalid credentials"})
		return
	}

	sid := uuid.NewString()
	if err := ac.AppSess.Create(c.Request.Context(), sid, u.ID, u.TenantID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": "could not create session"})
		return
	}
	role := ""
	if u.Role != nil {
		role = u.Role.Name
	}
	token, err := ac.Tokens.Issue(u.ID, u.TenantID, role, sid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": "could not issue token"})
		return
	}

	// Login snapshot is best effort.
	if err := ac.Repo.TouchUserLogin(c.Request.Context(), u.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		ac.Log.Warn("touch login failed", zap.String("user", u.ID), zap.Error(err))
	}

	metrics.AuthAttemptsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, app.H{"message": "login successful", "token": token, "user": u})
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// Register creates a user inside the caller's tenant. Admin only.
func (ac *AuthController) Register(c *gin.Context) {
	var in registerRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"message": err.Error()})
		return
	}
	if in.Role == "" {
		in.Role = models.RoleMember
	}

	role, err := ac.Repo.FindRoleByName(c.Request.Context(), in.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"message": "unknown role"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": "could not hash password"})
		return
	}

	_, tenantID := app.Identity(c)
	u := &models.User{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		RoleID:       role.ID,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := ac.Repo.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, app.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	u.Role = role
	c.JSON(http.StatusCreated, app.H{"message": "user created", "user": u})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if sid := c.GetString("sessionID"); sid != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), sid)
	}
	c.JSON(http.StatusOK, app.H{"message": "logged out"})
}

func (ac *AuthController) Whoami(c *gin.Context) {
	uid, _ := app.Identity(c)
	u, err := ac.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"message": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "user": u})
}
