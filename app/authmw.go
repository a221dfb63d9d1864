package app

import (
	"net/http"
	"strings"

	"github.com/Evarmedia/jumbly-BE-sub000/auth"
	"github.com/Evarmedia/jumbly-BE-sub000/db"
	"github.com/Evarmedia/jumbly-BE-sub000/session"

	"github.com/gin-gonic/gin"
)

// AuthRequired parses the Bearer token, checks that its session is still live
// in Redis and that the user still exists, then stores the caller's identity in
// the request context. Tenant scoping downstream relies on the tenantID key set
// here, never on request input.
func AuthRequired(tokens *auth.Signer, appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if !strings.HasPrefix(raw, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"message": "unauthorized"})
			return
		}
		claims, err := tokens.Validate(strings.TrimPrefix(raw, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"message": "invalid token"})
			return
		}
		if _, err := appSess.Get(c.Request.Context(), claims.SessionID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"message": "session expired"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), claims.SessionID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"message": "unauthorized"})
			return
		}

		c.Set("userID", u.ID)
		c.Set("tenantID", u.TenantID)
		c.Set("sessionID", claims.SessionID)
		c.Set("email", u.Email)
		c.Set("isAdmin", u.IsAdmin())
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("isAdmin") {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"message": "forbidden"})
			return
		}
		c.Next()
	}
}

// Identity pulls the context keys set by AuthRequired.
func Identity(c *gin.Context) (userID, tenantID string) {
	return c.GetString("userID"), c.GetString("tenantID")
}
