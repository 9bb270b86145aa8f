package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/divizend/dreaming/db"
	"github.com/divizend/dreaming/internal/auth"
	"github.com/divizend/dreaming/internal/models"
	"github.com/divizend/dreaming/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthenticatedUser is the session owner attached to the request.
type AuthenticatedUser struct {
	ID        string `json:"id"`
	IsAdmin   bool   `json:"isAdmin"`
	SessionID string `json:"-"`
}

// AuthMiddleware requires a bearer token that resolves to an unexpired
// session. Websocket upgrades may pass the token as ?token= instead, since
// browsers cannot set headers on them.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, errMsg := extractToken(ctx)

		if errMsg != "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
			return
		}

		claims, err := auth.VerifySessionToken(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		var session models.Session

		if err := db.DB.WithContext(ctx.Request.Context()).Preload("User").Where("token = ?", tokenString).First(&session).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				slog.Error("Failed to load session", "error", err)
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		if session.ID != claims.SessionID || session.Expired(time.Now()) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:        session.User.ID,
			IsAdmin:   session.User.IsAdmin,
			SessionID: session.ID,
		})
		ctx.Next()
	}
}

func extractToken(ctx *gin.Context) (string, string) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		if ctx.IsWebsocket() {
			if token := ctx.Query("token"); token != "" {
				return token, ""
			}
		}
		return "", "Unauthorized: No valid token provided"
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", "Authorization header format must be Bearer {token}"
	}

	return strings.TrimSpace(parts[1]), ""
}

func currentUser(ctx *gin.Context) (AuthenticatedUser, bool) {
	value, exists := ctx.Get(types.ContextUserKey)
	if !exists {
		return AuthenticatedUser{}, false
	}

	user, ok := value.(AuthenticatedUser)
	return user, ok
}

// RequireGlobalAdmin must run after AuthMiddleware.
func RequireGlobalAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := currentUser(ctx)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		if !user.IsAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: admin access required"})
			return
		}

		ctx.Next()
	}
}
