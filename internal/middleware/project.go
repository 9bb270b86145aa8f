package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/divizend/dreaming/db"
	"github.com/divizend/dreaming/internal/models"
	"github.com/divizend/dreaming/internal/services"
	"github.com/divizend/dreaming/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectContext resolves the :slug path parameter and stores the project
// in the gin context.
func ProjectContext() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		slug := ctx.Param("slug")

		var project models.Project

		if err := db.DB.WithContext(ctx.Request.Context()).Where("slug = ?", slug).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Project not found"})
				return
			}
			slog.Error("Failed to load project", "slug", slug, "error", err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
			return
		}

		ctx.Set(types.ContextProjectKey, project)
		ctx.Next()
	}
}

// RequireProjectAdmin must run after AuthMiddleware and ProjectContext. The
// caller needs a ledger row for the project with the admin flag set.
func RequireProjectAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := currentUser(ctx)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		value, exists := ctx.Get(types.ContextProjectKey)
		project, ok := value.(models.Project)

		if !exists || !ok {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}

		isAdmin, err := services.IsProjectAdmin(ctx.Request.Context(), db.DB, user.ID, project.ID)

		if err != nil {
			slog.Error("Failed to check project admin", "project_id", project.ID, "user_id", user.ID, "error", err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if !isAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: project admin access required"})
			return
		}

		ctx.Next()
	}
}
