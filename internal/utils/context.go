package utils

import (
	"fmt"

	"github.com/divizend/dreaming/internal/middleware"
	"github.com/divizend/dreaming/internal/models"
	"github.com/divizend/dreaming/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (string, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return "", err
	}

	return user.ID, nil
}

// GetCurrentProject returns the project resolved from the :slug parameter
// by middleware.ProjectContext.
func GetCurrentProject(ctx *gin.Context) (models.Project, error) {
	project, exists := ctx.Get(types.ContextProjectKey)

	if !exists {
		return models.Project{}, fmt.Errorf("Project not resolved")
	}

	p, ok := project.(models.Project)

	if !ok {
		return models.Project{}, fmt.Errorf("Invalid project type in context")
	}

	return p, nil
}
