package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/divizend/dreaming/db"
	"github.com/divizend/dreaming/internal/auth"
	"github.com/divizend/dreaming/internal/models"
	"github.com/divizend/dreaming/internal/services"
	"github.com/divizend/dreaming/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultCurrency tags ledger rows and budget items created without an
// explicit currency.
var DefaultCurrency = models.DefaultCurrency

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Slug        string `json:"slug" binding:"required,slug"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	NewSlug     string `json:"newSlug" binding:"omitempty,slug"`
}

// CreateProjectResponse carries the webhook secret; it is only ever shown
// here and on rotation.
type CreateProjectResponse struct {
	models.Project
	WebhookSecret string `json:"webhookSecret"`
}

var errSlugTaken = errors.New("slug taken")

// isSlugError reports whether binding failed on the slug rule.
func isSlugError(err error) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}

	for _, fieldErr := range validationErrors {
		if fieldErr.Tag() == "slug" {
			return true
		}
	}
	return false
}

func slugInUse(database *gorm.DB, slug string) (bool, error) {
	var count int64

	if err := database.Model(&models.Project{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func ListProjects(ctx *gin.Context) {
	var projects []models.Project

	if err := db.DB.WithContext(ctx.Request.Context()).Order("created_at DESC").Find(&projects).Error; err != nil {
		slog.Error("Failed to fetch projects", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

func GetProject(ctx *gin.Context) {
	project, err := utils.GetCurrentProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	ctx.JSON(http.StatusOK, project)
}

// CreateProject creates a project and makes the creator its admin with an
// empty ledger row.
func CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		if isSlugError(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": utils.SlugMessage})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name, description, and slug are required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	secret, secretHash, err := auth.NewWebhookSecret()

	if err != nil {
		slog.Error("Failed to generate webhook secret", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	project := models.Project{
		Name:              body.Name,
		Description:       body.Description,
		Slug:              body.Slug,
		WebhookSecretHash: secretHash,
	}

	err = db.DB.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		taken, err := slugInUse(tx, body.Slug)
		if err != nil {
			return err
		}
		if taken {
			return errSlugTaken
		}

		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		return tx.Create(&models.UserProjectFunds{
			UserID:    userID,
			ProjectID: project.ID,
			FundsLeft: decimal.Zero,
			Currency:  DefaultCurrency,
			IsAdmin:   true,
		}).Error
	})

	if errors.Is(err, errSlugTaken) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "This slug is already in use. Please choose another one."})
		return
	}

	if err != nil {
		slog.Error("Failed to create project", "slug", body.Slug, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, CreateProjectResponse{Project: project, WebhookSecret: secret})
}

func UpdateProject(ctx *gin.Context) {
	project, err := utils.GetCurrentProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var body UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		if isSlugError(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": utils.SlugMessage})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Name == "" && body.Description == "" && body.NewSlug == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "At least one field to update is required"})
		return
	}

	database := db.DB.WithContext(ctx.Request.Context())

	if body.NewSlug != "" && body.NewSlug != project.Slug {
		taken, err := slugInUse(database, body.NewSlug)

		if err != nil {
			slog.Error("Failed to check slug", "slug", body.NewSlug, "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
			return
		}

		if taken {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "This slug is already in use. Please choose another one."})
			return
		}

		project.Slug = body.NewSlug
	}

	if body.Name != "" {
		project.Name = body.Name
	}

	if body.Description != "" {
		project.Description = body.Description
	}

	if err := database.Model(&project).Select("name", "description", "slug").Updates(&project).Error; err != nil {
		slog.Error("Failed to update project", "project_id", project.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	BroadcastRefresh(project.ID)
	ctx.JSON(http.StatusOK, project)
}

func DeleteProject(ctx *gin.Context) {
	project, err := utils.GetCurrentProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if err := services.DeleteProject(ctx.Request.Context(), db.DB, project.ID); err != nil {
		respondServiceError(ctx, err, "Failed to delete project")
		return
	}

	BroadcastRefresh(project.ID)
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// RotateWebhookSecret replaces the project's webhook secret and returns the
// new one.
func RotateWebhookSecret(ctx *gin.Context) {
	project, err := utils.GetCurrentProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	secret, secretHash, err := auth.NewWebhookSecret()

	if err != nil {
		slog.Error("Failed to generate webhook secret", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate webhook secret"})
		return
	}

	if err := db.DB.WithContext(ctx.Request.Context()).Model(&project).Update("webhook_secret_hash", secretHash).Error; err != nil {
		slog.Error("Failed to store webhook secret", "project_id", project.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate webhook secret"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"webhookSecret": secret})
}
