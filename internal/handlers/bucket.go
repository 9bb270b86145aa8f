package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/divizend/dreaming/db"
	"github.com/divizend/dreaming/internal/models"
	"github.com/divizend/dreaming/internal/services"
	"github.com/divizend/dreaming/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateBucketRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type UpdateBucketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=OPEN CLOSED"`
}

type BucketResponse struct {
	models.Bucket
	Progress services.Progress `json:"progress"`
}

func newBucketResponse(bucket models.Bucket) BucketResponse {
	return BucketResponse{Bucket: bucket, Progress: services.BucketProgress(bucket)}
}

func withBucketDetails(database *gorm.DB) *gorm.DB {
	return database.
		Preload("BudgetItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		Preload("Pledges")
}

// loadBucket resolves the :bucketId parameter inside the current project and
// writes the error response itself when that fails.
func loadBucket(ctx *gin.Context, details bool) (models.Project, models.Bucket, bool) {
	var bucket models.Bucket

	project, err := utils.GetCurrentProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return project, bucket, false
	}

	bucketID, err := utils.GetBucketID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return project, bucket, false
	}

	database := db.DB.WithContext(ctx.Request.Context())
	if details {
		database = withBucketDetails(database)
	}

	if err := database.Where("id = ? AND project_id = ?", bucketID, project.ID).First(&bucket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Bucket not found"})
		} else {
			slog.Error("Failed to fetch bucket", "bucket_id", bucketID, "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bucket"})
		}
		return project, bucket, false
	}

	return project, bucket, true
}

func ListBuckets(ctx *gin.Context) {
	project, err := utils.GetCurrentProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var buckets []models.Bucket

	if err := withBucketDetails(db.DB.WithContext(ctx.Request.Context())).
		Where("project_id = ?", project.ID).
		Order("created_at DESC").
		Find(&buckets).Error; err != nil {
		slog.Error("Failed to fetch buckets", "project_id", project.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch buckets"})
		return
	}

	response := make([]BucketResponse, 0, len(buckets))
	for _, bucket := range buckets {
		response = append(response, newBucketResponse(bucket))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetBucket(ctx *gin.Context) {
	_, bucket, ok := loadBucket(ctx, true)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, newBucketResponse(bucket))
}

func CreateBucket(ctx *gin.Context) {
	project, err := utils.GetCurrentProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var body CreateBucketRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title and description are required"})
		return
	}

	bucket := models.Bucket{
		ProjectID:   project.ID,
		Title:       body.Title,
		Description: body.Description,
		Status:      models.BucketStatusOpen,
	}

	if err := db.DB.WithContext(ctx.Request.Context()).Create(&bucket).Error; err != nil {
		slog.Error("Failed to create bucket", "project_id", project.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bucket"})
		return
	}

	BroadcastRefresh(project.ID)
	ctx.JSON(http.StatusCreated, newBucketResponse(bucket))
}

func UpdateBucket(ctx *gin.Context) {
	var body UpdateBucketRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status must be OPEN or CLOSED"})
		return
	}

	if body.Title == "" && body.Description == "" && body.Status == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "At least one field to update is required"})
		return
	}

	project, bucket, ok := loadBucket(ctx, false)
	if !ok {
		return
	}

	if body.Title != "" {
		bucket.Title = body.Title
	}

	if body.Description != "" {
		bucket.Description = body.Description
	}

	if body.Status != "" {
		bucket.Status = body.Status
	}

	database := db.DB.WithContext(ctx.Request.Context())

	if err := database.Model(&bucket).Select("title", "description", "status").Updates(&bucket).Error; err != nil {
		slog.Error("Failed to update bucket", "bucket_id", bucket.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bucket"})
		return
	}

	if err := withBucketDetails(database).First(&bucket, "id = ?", bucket.ID).Error; err != nil {
		slog.Error("Failed to reload bucket", "bucket_id", bucket.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bucket"})
		return
	}

	BroadcastRefresh(project.ID)
	ctx.JSON(http.StatusOK, newBucketResponse(bucket))
}

// DeleteBucket removes the bucket and refunds its pledges.
func DeleteBucket(ctx *gin.Context) {
	project, bucket, ok := loadBucket(ctx, false)
	if !ok {
		return
	}

	if err := services.DeleteBucket(ctx.Request.Context(), db.DB, project.ID, bucket.ID); err != nil {
		respondServiceError(ctx, err, "Failed to delete bucket")
		return
	}

	BroadcastRefresh(project.ID)
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
