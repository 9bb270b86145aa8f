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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateBudgetItemRequest struct {
	Description string           `json:"description" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Currency    string           `json:"currency"`
}

type UpdateBudgetItemRequest struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
}

const budgetAmountMessage = "Amount must be a positive number"

func loadBudgetItem(ctx *gin.Context, bucket models.Bucket) (models.BudgetItem, bool) {
	var item models.BudgetItem

	itemID, err := utils.GetBudgetItemID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return item, false
	}

	if err := db.DB.WithContext(ctx.Request.Context()).Where("id = ? AND bucket_id = ?", itemID, bucket.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Budget item not found"})
		} else {
			slog.Error("Failed to fetch budget item", "item_id", itemID, "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budget item"})
		}
		return item, false
	}

	return item, true
}

func ListBudgetItems(ctx *gin.Context) {
	_, bucket, ok := loadBucket(ctx, false)
	if !ok {
		return
	}

	var items []models.BudgetItem

	if err := db.DB.WithContext(ctx.Request.Context()).Where("bucket_id = ?", bucket.ID).Order("created_at DESC").Find(&items).Error; err != nil {
		slog.Error("Failed to fetch budget items", "bucket_id", bucket.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budget items"})
		return
	}

	ctx.JSON(http.StatusOK, items)
}

func GetBudgetItem(ctx *gin.Context) {
	_, bucket, ok := loadBucket(ctx, false)
	if !ok {
		return
	}

	item, ok := loadBudgetItem(ctx, bucket)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func CreateBudgetItem(ctx *gin.Context) {
	var body CreateBudgetItemRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Description and amount are required"})
		return
	}

	if !services.ValidPositiveAmount(*body.Amount) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": budgetAmountMessage})
		return
	}

	project, bucket, ok := loadBucket(ctx, false)
	if !ok {
		return
	}

	currency := body.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	item := models.BudgetItem{
		BucketID:    bucket.ID,
		Description: body.Description,
		Amount:      *body.Amount,
		Currency:    currency,
	}

	if err := db.DB.WithContext(ctx.Request.Context()).Create(&item).Error; err != nil {
		slog.Error("Failed to create budget item", "bucket_id", bucket.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget item"})
		return
	}

	BroadcastRefresh(project.ID)
	ctx.JSON(http.StatusCreated, item)
}

func UpdateBudgetItem(ctx *gin.Context) {
	var body UpdateBudgetItemRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Description == "" && body.Amount == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "At least one field to update is required"})
		return
	}

	if body.Amount != nil && !services.ValidPositiveAmount(*body.Amount) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": budgetAmountMessage})
		return
	}

	project, bucket, ok := loadBucket(ctx, false)
	if !ok {
		return
	}

	item, ok := loadBudgetItem(ctx, bucket)
	if !ok {
		return
	}

	if body.Description != "" {
		item.Description = body.Description
	}

	if body.Amount != nil {
		item.Amount = *body.Amount
	}

	if err := db.DB.WithContext(ctx.Request.Context()).Model(&item).Select("description", "amount").Updates(&item).Error; err != nil {
		slog.Error("Failed to update budget item", "item_id", item.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget item"})
		return
	}

	BroadcastRefresh(project.ID)
	ctx.JSON(http.StatusOK, item)
}

func DeleteBudgetItem(ctx *gin.Context) {
	project, bucket, ok := loadBucket(ctx, false)
	if !ok {
		return
	}

	item, ok := loadBudgetItem(ctx, bucket)
	if !ok {
		return
	}

	if err := db.DB.WithContext(ctx.Request.Context()).Delete(&item).Error; err != nil {
		slog.Error("Failed to delete budget item", "item_id", item.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete budget item"})
		return
	}

	BroadcastRefresh(project.ID)
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
