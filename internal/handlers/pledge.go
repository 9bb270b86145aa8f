package handlers

import (
	"net/http"

	"github.com/divizend/dreaming/db"
	"github.com/divizend/dreaming/internal/metrics"
	"github.com/divizend/dreaming/internal/models"
	"github.com/divizend/dreaming/internal/services"
	"github.com/divizend/dreaming/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PledgeRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

type PledgeResponse struct {
	models.Pledge
	FundsLeft decimal.Decimal `json:"fundsLeft"`
}

func GetPledge(ctx *gin.Context) {
	_, bucket, ok := loadBucket(ctx, false)
	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	pledge, err := services.GetPledge(ctx.Request.Context(), db.DB, userID, bucket.ID)

	if err != nil {
		respondServiceError(ctx, err, "Failed to fetch pledge")
		return
	}

	if pledge == nil {
		ctx.JSON(http.StatusOK, gin.H{"amount": 0})
		return
	}

	ctx.JSON(http.StatusOK, pledge)
}

// ReconcilePledge sets the caller's pledge on the bucket. 201 when a pledge
// was created, 200 otherwise; a zero amount withdraws the pledge.
func ReconcilePledge(ctx *gin.Context) {
	project, err := utils.GetCurrentProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bucketID, err := utils.GetBucketID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body PledgeRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		metrics.PledgeReconciliationsTotal.WithLabelValues("invalid_amount").Inc()
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a non-negative number"})
		return
	}

	result, err := services.ReconcilePledge(ctx.Request.Context(), db.DB, services.PledgeRequest{
		UserID:    userID,
		ProjectID: project.ID,
		BucketID:  bucketID,
		Amount:    *body.Amount,
	})

	if err != nil {
		metrics.PledgeReconciliationsTotal.WithLabelValues(errorOutcome(err)).Inc()
		respondServiceError(ctx, err, "Failed to update pledge")
		return
	}

	metrics.PledgeReconciliationsTotal.WithLabelValues(result.Outcome()).Inc()
	BroadcastRefresh(project.ID)

	if result.Pledge == nil {
		ctx.JSON(http.StatusOK, gin.H{
			"success":   true,
			"deleted":   result.Deleted,
			"fundsLeft": result.FundsLeft,
			"currency":  result.Currency,
		})
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	ctx.JSON(status, PledgeResponse{Pledge: *result.Pledge, FundsLeft: result.FundsLeft})
}
