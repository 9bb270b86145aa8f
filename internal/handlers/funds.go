package handlers

import (
	"net/http"

	"github.com/divizend/dreaming/db"
	"github.com/divizend/dreaming/internal/auth"
	"github.com/divizend/dreaming/internal/metrics"
	"github.com/divizend/dreaming/internal/services"
	"github.com/divizend/dreaming/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const WebhookSecretHeader = "X-Webhook-Secret"

type InjectFundsRequest struct {
	UserID   string           `json:"userId" binding:"required"`
	Amount   *decimal.Decimal `json:"amount" binding:"required"`
	Currency string           `json:"currency"`
}

// InjectFunds is the fund injection webhook. It authenticates with the
// project's shared secret instead of a session.
func InjectFunds(ctx *gin.Context) {
	project, err := utils.GetCurrentProject(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if !auth.CheckWebhookSecret(project.WebhookSecretHash, ctx.GetHeader(WebhookSecretHeader)) {
		metrics.FundInjectionsTotal.WithLabelValues("unauthorized").Inc()
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid webhook secret"})
		return
	}

	var body InjectFundsRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		metrics.FundInjectionsTotal.WithLabelValues("bad_request").Inc()
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Bad request: userId and amount are required"})
		return
	}

	if !services.ValidPositiveAmount(*body.Amount) {
		metrics.FundInjectionsTotal.WithLabelValues("invalid_amount").Inc()
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Bad request: amount must be positive"})
		return
	}

	currency := body.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	if _, err := services.InjectFunds(ctx.Request.Context(), db.DB, project.ID, body.UserID, *body.Amount, currency); err != nil {
		metrics.FundInjectionsTotal.WithLabelValues(errorOutcome(err)).Inc()
		respondServiceError(ctx, err, "Internal server error")
		return
	}

	metrics.FundInjectionsTotal.WithLabelValues("success").Inc()
	BroadcastRefresh(project.ID)
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMyFunds returns the caller's ledger row for the project.
func GetMyFunds(ctx *gin.Context) {
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

	funds, err := services.GetFunds(ctx.Request.Context(), db.DB, userID, project.ID)

	if err != nil {
		respondServiceError(ctx, err, "Failed to fetch funds")
		return
	}

	ctx.JSON(http.StatusOK, funds)
}
