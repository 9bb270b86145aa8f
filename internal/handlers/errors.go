package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/divizend/dreaming/internal/services"
	"github.com/gin-gonic/gin"
)

// serviceErrorStatus maps a service sentinel to a status and message. ok is
// false for unexpected errors.
func serviceErrorStatus(err error) (status int, message string, ok bool) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		return http.StatusBadRequest, "Amount must be a non-negative number with at most two decimal places", true
	case errors.Is(err, services.ErrBucketNotFound):
		return http.StatusNotFound, "Bucket not found", true
	case errors.Is(err, services.ErrBucketClosed):
		return http.StatusBadRequest, "Cannot pledge to a closed bucket", true
	case errors.Is(err, services.ErrNoProjectAccess):
		return http.StatusForbidden, "You don't have access to this project", true
	case errors.Is(err, services.ErrInsufficientFunds):
		return http.StatusBadRequest, "Insufficient funds", true
	case errors.Is(err, services.ErrProjectNotFound):
		return http.StatusNotFound, "Project not found", true
	case errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound, "User not found", true
	case errors.Is(err, services.ErrInvalidAuthCode):
		return http.StatusUnauthorized, "Invalid authorization code", true
	case errors.Is(err, services.ErrIdentityProvider):
		return http.StatusBadGateway, "Identity provider unavailable", true
	}
	return http.StatusInternalServerError, "", false
}

// respondServiceError writes the error body for err. Unexpected errors are
// logged and reported as fallback with status 500.
func respondServiceError(ctx *gin.Context, err error, fallback string) {
	status, message, ok := serviceErrorStatus(err)

	if !ok {
		slog.Error(fallback, "error", err, "route", ctx.FullPath())
		message = fallback
	}

	ctx.JSON(status, gin.H{"error": message})
}

// errorOutcome is the metrics label for a failed operation.
func errorOutcome(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, services.ErrBucketNotFound):
		return "bucket_not_found"
	case errors.Is(err, services.ErrBucketClosed):
		return "bucket_closed"
	case errors.Is(err, services.ErrNoProjectAccess):
		return "no_project_access"
	case errors.Is(err, services.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, services.ErrUserNotFound):
		return "user_not_found"
	}
	return "internal_error"
}
