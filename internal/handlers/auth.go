package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/divizend/dreaming/db"
	"github.com/divizend/dreaming/internal/auth"
	"github.com/divizend/dreaming/internal/models"
	"github.com/divizend/dreaming/internal/services"
	"github.com/divizend/dreaming/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AuthOriginDivizend = "divizend"

type AuthRequest struct {
	Origin  string `json:"origin" binding:"required"`
	Payload struct {
		Code string `json:"code" binding:"required"`
	} `json:"payload"`
}

type ProfileFunds struct {
	ProjectID   string          `json:"projectId"`
	ProjectSlug string          `json:"projectSlug"`
	FundsLeft   decimal.Decimal `json:"fundsLeft"`
	Currency    string          `json:"currency"`
	IsAdmin     bool            `json:"isAdmin"`
}

type ProfileResponse struct {
	ID      string         `json:"id"`
	IsAdmin bool           `json:"isAdmin"`
	Funds   []ProfileFunds `json:"funds"`
}

// Login exchanges an identity provider login code for a session token. The
// user is created on first login.
func Login(provider services.IdentityProvider, sessionTTL time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var body AuthRequest

		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		// currently only divizend is supported
		if body.Origin != AuthOriginDivizend {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid origin"})
			return
		}

		userID, err := provider.ResolveUser(ctx.Request.Context(), body.Payload.Code)

		if err != nil {
			respondServiceError(ctx, err, "Internal server error")
			return
		}

		database := db.DB.WithContext(ctx.Request.Context())

		var user models.User

		if err := database.Where(models.User{ID: userID}).FirstOrCreate(&user).Error; err != nil {
			slog.Error("Failed to create user", "user_id", userID, "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		session := models.Session{
			BaseModel: models.BaseModel{ID: uuid.NewString()},
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(sessionTTL).UTC(),
		}

		token, err := auth.GenerateSessionToken(session.ID, user.ID, session.ExpiresAt)

		if err != nil {
			slog.Error("Failed to sign session token", "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		session.Token = token

		if err := database.Create(&session).Error; err != nil {
			slog.Error("Failed to create session", "user_id", user.ID, "error", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"sessionToken": token})
	}
}

func Profile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	funds, err := services.ListUserFunds(ctx.Request.Context(), db.DB, currentUser.ID)

	if err != nil {
		slog.Error("Failed to load profile funds", "user_id", currentUser.ID, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := ProfileResponse{
		ID:      currentUser.ID,
		IsAdmin: currentUser.IsAdmin,
		Funds:   make([]ProfileFunds, 0, len(funds)),
	}

	for _, f := range funds {
		response.Funds = append(response.Funds, ProfileFunds{
			ProjectID:   f.ProjectID,
			ProjectSlug: f.Project.Slug,
			FundsLeft:   f.FundsLeft,
			Currency:    f.Currency,
			IsAdmin:     f.IsAdmin,
		})
	}

	ctx.JSON(http.StatusOK, response)
}
