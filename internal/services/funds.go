package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/divizend/dreaming/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InjectFunds adds amount to the user's ledger row for the project, creating
// the row if needed. The create-or-increment is a single upsert on the
// (user_id, project_id) unique index, so concurrent injections never lose
// updates. Funds are never removed here.
func InjectFunds(ctx context.Context, database *gorm.DB, projectID, userID string, amount decimal.Decimal, currency string) (*models.UserProjectFunds, error) {
	if !ValidPositiveAmount(amount) {
		return nil, ErrInvalidAmount
	}

	if currency == "" {
		currency = models.DefaultCurrency
	}

	var funds models.UserProjectFunds

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User

		if err := tx.Select("id").First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		row := models.UserProjectFunds{
			UserID:    userID,
			ProjectID: projectID,
			FundsLeft: amount,
			Currency:  currency,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				// ROUND keeps the sum exact on SQLite, where NUMERIC columns hold REALs.
				"funds_left": gorm.Expr("ROUND(user_project_funds.funds_left + excluded.funds_left, 2)"),
				"updated_at": time.Now(),
			}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("upsert funds: %w", err)
		}

		if err := tx.Where("user_id = ? AND project_id = ?", userID, projectID).First(&funds).Error; err != nil {
			return fmt.Errorf("reload funds: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &funds, nil
}

// GetFunds returns the user's ledger row for a project.
func GetFunds(ctx context.Context, database *gorm.DB, userID, projectID string) (*models.UserProjectFunds, error) {
	var funds models.UserProjectFunds

	err := database.WithContext(ctx).Where("user_id = ? AND project_id = ?", userID, projectID).First(&funds).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoProjectAccess
	}

	if err != nil {
		return nil, err
	}

	return &funds, nil
}

// IsProjectAdmin reports whether the user administers the project.
func IsProjectAdmin(ctx context.Context, database *gorm.DB, userID, projectID string) (bool, error) {
	funds, err := GetFunds(ctx, database, userID, projectID)

	if errors.Is(err, ErrNoProjectAccess) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return funds.IsAdmin, nil
}

// ListUserFunds returns every ledger row of a user with its project loaded.
func ListUserFunds(ctx context.Context, database *gorm.DB, userID string) ([]models.UserProjectFunds, error) {
	var funds []models.UserProjectFunds

	if err := database.WithContext(ctx).Preload("Project").Where("user_id = ?", userID).Order("created_at ASC").Find(&funds).Error; err != nil {
		return nil, err
	}

	return funds, nil
}
