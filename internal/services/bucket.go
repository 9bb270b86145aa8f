package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/divizend/dreaming/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeleteBucket removes a bucket with its budget items and pledges. Every
// pledge is returned to its owner's ledger row in the same transaction.
func DeleteBucket(ctx context.Context, database *gorm.DB, projectID, bucketID string) error {
	return database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bucket models.Bucket

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND project_id = ?", bucketID, projectID).
			First(&bucket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBucketNotFound
			}
			return fmt.Errorf("load bucket: %w", err)
		}

		if err := refundPledges(tx, projectID, []string{bucket.ID}); err != nil {
			return err
		}

		if err := tx.Where("bucket_id = ?", bucket.ID).Delete(&models.BudgetItem{}).Error; err != nil {
			return fmt.Errorf("delete budget items: %w", err)
		}

		if err := tx.Delete(&bucket).Error; err != nil {
			return fmt.Errorf("delete bucket: %w", err)
		}

		return nil
	})
}

// DeleteProject removes a project and everything that belongs to it.
func DeleteProject(ctx context.Context, database *gorm.DB, projectID string) error {
	return database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bucketIDs := tx.Model(&models.Bucket{}).Select("id").Where("project_id = ?", projectID)

		if err := tx.Where("bucket_id IN (?)", bucketIDs).Delete(&models.Pledge{}).Error; err != nil {
			return fmt.Errorf("delete pledges: %w", err)
		}

		if err := tx.Where("bucket_id IN (?)", bucketIDs).Delete(&models.BudgetItem{}).Error; err != nil {
			return fmt.Errorf("delete budget items: %w", err)
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.Bucket{}).Error; err != nil {
			return fmt.Errorf("delete buckets: %w", err)
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.UserProjectFunds{}).Error; err != nil {
			return fmt.Errorf("delete funds: %w", err)
		}

		result := tx.Where("id = ?", projectID).Delete(&models.Project{})

		if result.Error != nil {
			return fmt.Errorf("delete project: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrProjectNotFound
		}

		return nil
	})
}

// refundPledges deletes the pledges on the given buckets and credits each
// amount back to the pledging user's ledger row.
func refundPledges(tx *gorm.DB, projectID string, bucketIDs []string) error {
	var pledges []models.Pledge

	if err := tx.Where("bucket_id IN ?", bucketIDs).Find(&pledges).Error; err != nil {
		return fmt.Errorf("load pledges: %w", err)
	}

	refunds := make(map[string]decimal.Decimal)
	for _, pledge := range pledges {
		refunds[pledge.UserID] = refunds[pledge.UserID].Add(pledge.Amount)
	}

	// Lock ledger rows in a fixed order so concurrent deletions cannot deadlock.
	for _, userID := range refundOrder(refunds) {
		amount := refunds[userID]

		var funds models.UserProjectFunds

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND project_id = ?", userID, projectID).
			First(&funds).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}

		if err != nil {
			return fmt.Errorf("load funds: %w", err)
		}

		if err := tx.Model(&funds).Update("funds_left", funds.FundsLeft.Add(amount)).Error; err != nil {
			return fmt.Errorf("refund pledge: %w", err)
		}
	}

	if len(pledges) > 0 {
		if err := tx.Where("bucket_id IN ?", bucketIDs).Delete(&models.Pledge{}).Error; err != nil {
			return fmt.Errorf("delete pledges: %w", err)
		}
	}

	return nil
}

func refundOrder(refunds map[string]decimal.Decimal) []string {
	return slices.Sorted(maps.Keys(refunds))
}
