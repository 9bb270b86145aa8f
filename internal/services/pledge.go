package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/divizend/dreaming/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PledgeRequest struct {
	UserID    string
	ProjectID string
	BucketID  string
	Amount    decimal.Decimal
}

// PledgeResult describes the state after a reconciliation. Pledge is nil
// when the caller no longer has a pledge on the bucket.
type PledgeResult struct {
	Pledge    *models.Pledge
	Created   bool
	Deleted   bool
	FundsLeft decimal.Decimal
	Currency  string
}

// Outcome names the effect of a successful reconciliation.
func (r *PledgeResult) Outcome() string {
	switch {
	case r.Created:
		return "created"
	case r.Deleted:
		return "deleted"
	case r.Pledge != nil:
		return "updated"
	default:
		return "noop"
	}
}

// ReconcilePledge sets the caller's pledge on a bucket to req.Amount and
// moves the difference between the caller's ledger row and the pledge in a
// single transaction. A zero amount removes the pledge.
//
// The ledger row is locked for the duration of the transaction, so
// reconciliations by the same user in the same project are serialized while
// other users proceed independently.
func ReconcilePledge(ctx context.Context, database *gorm.DB, req PledgeRequest) (*PledgeResult, error) {
	if !ValidAmount(req.Amount) {
		return nil, ErrInvalidAmount
	}

	var result *PledgeResult

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bucket models.Bucket

		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Where("id = ? AND project_id = ?", req.BucketID, req.ProjectID).
			First(&bucket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBucketNotFound
			}
			return fmt.Errorf("load bucket: %w", err)
		}

		if !bucket.IsOpen() {
			return ErrBucketClosed
		}

		var funds models.UserProjectFunds

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND project_id = ?", req.UserID, bucket.ProjectID).
			First(&funds).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoProjectAccess
			}
			return fmt.Errorf("load funds: %w", err)
		}

		var pledge models.Pledge
		existing := decimal.Zero
		hasPledge := true

		if err := tx.Where("user_id = ? AND bucket_id = ?", req.UserID, bucket.ID).First(&pledge).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("load pledge: %w", err)
			}
			hasPledge = false
		} else {
			existing = pledge.Amount
		}

		delta := req.Amount.Sub(existing)

		if delta.IsPositive() && funds.FundsLeft.LessThan(delta) {
			return ErrInsufficientFunds
		}

		result = &PledgeResult{Currency: funds.Currency}

		switch {
		case req.Amount.IsZero() && hasPledge:
			if err := tx.Delete(&pledge).Error; err != nil {
				return fmt.Errorf("delete pledge: %w", err)
			}
			result.Deleted = true
		case hasPledge:
			if err := tx.Model(&pledge).Update("amount", req.Amount).Error; err != nil {
				return fmt.Errorf("update pledge: %w", err)
			}
			pledge.Amount = req.Amount
			result.Pledge = &pledge
		case req.Amount.IsPositive():
			pledge = models.Pledge{
				UserID:   req.UserID,
				BucketID: bucket.ID,
				Amount:   req.Amount,
				Currency: funds.Currency,
			}
			if err := tx.Create(&pledge).Error; err != nil {
				return fmt.Errorf("create pledge: %w", err)
			}
			result.Pledge = &pledge
			result.Created = true
		}

		fundsLeft := funds.FundsLeft.Sub(delta)

		if !delta.IsZero() {
			if err := tx.Model(&funds).Update("funds_left", fundsLeft).Error; err != nil {
				return fmt.Errorf("update funds: %w", err)
			}
		}

		result.FundsLeft = fundsLeft

		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetPledge returns the user's pledge on a bucket, or nil if there is none.
func GetPledge(ctx context.Context, database *gorm.DB, userID, bucketID string) (*models.Pledge, error) {
	var pledge models.Pledge

	err := database.WithContext(ctx).Where("user_id = ? AND bucket_id = ?", userID, bucketID).First(&pledge).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &pledge, nil
}
