package models

import "github.com/shopspring/decimal"

// Pledge rows are only written by the reconciliation operation, which keeps
// at most one row per (user, bucket).
type Pledge struct {
	BaseModel

	UserID   string          `gorm:"size:64;not null;index:idx_pledge_user_bucket" json:"userId"`
	BucketID string          `gorm:"size:36;not null;index:idx_pledge_user_bucket" json:"bucketId"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Currency string          `gorm:"size:8;not null;default:EUR" json:"currency"`
}
