package models

import "github.com/shopspring/decimal"

type BudgetItem struct {
	BaseModel

	BucketID    string          `gorm:"size:36;not null;index" json:"bucketId"`
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Currency    string          `gorm:"size:8;not null;default:EUR" json:"currency"`
}
