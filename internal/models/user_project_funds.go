package models

import "github.com/shopspring/decimal"

const DefaultCurrency = "EUR"

// UserProjectFunds is the per-user, per-project ledger row. FundsLeft must
// never go negative.
type UserProjectFunds struct {
	BaseModel

	UserID    string          `gorm:"size:64;not null;uniqueIndex:idx_user_project" json:"userId"`
	ProjectID string          `gorm:"size:36;not null;uniqueIndex:idx_user_project" json:"projectId"`
	FundsLeft decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"fundsLeft"`
	Currency  string          `gorm:"size:8;not null;default:EUR" json:"currency"`
	IsAdmin   bool            `gorm:"not null;default:false" json:"isAdmin"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (UserProjectFunds) TableName() string {
	return "user_project_funds"
}
