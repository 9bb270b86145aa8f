package models

import "time"

// User is created on the first successful login through the identity
// provider. ID is the provider's user id.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	Funds   []UserProjectFunds `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Pledges []Pledge           `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
