package models

import "time"

type Session struct {
	BaseModel

	Token     string    `gorm:"uniqueIndex;size:512;not null"`
	UserID    string    `gorm:"size:64;not null;index"`
	ExpiresAt time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
