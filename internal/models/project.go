package models

type Project struct {
	BaseModel

	Name              string `gorm:"not null" json:"name"`
	Description       string `json:"description"`
	Slug              string `gorm:"uniqueIndex;size:128;not null" json:"slug"`
	WebhookSecretHash string `gorm:"not null" json:"-"`

	// Relationships
	Buckets []Bucket `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
