package models

const (
	BucketStatusOpen   = "OPEN"
	BucketStatusClosed = "CLOSED"
)

type Bucket struct {
	BaseModel

	ProjectID   string `gorm:"size:36;not null;index" json:"projectId"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"` // markdown
	Status      string `gorm:"size:16;not null;default:OPEN" json:"status"`

	// Relationships
	BudgetItems []BudgetItem `gorm:"foreignKey:BucketID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"budgetItems,omitempty"`
	Pledges     []Pledge     `gorm:"foreignKey:BucketID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"pledges,omitempty"`
}

func (b Bucket) IsOpen() bool {
	return b.Status == BucketStatusOpen
}
