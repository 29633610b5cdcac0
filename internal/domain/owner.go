package domain

import "time"

// Owner is the account a mapping is attributed to. Authentication lives in an
// external service; this table only anchors the owner_id foreign key and the
// seeded system account used for anonymous submissions.
type Owner struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	Username  string    `gorm:"column:username;size:64;uniqueIndex;not null" json:"username"`
	Email     *string   `gorm:"column:email;size:120;uniqueIndex" json:"email,omitempty"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Mappings []UrlMapping `gorm:"foreignKey:OwnerID" json:"mappings,omitempty"`
}

// TableName returns the table name for GORM.
func (Owner) TableName() string {
	return "owners"
}
