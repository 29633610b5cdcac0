package domain

import "time"

// UrlMapping is the persisted association between a short code and its
// destination URL.
type UrlMapping struct {
	ID                 int64      `gorm:"primaryKey;column:id" json:"id"`
	OwnerID            int64      `gorm:"column:owner_id;not null;index" json:"owner_id"`
	DisplayName        *string    `gorm:"column:display_name;size:500" json:"display_name,omitempty"`
	LongURL            string     `gorm:"column:long_url;size:5000;not null" json:"long_url"`
	ShortCode          string     `gorm:"column:short_code;size:10;uniqueIndex;not null" json:"short_code"`
	ContentHash        string     `gorm:"column:content_hash;size:64;uniqueIndex;not null" json:"content_hash"`
	HeaderSnapshotHash string     `gorm:"column:header_snapshot_hash;size:64;uniqueIndex" json:"header_snapshot_hash"`
	GlobalID           string     `gorm:"column:global_id;size:36;uniqueIndex;not null" json:"global_id"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	ClickCount         int64      `gorm:"column:click_count;not null;default:0" json:"click_count"`
	Archived           bool       `gorm:"column:archived;not null;default:false" json:"archived"`
	IsActive           bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastCheckedAt      *time.Time `gorm:"column:last_checked_at" json:"last_checked_at,omitempty"`

	// Relationships
	Owner *Owner `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

// TableName returns the table name for GORM.
func (UrlMapping) TableName() string {
	return "urls"
}

// Resolvable reports whether a redirect may use this mapping.
func (m *UrlMapping) Resolvable() bool {
	return m.IsActive && !m.Archived
}

// Title returns the display name, or an empty string while enrichment is pending.
func (m *UrlMapping) Title() string {
	if m.DisplayName != nil {
		return *m.DisplayName
	}
	return ""
}
