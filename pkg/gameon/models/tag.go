package models

import "time"

// Tag is a user-defined label applied to Games through TagGameRelation rows.
// Titles are unique within an owner's namespace.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_tag_owner_title" json:"owner_id"`
	Title     string    `gorm:"size:100;not null;uniqueIndex:idx_tag_owner_title" json:"title"`
}

// OwnerKey implements ownership.Owned.
func (t Tag) OwnerKey() uint { return t.OwnerID }
