package models

import "time"

// Game is a single entry in a user's catalog.
type Game struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created"`
	UpdatedAt  time.Time `json:"modified"`
	OwnerID    uint      `gorm:"not null;index" json:"owner_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	PlatformID *uint     `gorm:"index" json:"platform_id"`
	Finished   bool      `gorm:"not null" json:"finished"`
	Archived   bool      `gorm:"not null;index" json:"archived"`

	// Relationships
	Platform *Platform          `gorm:"foreignKey:PlatformID" json:"platform,omitempty"`
	Tags     []TagGameRelation  `gorm:"foreignKey:GameID" json:"tags,omitempty"`
	Dates    []GameDateRelation `gorm:"foreignKey:GameID" json:"dates,omitempty"`
}

// OwnerKey implements ownership.Owned.
func (g Game) OwnerKey() uint { return g.OwnerID }
