package models

import "time"

// Platform is something a Game is played on ("Switch", "PC").
type Platform struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
}

// OwnerKey implements ownership.Owned.
func (p Platform) OwnerKey() uint { return p.OwnerID }
