package models

import "time"

// DateLayout is the storage and wire format of GameDateRelation.Date.
const DateLayout = "2006-01-02"

// GameDateRelation records a calendar date against a Game (e.g. a day it was played).
// Dates are stored as ISO strings so lexical order equals chronological order.
type GameDateRelation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_game_date" json:"owner_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_game_date" json:"date"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_game_date;index" json:"game_id"`

	// Relationships
	Game Game `gorm:"foreignKey:GameID" json:"-"`
}

// OwnerKey implements ownership.Owned.
func (r GameDateRelation) OwnerKey() uint { return r.OwnerID }

// DefaultDateOrder is the ordering applied to date listings.
const DefaultDateOrder = "date DESC"
