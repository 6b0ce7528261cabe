package models

import "time"

// TagGameRelation links a Tag to a Game. The owner must match the owner of both
// the Tag and the Game; the composite unique index makes linking idempotent at
// the storage level.
type TagGameRelation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_tag_game_relation" json:"owner_id"`
	TagID     uint      `gorm:"not null;uniqueIndex:idx_tag_game_relation;index" json:"tag_id"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_tag_game_relation;index" json:"game_id"`

	// Relationships
	Tag  Tag  `gorm:"foreignKey:TagID" json:"tag,omitempty"`
	Game Game `gorm:"foreignKey:GameID" json:"-"`
}

// OwnerKey implements ownership.Owned.
func (r TagGameRelation) OwnerKey() uint { return r.OwnerID }
