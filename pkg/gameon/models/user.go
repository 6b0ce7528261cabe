package models

import "time"

// User is the local record of an identity issued by the external identity provider.
// Every other row is owned, directly or transitively, by a User.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
	Subject   string    `gorm:"uniqueIndex;not null" json:"subject"` // "sub" claim from the identity provider
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}
