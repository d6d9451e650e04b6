package models

import "time"

// Favorite is a resource saved by a signed-in user
type Favorite struct {
	UserID     string    `json:"user_id" db:"user_id"`
	ResourceID string    `json:"resource_id" db:"resource_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FavoriteToggleResponse tells the client what a toggle did
type FavoriteToggleResponse struct {
	ResourceID string `json:"resource_id"`
	Action     string `json:"action"`
}

const (
	FavoriteActionAdded   = "added"
	FavoriteActionRemoved = "removed"
)
