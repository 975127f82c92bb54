package model

import (
	"time"
)

// Topic is a named category grouping related problems. Topics are created by
// seeding or an admin action and are immutable afterwards.
type Topic struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
