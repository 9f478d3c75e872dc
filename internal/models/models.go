package models

import (
	"time"

	"github.com/google/uuid"
)

// Blog is a published post as reported by the blog API or the blog database.
type Blog struct {
	ID        uuid.UUID  `json:"id"`
	Slug      string     `json:"slug"`
	Title     string     `json:"title"`
	Published bool       `json:"published"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// NewBlog creates a published blog post with a generated UUID and timestamps.
func NewBlog(slug, title string) *Blog {
	now := time.Now().UTC()
	return &Blog{
		ID:        uuid.New(),
		Slug:      slug,
		Title:     title,
		Published: true,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
}

// LastModified returns UpdatedAt, then CreatedAt, then fallback.
func (b Blog) LastModified(fallback time.Time) time.Time {
	if b.UpdatedAt != nil && !b.UpdatedAt.IsZero() {
		return *b.UpdatedAt
	}
	if b.CreatedAt != nil && !b.CreatedAt.IsZero() {
		return *b.CreatedAt
	}
	return fallback
}
