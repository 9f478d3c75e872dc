package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/romangod6/sitemapper/internal/models"
)

// Store is a blog database the sitemap can be built from directly.
type Store interface {
	Initialize() error
	Close() error

	CreateBlog(ctx context.Context, blog *models.Blog) error
	PublishedBlogs(ctx context.Context) ([]models.Blog, error)
}

// Open connects to the database named by driver ("postgres" or "sqlite").
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgresStore(dsn)
	case "sqlite":
		return NewSQLiteStore(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

func scanBlogs(rows *sql.Rows) ([]models.Blog, error) {
	var blogs []models.Blog
	for rows.Next() {
		var (
			blog      models.Blog
			id        string
			createdAt sql.NullTime
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&id, &blog.Slug, &blog.Title, &blog.Published, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := blog.ID.UnmarshalText([]byte(id)); err != nil {
			return nil, fmt.Errorf("invalid blog id %q: %w", id, err)
		}
		blog.CreatedAt = timePtr(createdAt)
		blog.UpdatedAt = timePtr(updatedAt)
		blogs = append(blogs, blog)
	}
	return blogs, rows.Err()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
