package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/romangod6/sitemapper/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS blogs (
            id UUID PRIMARY KEY,
            slug VARCHAR(255) UNIQUE NOT NULL,
            title VARCHAR(512) NOT NULL DEFAULT '',
            published BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ,
            updated_at TIMESTAMPTZ
        )`,
		`CREATE INDEX IF NOT EXISTS idx_blogs_published ON blogs(published)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) CreateBlog(ctx context.Context, blog *models.Blog) error {
	if blog.ID == uuid.Nil {
		blog.ID = uuid.New()
	}

	query := `
        INSERT INTO blogs (id, slug, title, published, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (slug) DO UPDATE SET
            title = EXCLUDED.title,
            published = EXCLUDED.published,
            updated_at = EXCLUDED.updated_at
    `

	_, err := s.db.ExecContext(ctx, query,
		blog.ID.String(),
		blog.Slug,
		blog.Title,
		blog.Published,
		nullTime(blog.CreatedAt),
		nullTime(blog.UpdatedAt),
	)

	return err
}

func (s *PostgresStore) PublishedBlogs(ctx context.Context) ([]models.Blog, error) {
	query := `
        SELECT id::text, slug, title, published, created_at, updated_at
        FROM blogs
        WHERE published = TRUE
        ORDER BY created_at ASC NULLS LAST, slug ASC
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query published blogs: %w", err)
	}
	defer rows.Close()

	return scanBlogs(rows)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
