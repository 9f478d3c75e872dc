package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/romangod6/sitemapper/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS blogs (
            id TEXT PRIMARY KEY,
            slug TEXT UNIQUE NOT NULL,
            title TEXT NOT NULL DEFAULT '',
            published BOOLEAN NOT NULL DEFAULT 0,
            created_at DATETIME,
            updated_at DATETIME
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

func (s *SQLiteStore) CreateBlog(ctx context.Context, blog *models.Blog) error {
	if blog.ID == uuid.Nil {
		blog.ID = uuid.New()
	}

	query := `
        INSERT INTO blogs (id, slug, title, published, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(slug) DO UPDATE SET
            title = excluded.title,
            published = excluded.published,
            updated_at = excluded.updated_at
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

func (s *SQLiteStore) PublishedBlogs(ctx context.Context) ([]models.Blog, error) {
	query := `
        SELECT id, slug, title, published, created_at, updated_at
        FROM blogs
        WHERE published = 1
        ORDER BY created_at IS NULL, created_at ASC, slug ASC
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query published blogs: %w", err)
	}
	defer rows.Close()

	return scanBlogs(rows)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
