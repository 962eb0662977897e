// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"inkwell/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, body, body_format, description, thumbnail_url,
	status, category_id, author_id, published_at, created_at, updated_at`

// scanPost scans a post row without joined columns.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.BodyFormat, &p.Description,
		&p.ThumbnailURL, &p.Status, &p.CategoryID, &p.AuthorID,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505). Used by the service layer to retry slug
// collisions instead of surfacing a database error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// FindByID retrieves a post by its UUID regardless of status. Returns nil
// if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by slug regardless of status. Used by the
// dashboard and by draft preview for authenticated users.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT p.id, p.title, p.slug, p.body, p.body_format, p.description,
		       p.thumbnail_url, p.status, p.category_id, p.author_id,
		       p.published_at, p.created_at, p.updated_at,
		       c.name, c.slug
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		WHERE p.slug = $1
	`, slug)

	var p models.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.BodyFormat, &p.Description,
		&p.ThumbnailURL, &p.Status, &p.CategoryID, &p.AuthorID,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&p.CategoryName, &p.CategorySlug,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return &p, nil
}

// FindPublishedBySlug retrieves a published post by slug, with joined
// category and author names. Returns nil for drafts and unknown slugs so
// the public site cannot tell them apart.
func (s *PostStore) FindPublishedBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT p.id, p.title, p.slug, p.body, p.body_format, p.description,
		       p.thumbnail_url, p.status, p.category_id, p.author_id,
		       p.published_at, p.created_at, p.updated_at,
		       c.name, c.slug, u.display_name
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		JOIN users u ON u.id = p.author_id
		WHERE p.slug = $1 AND p.status = 'published'
	`, slug)

	var p models.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.BodyFormat, &p.Description,
		&p.ThumbnailURL, &p.Status, &p.CategoryID, &p.AuthorID,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&p.CategoryName, &p.CategorySlug, &p.AuthorName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published post by slug: %w", err)
	}
	return &p, nil
}

// Create inserts a new post and returns it with the generated ID.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	// If publishing on creation, stamp the publish time.
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	row := s.db.QueryRow(`
		INSERT INTO posts (title, slug, body, body_format, description,
		                   thumbnail_url, status, category_id, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Body, p.BodyFormat, p.Description,
		p.ThumbnailURL, p.Status, p.CategoryID, p.AuthorID, p.PublishedAt,
	)
	result, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post.
func (s *PostStore) Update(p *models.Post) error {
	// If transitioning to published and no published_at set, set it now.
	// The timestamp is never cleared on the way back to draft.
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	_, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, body = $3, body_format = $4,
			description = $5, thumbnail_url = $6, status = $7,
			category_id = $8, published_at = $9, updated_at = NOW()
		WHERE id = $10
	`, p.Title, p.Slug, p.Body, p.BodyFormat,
		p.Description, p.ThumbnailURL, p.Status,
		p.CategoryID, p.PublishedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ListPublished returns one page of published posts ordered by publish
// date descending, optionally filtered by category. Joined category and
// author names are populated for rendering.
func (s *PostStore) ListPublished(limit, offset int, categoryID *uuid.UUID) ([]models.Post, error) {
	query := `
		SELECT p.id, p.title, p.slug, p.body, p.body_format, p.description,
		       p.thumbnail_url, p.status, p.category_id, p.author_id,
		       p.published_at, p.created_at, p.updated_at,
		       c.name, c.slug, u.display_name
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		JOIN users u ON u.id = p.author_id
		WHERE p.status = 'published'`
	args := []any{}
	if categoryID != nil {
		query += ` AND p.category_id = $1`
		args = append(args, *categoryID)
	}
	query += fmt.Sprintf(` ORDER BY p.published_at DESC NULLS LAST LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	return scanPostsJoined(rows)
}

// CountPublished returns the number of published posts, optionally
// filtered by category.
func (s *PostStore) CountPublished(categoryID *uuid.UUID) (int, error) {
	var count int
	var err error
	if categoryID == nil {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE status = 'published'`).Scan(&count)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE status = 'published' AND category_id = $1`, *categoryID).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return count, nil
}

// ListAll returns every post ordered by creation date descending,
// optionally filtered by status. Dashboard only; drafts included.
func (s *PostStore) ListAll(status *models.PostStatus) ([]models.Post, error) {
	query := `
		SELECT p.id, p.title, p.slug, p.body, p.body_format, p.description,
		       p.thumbnail_url, p.status, p.category_id, p.author_id,
		       p.published_at, p.created_at, p.updated_at,
		       c.name, c.slug, u.display_name
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		JOIN users u ON u.id = p.author_id`
	args := []any{}
	if status != nil {
		query += ` WHERE p.status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list all posts: %w", err)
	}
	defer rows.Close()

	return scanPostsJoined(rows)
}

// CountByStatus returns the number of posts with the given status.
func (s *PostStore) CountByStatus(status models.PostStatus) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts by status: %w", err)
	}
	return count, nil
}

// Count returns the total number of posts, drafts included.
func (s *PostStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// CountSlugVariants returns how many posts already use the base slug or a
// suffixed variant of it (base, base-2, base-3, ...). The service layer
// uses this to pick the next free suffix after a unique-violation.
func (s *PostStore) CountSlugVariants(base string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM posts WHERE slug = $1 OR slug LIKE $1 || '-%'
	`, base).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count slug variants: %w", err)
	}
	return count, nil
}

// scanPostsJoined scans rows that include joined category and author columns.
func scanPostsJoined(rows *sql.Rows) ([]models.Post, error) {
	var items []models.Post
	for rows.Next() {
		var p models.Post
		err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Body, &p.BodyFormat, &p.Description,
			&p.ThumbnailURL, &p.Status, &p.CategoryID, &p.AuthorID,
			&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
			&p.CategoryName, &p.CategorySlug, &p.AuthorName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
