// Package content provides the PostgreSQL-backed repository for the
// admin-managed public content tables: pages, site_sections and blog_posts.
//
// Read statements take a publicOnly flag; with it set, the active/published
// predicate is applied in SQL so an anonymous reader of a draft row gets
// zero rows, not an error.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/dbx"
	"github.com/sistahology/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --- pages ---

func (r *PostgresRepository) GetPage(ctx context.Context, slug string, publicOnly bool) (*models.Page, error) {
	query := `
		SELECT id, slug, title, is_active, created_at, updated_at
		FROM pages
		WHERE slug = $1 AND ($2 = false OR is_active)
	`
	p := &models.Page{}
	err := r.db.QueryRowContext(ctx, query, slug, publicOnly).Scan(
		&p.ID, &p.Slug, &p.Title, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListPages(ctx context.Context, publicOnly bool) ([]*models.Page, error) {
	query := `
		SELECT id, slug, title, is_active, created_at, updated_at
		FROM pages
		WHERE $1 = false OR is_active
		ORDER BY slug
	`
	rows, err := r.db.QueryContext(ctx, query, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Page
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpsertPage(ctx context.Context, page *models.Page) error {
	query := `
		INSERT INTO pages (slug, title, is_active)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug)
		DO UPDATE SET title = EXCLUDED.title, is_active = EXCLUDED.is_active, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, page.Slug, page.Title, page.IsActive); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeletePage(ctx context.Context, slug string) error {
	query := `
		DELETE FROM pages
		WHERE slug = $1
	`
	if _, err := r.db.ExecContext(ctx, query, slug); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// --- site sections ---

const sectionColumns = `id, page_slug, section_key, content, is_active, created_at, updated_at`

func scanSection(row interface{ Scan(...any) error }) (*models.SiteSection, error) {
	var s models.SiteSection
	if err := row.Scan(&s.ID, &s.PageSlug, &s.SectionKey, &s.Content,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) GetSection(ctx context.Context, pageSlug, sectionKey string, publicOnly bool) (*models.SiteSection, error) {
	query := `
		SELECT ` + sectionColumns + ` FROM site_sections
		WHERE page_slug = $1 AND section_key = $2 AND ($3 = false OR is_active)
	`
	s, err := scanSection(r.db.QueryRowContext(ctx, query, pageSlug, sectionKey, publicOnly))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) ListSections(ctx context.Context, pageSlug string, publicOnly bool) ([]*models.SiteSection, error) {
	query := `
		SELECT ` + sectionColumns + ` FROM site_sections
		WHERE page_slug = $1 AND ($2 = false OR is_active)
		ORDER BY section_key
	`
	rows, err := r.db.QueryContext(ctx, query, pageSlug, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.SiteSection
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpsertSection(ctx context.Context, section *models.SiteSection) error {
	query := `
		INSERT INTO site_sections (page_slug, section_key, content, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (page_slug, section_key)
		DO UPDATE SET content = EXCLUDED.content, is_active = EXCLUDED.is_active, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query,
		section.PageSlug, section.SectionKey, section.Content, section.IsActive); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteSection(ctx context.Context, pageSlug, sectionKey string) error {
	query := `
		DELETE FROM site_sections
		WHERE page_slug = $1 AND section_key = $2
	`
	if _, err := r.db.ExecContext(ctx, query, pageSlug, sectionKey); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// --- blog posts ---

const blogPostColumns = `id, slug, title, excerpt, body, status, published_at, author_id, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (*models.BlogPost, error) {
	var p models.BlogPost
	var authorID sql.NullString
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Body,
		&p.Status, &p.PublishedAt, &authorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.AuthorID = authorID.String
	return &p, nil
}

func (r *PostgresRepository) GetBlogPost(ctx context.Context, slug string, publicOnly bool) (*models.BlogPost, error) {
	query := `
		SELECT ` + blogPostColumns + ` FROM blog_posts
		WHERE slug = $1
		  AND ($2 = false OR (status = 'published' AND published_at <= now()))
	`
	p, err := scanBlogPost(r.db.QueryRowContext(ctx, query, slug, publicOnly))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListBlogPosts(ctx context.Context, publicOnly bool) ([]*models.BlogPost, error) {
	query := `
		SELECT ` + blogPostColumns + ` FROM blog_posts
		WHERE $1 = false OR (status = 'published' AND published_at <= now())
		ORDER BY published_at DESC NULLS LAST, created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpsertBlogPost(ctx context.Context, post *models.BlogPost) error {
	query := `
		INSERT INTO blog_posts (slug, title, excerpt, body, status, published_at, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid)
		ON CONFLICT (slug)
		DO UPDATE SET title = EXCLUDED.title, excerpt = EXCLUDED.excerpt, body = EXCLUDED.body,
			status = EXCLUDED.status, published_at = EXCLUDED.published_at, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query,
		post.Slug, post.Title, post.Excerpt, post.Body, post.Status, post.PublishedAt, post.AuthorID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteBlogPost(ctx context.Context, slug string) error {
	query := `
		DELETE FROM blog_posts
		WHERE slug = $1
	`
	if _, err := r.db.ExecContext(ctx, query, slug); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
