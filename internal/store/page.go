package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/accordmanpower/cmsapi/types"
)

// PageRepository handles persistence for pages.
type PageRepository struct {
	db *sql.DB
}

func NewPageRepository(db *sql.DB) *PageRepository {
	return &PageRepository{db: db}
}

const pageColumns = `id, title, slug, content, meta_title, meta_description, canonical_url,
	is_published, author_id, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (types.Page, error) {
	var page types.Page
	var authorID sql.NullInt64
	err := row.Scan(
		&page.ID,
		&page.Title,
		&page.Slug,
		&page.Content,
		&page.MetaTitle,
		&page.MetaDescription,
		&page.CanonicalURL,
		&page.IsPublished,
		&authorID,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
	if err != nil {
		return types.Page{}, err
	}
	if authorID.Valid {
		id := int(authorID.Int64)
		page.AuthorID = &id
	}
	return page, nil
}

func (r *PageRepository) list(ctx context.Context, query string, args ...any) ([]types.Page, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := make([]types.Page, 0)
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *PageRepository) ListAll(ctx context.Context) ([]types.Page, error) {
	return r.list(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY updated_at DESC, id DESC`)
}

func (r *PageRepository) ListPublished(ctx context.Context) ([]types.Page, error) {
	return r.list(ctx, `SELECT `+pageColumns+` FROM pages WHERE is_published = TRUE ORDER BY updated_at DESC, id DESC`)
}

func (r *PageRepository) GetByID(ctx context.Context, id int) (types.Page, error) {
	page, err := scanPage(r.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Page{}, ErrNotFound
	}
	return page, err
}

func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (types.Page, error) {
	page, err := scanPage(r.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Page{}, ErrNotFound
	}
	return page, err
}

func (r *PageRepository) Create(ctx context.Context, page types.Page) (types.Page, error) {
	now := time.Now().UTC()
	page.CreatedAt = now
	page.UpdatedAt = now

	const query = `
		INSERT INTO pages (title, slug, content, meta_title, meta_description, canonical_url,
			is_published, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		page.Title,
		page.Slug,
		page.Content,
		page.MetaTitle,
		page.MetaDescription,
		page.CanonicalURL,
		page.IsPublished,
		page.AuthorID,
		page.CreatedAt,
		page.UpdatedAt,
	).Scan(&page.ID); err != nil {
		return types.Page{}, translate(err)
	}
	return page, nil
}

// Update overwrites the editable columns and bumps updated_at. Concurrent
// edits are last-write-wins.
func (r *PageRepository) Update(ctx context.Context, page types.Page) (types.Page, error) {
	page.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE pages
		SET title = $1,
			slug = $2,
			content = $3,
			meta_title = $4,
			meta_description = $5,
			canonical_url = $6,
			is_published = $7,
			updated_at = $8
		WHERE id = $9
		RETURNING author_id, created_at`
	var authorID sql.NullInt64
	err := r.db.QueryRowContext(
		ctx,
		query,
		page.Title,
		page.Slug,
		page.Content,
		page.MetaTitle,
		page.MetaDescription,
		page.CanonicalURL,
		page.IsPublished,
		page.UpdatedAt,
		page.ID,
	).Scan(&authorID, &page.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Page{}, ErrNotFound
		}
		return types.Page{}, translate(err)
	}
	page.AuthorID = nil
	if authorID.Valid {
		id := int(authorID.Int64)
		page.AuthorID = &id
	}
	return page, nil
}

func (r *PageRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *PageRepository) Count(ctx context.Context, publishedOnly bool) (int, error) {
	query := `SELECT COUNT(1) FROM pages`
	if publishedOnly {
		query += ` WHERE is_published = TRUE`
	}
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
