package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/accordmanpower/cmsapi/types"
	"github.com/lib/pq"
)

// BlogPostRepository handles persistence for blog posts.
type BlogPostRepository struct {
	db *sql.DB
}

func NewBlogPostRepository(db *sql.DB) *BlogPostRepository {
	return &BlogPostRepository{db: db}
}

const blogPostColumns = `id, title, slug, content, excerpt, featured_image, meta_title, meta_description,
	canonical_url, tags, category, is_published, published_at, author_id, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (types.BlogPost, error) {
	var post types.BlogPost
	var authorID sql.NullInt64
	var publishedAt sql.NullTime
	var tags pq.StringArray
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.Excerpt,
		&post.FeaturedImage,
		&post.MetaTitle,
		&post.MetaDescription,
		&post.CanonicalURL,
		&tags,
		&post.Category,
		&post.IsPublished,
		&publishedAt,
		&authorID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return types.BlogPost{}, err
	}
	post.Tags = []string(tags)
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		post.PublishedAt = &t
	}
	if authorID.Valid {
		id := int(authorID.Int64)
		post.AuthorID = &id
	}
	return post, nil
}

func (r *BlogPostRepository) list(ctx context.Context, query string, args ...any) ([]types.BlogPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]types.BlogPost, 0)
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *BlogPostRepository) ListAll(ctx context.Context) ([]types.BlogPost, error) {
	return r.list(ctx, `SELECT `+blogPostColumns+` FROM blog_posts ORDER BY updated_at DESC, id DESC`)
}

// ListPublished returns one page of published posts, newest first,
// optionally restricted to a category.
func (r *BlogPostRepository) ListPublished(ctx context.Context, offset, limit int, category string) ([]types.BlogPost, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 10
	}

	where := `WHERE is_published = TRUE`
	args := []any{}
	if category != "" {
		args = append(args, category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	args = append(args, offset, limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM blog_posts
		%s
		ORDER BY published_at DESC NULLS LAST, id DESC
		OFFSET $%d LIMIT $%d`, blogPostColumns, where, len(args)-1, len(args))
	return r.list(ctx, query, args...)
}

// ListAllPublished returns every published post without paging.
func (r *BlogPostRepository) ListAllPublished(ctx context.Context) ([]types.BlogPost, error) {
	return r.list(ctx, `SELECT `+blogPostColumns+` FROM blog_posts WHERE is_published = TRUE ORDER BY published_at DESC NULLS LAST, id DESC`)
}

func (r *BlogPostRepository) GetByID(ctx context.Context, id int) (types.BlogPost, error) {
	post, err := scanBlogPost(r.db.QueryRowContext(ctx, `SELECT `+blogPostColumns+` FROM blog_posts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.BlogPost{}, ErrNotFound
	}
	return post, err
}

func (r *BlogPostRepository) GetBySlug(ctx context.Context, slug string) (types.BlogPost, error) {
	post, err := scanBlogPost(r.db.QueryRowContext(ctx, `SELECT `+blogPostColumns+` FROM blog_posts WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return types.BlogPost{}, ErrNotFound
	}
	return post, err
}

func (r *BlogPostRepository) Create(ctx context.Context, post types.BlogPost) (types.BlogPost, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = []string{}
	}

	const query = `
		INSERT INTO blog_posts (title, slug, content, excerpt, featured_image, meta_title, meta_description,
			canonical_url, tags, category, is_published, published_at, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.FeaturedImage,
		post.MetaTitle,
		post.MetaDescription,
		post.CanonicalURL,
		pq.Array(post.Tags),
		post.Category,
		post.IsPublished,
		post.PublishedAt,
		post.AuthorID,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return types.BlogPost{}, translate(err)
	}
	return post, nil
}

func (r *BlogPostRepository) Update(ctx context.Context, post types.BlogPost) (types.BlogPost, error) {
	post.UpdatedAt = time.Now().UTC()
	if post.Tags == nil {
		post.Tags = []string{}
	}

	const query = `
		UPDATE blog_posts
		SET title = $1,
			slug = $2,
			content = $3,
			excerpt = $4,
			featured_image = $5,
			meta_title = $6,
			meta_description = $7,
			canonical_url = $8,
			tags = $9,
			category = $10,
			is_published = $11,
			published_at = $12,
			updated_at = $13
		WHERE id = $14
		RETURNING author_id, created_at`
	var authorID sql.NullInt64
	err := r.db.QueryRowContext(
		ctx,
		query,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.FeaturedImage,
		post.MetaTitle,
		post.MetaDescription,
		post.CanonicalURL,
		pq.Array(post.Tags),
		post.Category,
		post.IsPublished,
		post.PublishedAt,
		post.UpdatedAt,
		post.ID,
	).Scan(&authorID, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.BlogPost{}, ErrNotFound
		}
		return types.BlogPost{}, translate(err)
	}
	post.AuthorID = nil
	if authorID.Valid {
		id := int(authorID.Int64)
		post.AuthorID = &id
	}
	return post, nil
}

func (r *BlogPostRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *BlogPostRepository) Count(ctx context.Context, publishedOnly bool) (int, error) {
	query := `SELECT COUNT(1) FROM blog_posts`
	if publishedOnly {
		query += ` WHERE is_published = TRUE`
	}
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
