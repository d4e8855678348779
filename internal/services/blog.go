package services

import (
	"context"
	"strings"
	"time"

	"github.com/accordmanpower/cmsapi/internal/apperr"
	"github.com/accordmanpower/cmsapi/types"
)

const (
	msgPostNotFound = "Post not found"
	msgPostConflict = "A post with this slug already exists"

	DefaultBlogLimit = 10
	MaxBlogLimit     = 100
	MaxBlogPage      = 100000
)

// BlogPostRepository defines persistence operations for blog posts.
type BlogPostRepository interface {
	ListAll(ctx context.Context) ([]types.BlogPost, error)
	ListPublished(ctx context.Context, offset, limit int, category string) ([]types.BlogPost, error)
	ListAllPublished(ctx context.Context) ([]types.BlogPost, error)
	GetByID(ctx context.Context, id int) (types.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (types.BlogPost, error)
	Create(ctx context.Context, post types.BlogPost) (types.BlogPost, error)
	Update(ctx context.Context, post types.BlogPost) (types.BlogPost, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, publishedOnly bool) (int, error)
}

// BlogService encapsulates blog post use-cases.
type BlogService struct {
	repo      BlogPostRepository
	sanitizer Sanitizer
	now       func() time.Time
}

func NewBlogService(repo BlogPostRepository, sanitizer Sanitizer) *BlogService {
	if sanitizer == nil {
		sanitizer = passthroughSanitizer{}
	}
	return &BlogService{repo: repo, sanitizer: sanitizer, now: time.Now}
}

// NormalizeQuery applies the listing defaults: page 1, limit 10, and a
// limit ceiling of 100. Page is capped so the row offset cannot overflow.
func NormalizeQuery(q types.BlogListQuery) types.BlogListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxBlogPage {
		q.Page = MaxBlogPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultBlogLimit
	}
	if q.Limit > MaxBlogLimit {
		q.Limit = MaxBlogLimit
	}
	return q
}

func (s *BlogService) ListPublished(ctx context.Context, q types.BlogListQuery) ([]types.BlogPost, error) {
	q = NormalizeQuery(q)
	posts, err := s.repo.ListPublished(ctx, q.Offset(), q.Limit, q.Category)
	return posts, storeErr(err, msgPostNotFound, "")
}

// GetPublished returns the post for slug, treating drafts as missing.
func (s *BlogService) GetPublished(ctx context.Context, slug string) (types.BlogPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return types.BlogPost{}, storeErr(err, msgPostNotFound, "")
	}
	if !post.IsPublished {
		return types.BlogPost{}, apperr.NotFoundf(msgPostNotFound)
	}
	return post, nil
}

func (s *BlogService) ListAll(ctx context.Context) ([]types.BlogPost, error) {
	posts, err := s.repo.ListAll(ctx)
	return posts, storeErr(err, msgPostNotFound, "")
}

func (s *BlogService) Get(ctx context.Context, id int) (types.BlogPost, error) {
	post, err := s.repo.GetByID(ctx, id)
	return post, storeErr(err, msgPostNotFound, "")
}

func (s *BlogService) Create(ctx context.Context, in types.BlogPostInput, authorID int) (types.BlogPost, error) {
	in.Normalize()
	if err := Validate(in); err != nil {
		return types.BlogPost{}, err
	}

	var post types.BlogPost
	in.Apply(&post)
	if err := s.prepare(&post); err != nil {
		return types.BlogPost{}, err
	}
	if authorID > 0 {
		post.AuthorID = &authorID
	}

	created, err := s.repo.Create(ctx, post)
	return created, storeErr(err, msgPostNotFound, msgPostConflict)
}

// Update replaces every editable field. An existing publishedAt survives
// the update unless the payload supplies a new one.
func (s *BlogService) Update(ctx context.Context, id int, in types.BlogPostInput) (types.BlogPost, error) {
	in.Normalize()
	if err := Validate(in); err != nil {
		return types.BlogPost{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.BlogPost{}, storeErr(err, msgPostNotFound, "")
	}

	post := types.BlogPost{ID: id, PublishedAt: current.PublishedAt}
	in.Apply(&post)
	if err := s.prepare(&post); err != nil {
		return types.BlogPost{}, err
	}

	updated, err := s.repo.Update(ctx, post)
	return updated, storeErr(err, msgPostNotFound, msgPostConflict)
}

func (s *BlogService) Delete(ctx context.Context, id int) error {
	return storeErr(s.repo.Delete(ctx, id), msgPostNotFound, "")
}

// prepare sanitizes the body and stamps publishedAt the first time a
// post is published.
func (s *BlogService) prepare(post *types.BlogPost) error {
	post.Content = s.sanitizer.Sanitize(post.Content)
	if strings.TrimSpace(post.Content) == "" {
		return apperr.Validationf(msgContentRequired)
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.IsPublished && post.PublishedAt == nil {
		now := s.now().UTC()
		post.PublishedAt = &now
	}
	return nil
}
