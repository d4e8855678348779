package services

import (
	"context"
	"strings"

	"github.com/accordmanpower/cmsapi/internal/apperr"
	"github.com/accordmanpower/cmsapi/types"
)

const (
	msgPageNotFound = "Page not found"
	msgPageConflict = "A page with this slug already exists"

	msgContentRequired = "content is required"
)

// PageRepository defines persistence operations for pages.
type PageRepository interface {
	ListAll(ctx context.Context) ([]types.Page, error)
	ListPublished(ctx context.Context) ([]types.Page, error)
	GetByID(ctx context.Context, id int) (types.Page, error)
	GetBySlug(ctx context.Context, slug string) (types.Page, error)
	Create(ctx context.Context, page types.Page) (types.Page, error)
	Update(ctx context.Context, page types.Page) (types.Page, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, publishedOnly bool) (int, error)
}

// PageService encapsulates page use-cases.
type PageService struct {
	repo      PageRepository
	sanitizer Sanitizer
}

func NewPageService(repo PageRepository, sanitizer Sanitizer) *PageService {
	if sanitizer == nil {
		sanitizer = passthroughSanitizer{}
	}
	return &PageService{repo: repo, sanitizer: sanitizer}
}

func (s *PageService) ListPublished(ctx context.Context) ([]types.Page, error) {
	pages, err := s.repo.ListPublished(ctx)
	return pages, storeErr(err, msgPageNotFound, "")
}

// GetPublished returns the page for slug, treating drafts as missing.
func (s *PageService) GetPublished(ctx context.Context, slug string) (types.Page, error) {
	page, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return types.Page{}, storeErr(err, msgPageNotFound, "")
	}
	if !page.IsPublished {
		return types.Page{}, apperr.NotFoundf(msgPageNotFound)
	}
	return page, nil
}

func (s *PageService) ListAll(ctx context.Context) ([]types.Page, error) {
	pages, err := s.repo.ListAll(ctx)
	return pages, storeErr(err, msgPageNotFound, "")
}

func (s *PageService) Get(ctx context.Context, id int) (types.Page, error) {
	page, err := s.repo.GetByID(ctx, id)
	return page, storeErr(err, msgPageNotFound, "")
}

func (s *PageService) Create(ctx context.Context, in types.PageInput, authorID int) (types.Page, error) {
	page, err := s.prepare(in)
	if err != nil {
		return types.Page{}, err
	}
	if authorID > 0 {
		page.AuthorID = &authorID
	}

	created, err := s.repo.Create(ctx, page)
	return created, storeErr(err, msgPageNotFound, msgPageConflict)
}

// Update replaces every editable field of the page.
func (s *PageService) Update(ctx context.Context, id int, in types.PageInput) (types.Page, error) {
	page, err := s.prepare(in)
	if err != nil {
		return types.Page{}, err
	}
	page.ID = id

	updated, err := s.repo.Update(ctx, page)
	return updated, storeErr(err, msgPageNotFound, msgPageConflict)
}

func (s *PageService) Delete(ctx context.Context, id int) error {
	return storeErr(s.repo.Delete(ctx, id), msgPageNotFound, "")
}

// prepare validates the payload and sanitizes the body. A body that is
// blank once sanitized is rejected like a missing one.
func (s *PageService) prepare(in types.PageInput) (types.Page, error) {
	in.Normalize()
	if err := Validate(in); err != nil {
		return types.Page{}, err
	}

	var page types.Page
	in.Apply(&page)
	page.Content = s.sanitizer.Sanitize(page.Content)
	if strings.TrimSpace(page.Content) == "" {
		return types.Page{}, apperr.Validationf(msgContentRequired)
	}
	return page, nil
}
