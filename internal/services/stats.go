package services

import (
	"context"

	"github.com/accordmanpower/cmsapi/internal/apperr"
	"github.com/accordmanpower/cmsapi/types"
)

type pageCounter interface {
	Count(ctx context.Context, publishedOnly bool) (int, error)
}

type inquiryCounter interface {
	Count(ctx context.Context) (int, error)
}

// StatsService computes the admin dashboard aggregate.
type StatsService struct {
	pages     pageCounter
	posts     pageCounter
	inquiries inquiryCounter
}

func NewStatsService(pages PageRepository, posts BlogPostRepository, inquiries InquiryRepository) *StatsService {
	return &StatsService{pages: pages, posts: posts, inquiries: inquiries}
}

func (s *StatsService) Get(ctx context.Context) (types.AdminStats, error) {
	var stats types.AdminStats
	counts := []struct {
		dst *int
		fn  func(context.Context) (int, error)
	}{
		{&stats.TotalPages, func(ctx context.Context) (int, error) { return s.pages.Count(ctx, false) }},
		{&stats.PublishedPages, func(ctx context.Context) (int, error) { return s.pages.Count(ctx, true) }},
		{&stats.TotalPosts, func(ctx context.Context) (int, error) { return s.posts.Count(ctx, false) }},
		{&stats.PublishedPosts, func(ctx context.Context) (int, error) { return s.posts.Count(ctx, true) }},
		{&stats.TotalInquiries, s.inquiries.Count},
	}
	for _, c := range counts {
		n, err := c.fn(ctx)
		if err != nil {
			return types.AdminStats{}, apperr.Internalf("failed to compute stats", err)
		}
		*c.dst = n
	}
	return stats, nil
}
