package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/accordmanpower/cmsapi/types"
)

func TestSitemapGenerate(t *testing.T) {
	updated := time.Date(2026, 2, 1, 12, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	published := updated
	pages := &memPages{pages: []types.Page{
		{ID: 1, Slug: "privacy-policy", IsPublished: true, UpdatedAt: updated},
		{ID: 2, Slug: "a&b", IsPublished: true, UpdatedAt: updated},
		{ID: 3, Slug: "draft", IsPublished: false, UpdatedAt: updated},
	}}
	posts := &memPosts{posts: []types.BlogPost{
		{ID: 1, Slug: "hiring-trends", IsPublished: true, PublishedAt: &published, UpdatedAt: updated},
		{ID: 2, Slug: "unreleased", UpdatedAt: updated},
	}}

	svc := NewSitemapService(pages, posts, "https://example.com/")
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	doc, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	out := string(doc)

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("expected xml declaration, got %q", out[:40])
	}
	if !strings.Contains(out, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Fatalf("expected sitemap namespace")
	}
	if n := strings.Count(out, "<url>"); n != 5+2+1 {
		t.Fatalf("expected 8 url entries, got %d", n)
	}

	first := strings.Index(out, "<loc>https://example.com</loc>")
	services := strings.Index(out, "<loc>https://example.com/services</loc>")
	pagePos := strings.Index(out, "<loc>https://example.com/privacy-policy</loc>")
	postPos := strings.Index(out, "<loc>https://example.com/blog/hiring-trends</loc>")
	if first < 0 || services < first || pagePos < services || postPos < pagePos {
		t.Fatalf("unexpected entry order:\n%s", out)
	}

	if !strings.Contains(out, "<loc>https://example.com/a&amp;b</loc>") {
		t.Fatalf("expected slug to be escaped:\n%s", out)
	}
	if strings.Contains(out, "draft") || strings.Contains(out, "unreleased") {
		t.Fatalf("unpublished content leaked into sitemap:\n%s", out)
	}
	if !strings.Contains(out, "<lastmod>2026-02-01T06:30:00Z</lastmod>") {
		t.Fatalf("expected UTC lastmod for content:\n%s", out)
	}
	if !strings.Contains(out, "<lastmod>2026-03-01T00:00:00Z</lastmod>") {
		t.Fatalf("expected generation time for static routes:\n%s", out)
	}
}
