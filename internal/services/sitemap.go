package services

import (
	"bytes"
	"context"
	"encoding/xml"
	"net/url"
	"strings"
	"time"

	"github.com/accordmanpower/cmsapi/internal/apperr"
	"github.com/accordmanpower/cmsapi/types"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type staticRoute struct {
	path       string
	changeFreq string
	priority   string
}

// staticRoutes are the top-level sections of the public site, always
// listed first.
var staticRoutes = []staticRoute{
	{"", "daily", "1.0"},
	{"/services", "weekly", "0.8"},
	{"/about", "monthly", "0.7"},
	{"/blog", "daily", "0.8"},
	{"/contact", "monthly", "0.6"},
}

type publishedPageLister interface {
	ListPublished(ctx context.Context) ([]types.Page, error)
}

type publishedPostLister interface {
	ListAllPublished(ctx context.Context) ([]types.BlogPost, error)
}

// SitemapService renders sitemap.xml from the published content.
type SitemapService struct {
	pages   publishedPageLister
	posts   publishedPostLister
	baseURL string
	now     func() time.Time
}

func NewSitemapService(pages PageRepository, posts BlogPostRepository, baseURL string) *SitemapService {
	return &SitemapService{
		pages:   pages,
		posts:   posts,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Generate builds the document on every call; nothing is cached.
func (s *SitemapService) Generate(ctx context.Context) ([]byte, error) {
	pages, err := s.pages.ListPublished(ctx)
	if err != nil {
		return nil, apperr.Internalf("failed to list pages", err)
	}
	posts, err := s.posts.ListAllPublished(ctx)
	if err != nil {
		return nil, apperr.Internalf("failed to list posts", err)
	}

	now := s.now().UTC().Format(time.RFC3339)
	urls := make([]sitemapURL, 0, len(staticRoutes)+len(pages)+len(posts))
	for _, route := range staticRoutes {
		urls = append(urls, sitemapURL{
			Loc:        s.baseURL + route.path,
			LastMod:    now,
			ChangeFreq: route.changeFreq,
			Priority:   route.priority,
		})
	}
	for _, page := range pages {
		if !page.IsPublished {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:        s.baseURL + "/" + url.PathEscape(page.Slug),
			LastMod:    page.UpdatedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}
	for _, post := range posts {
		if !post.IsPublished {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:        s.baseURL + "/blog/" + url.PathEscape(post.Slug),
			LastMod:    post.UpdatedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "monthly",
			Priority:   "0.5",
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(sitemapURLSet{XMLNS: sitemapNamespace, URLs: urls}); err != nil {
		return nil, apperr.Internalf("failed to encode sitemap", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
