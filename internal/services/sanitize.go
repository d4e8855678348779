package services

import "github.com/microcosm-cc/bluemonday"

// Sanitizer cleans editor-supplied HTML before it is stored.
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

type htmlSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer returns a sanitizer for page and post bodies. It
// keeps the formatting a rich-text editor produces (headings, lists,
// tables, images, links) and strips scripts, styles, iframes and event
// handler attributes.
func NewContentSanitizer() Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption", "section", "article", "header", "footer")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("loading").Matching(bluemonday.SpaceSeparatedTokens).OnElements("img")
	p.AllowRelativeURLs(true)
	p.RequireNoFollowOnLinks(false)
	p.RequireNoReferrerOnLinks(true)
	return &htmlSanitizer{policy: p}
}

func (s *htmlSanitizer) Sanitize(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}
	return s.policy.Sanitize(rawHTML)
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(rawHTML string) string { return rawHTML }
