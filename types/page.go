package types

import "time"

// Page is a static content entry of the marketing site.
type Page struct {
	ID              int       `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Slug            string    `json:"slug" db:"slug"`
	Content         string    `json:"content" db:"content"`
	MetaTitle       *string   `json:"metaTitle" db:"meta_title"`
	MetaDescription *string   `json:"metaDescription" db:"meta_description"`
	CanonicalURL    *string   `json:"canonicalUrl" db:"canonical_url"`
	IsPublished     bool      `json:"isPublished" db:"is_published"`
	AuthorID        *int      `json:"authorId" db:"author_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// PageInput is the create/update payload for a page. The author is
// taken from the authenticated user, never from the body.
type PageInput struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Slug            string  `json:"slug" validate:"required,max=255,slug"`
	Content         string  `json:"content" validate:"required"`
	MetaTitle       *string `json:"metaTitle" validate:"omitempty,max=255"`
	MetaDescription *string `json:"metaDescription" validate:"omitempty,max=500"`
	CanonicalURL    *string `json:"canonicalUrl" validate:"omitempty,url"`
	IsPublished     bool    `json:"isPublished"`
}

// Normalize drops blank optional fields so they are stored as NULL.
func (in *PageInput) Normalize() {
	in.MetaTitle = blankToNil(in.MetaTitle)
	in.MetaDescription = blankToNil(in.MetaDescription)
	in.CanonicalURL = blankToNil(in.CanonicalURL)
}

// Apply copies the input onto p, leaving identity and audit fields alone.
func (in PageInput) Apply(p *Page) {
	p.Title = in.Title
	p.Slug = in.Slug
	p.Content = in.Content
	p.MetaTitle = in.MetaTitle
	p.MetaDescription = in.MetaDescription
	p.CanonicalURL = in.CanonicalURL
	p.IsPublished = in.IsPublished
}
