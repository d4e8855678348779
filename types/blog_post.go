package types

import "time"

// BlogPost is a dated article. It carries the same SEO fields as Page
// plus listing metadata.
type BlogPost struct {
	ID              int     `json:"id" db:"id"`
	Title           string  `json:"title" db:"title"`
	Slug            string  `json:"slug" db:"slug"`
	Content         string  `json:"content" db:"content"`
	Excerpt         *string `json:"excerpt" db:"excerpt"`
	FeaturedImage   *string `json:"featuredImage" db:"featured_image"`
	MetaTitle       *string `json:"metaTitle" db:"meta_title"`
	MetaDescription *string `json:"metaDescription" db:"meta_description"`
	CanonicalURL    *string `json:"canonicalUrl" db:"canonical_url"`

	// Tags are free-form labels, kept in the order the editor entered them.
	Tags []string `json:"tags" db:"tags"`

	// Category is free text; the public listing filters on exact match.
	Category *string `json:"category" db:"category"`

	IsPublished bool `json:"isPublished" db:"is_published"`

	// PublishedAt is stamped the first time the post becomes published.
	PublishedAt *time.Time `json:"publishedAt" db:"published_at"`

	AuthorID  *int      `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// BlogPostInput is the create/update payload for a post.
type BlogPostInput struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Slug            string     `json:"slug" validate:"required,max=255,slug"`
	Content         string     `json:"content" validate:"required"`
	Excerpt         *string    `json:"excerpt" validate:"omitempty,max=1000"`
	FeaturedImage   *string    `json:"featuredImage" validate:"omitempty,url|startswith=/"`
	MetaTitle       *string    `json:"metaTitle" validate:"omitempty,max=255"`
	MetaDescription *string    `json:"metaDescription" validate:"omitempty,max=500"`
	CanonicalURL    *string    `json:"canonicalUrl" validate:"omitempty,url"`
	Tags            []string   `json:"tags" validate:"omitempty,max=50,dive,required,max=64"`
	Category        *string    `json:"category" validate:"omitempty,max=128"`
	IsPublished     bool       `json:"isPublished"`
	PublishedAt     *time.Time `json:"publishedAt"`
}

// Normalize drops blank optional fields and empty tags.
func (in *BlogPostInput) Normalize() {
	in.Excerpt = blankToNil(in.Excerpt)
	in.FeaturedImage = blankToNil(in.FeaturedImage)
	in.MetaTitle = blankToNil(in.MetaTitle)
	in.MetaDescription = blankToNil(in.MetaDescription)
	in.CanonicalURL = blankToNil(in.CanonicalURL)
	in.Category = blankToNil(in.Category)
	in.Tags = nonBlank(in.Tags)
}

// Apply copies the input onto p, leaving identity and audit fields alone.
func (in BlogPostInput) Apply(p *BlogPost) {
	p.Title = in.Title
	p.Slug = in.Slug
	p.Content = in.Content
	p.Excerpt = in.Excerpt
	p.FeaturedImage = in.FeaturedImage
	p.MetaTitle = in.MetaTitle
	p.MetaDescription = in.MetaDescription
	p.CanonicalURL = in.CanonicalURL
	p.Tags = in.Tags
	p.Category = in.Category
	p.IsPublished = in.IsPublished
	if in.PublishedAt != nil {
		p.PublishedAt = in.PublishedAt
	}
}

// BlogListQuery selects a page of published posts.
type BlogListQuery struct {
	Page     int
	Limit    int
	Category string
}

// Offset returns the row offset for the query's page.
func (q BlogListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}
