package types

import (
	"encoding/json"
	"time"
)

// SeoConfigVersion is the current shape of SeoConfig.
const SeoConfigVersion = 1

// SeoSettings is the SEO metadata associated with one page type
// (e.g. "global", "home", "services").
type SeoSettings struct {
	ID        int       `json:"id" db:"id"`
	PageType  string    `json:"pageType" db:"page_type"`
	Settings  SeoConfig `json:"settings" db:"settings"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SeoConfig is the closed set of head-tag values for a page type.
// It is stored as JSON; Version lets the shape evolve without guessing.
type SeoConfig struct {
	Version       int     `json:"version"`
	Title         *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Keywords      *string `json:"keywords,omitempty" validate:"omitempty,max=500"`
	OGTitle       *string `json:"ogTitle,omitempty" validate:"omitempty,max=255"`
	OGDescription *string `json:"ogDescription,omitempty" validate:"omitempty,max=500"`
	OGImage       *string `json:"ogImage,omitempty" validate:"omitempty,url"`
	TwitterCard   *string `json:"twitterCard,omitempty" validate:"omitempty,oneof=summary summary_large_image app player"`
	CanonicalURL  *string `json:"canonicalUrl,omitempty" validate:"omitempty,url"`
	Robots        *string `json:"robots,omitempty" validate:"omitempty,max=255"`
	SchemaJSON    *string `json:"schemaJson,omitempty" validate:"omitempty,json"`
}

// UnmarshalJSON also accepts "schema", the key older admin clients send
// for schemaJson. schemaJson wins when both are present.
func (c *SeoConfig) UnmarshalJSON(data []byte) error {
	type plain SeoConfig
	var aux struct {
		plain
		Schema *string `json:"schema"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = SeoConfig(aux.plain)
	if c.SchemaJSON == nil {
		c.SchemaJSON = aux.Schema
	}
	return nil
}

// Normalize drops blank values so they are omitted from the stored JSON.
func (c *SeoConfig) Normalize() {
	for _, field := range []**string{
		&c.Title, &c.Description, &c.Keywords, &c.OGTitle, &c.OGDescription,
		&c.OGImage, &c.TwitterCard, &c.CanonicalURL, &c.Robots, &c.SchemaJSON,
	} {
		*field = blankToNil(*field)
	}
}

// SeoSettingsInput is the admin create/update payload.
type SeoSettingsInput struct {
	PageType string    `json:"pageType" validate:"required,max=64,slug"`
	Settings SeoConfig `json:"settings"`
}
