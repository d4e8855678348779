package types

// AdminStats is the dashboard aggregate.
type AdminStats struct {
	TotalPages     int `json:"totalPages"`
	PublishedPages int `json:"publishedPages"`
	TotalPosts     int `json:"totalPosts"`
	PublishedPosts int `json:"publishedPosts"`
	TotalInquiries int `json:"totalInquiries"`
}
