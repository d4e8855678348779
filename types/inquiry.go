package types

import "time"

// InquiryStatus is the lifecycle state of a lead.
type InquiryStatus string

const (
	InquiryNew        InquiryStatus = "new"
	InquiryInProgress InquiryStatus = "in_progress"
	InquiryClosed     InquiryStatus = "closed"
)

// DefaultInquirySource tags leads captured by the public site forms.
const DefaultInquirySource = "website"

// Valid reports whether s is a known status.
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryNew, InquiryInProgress, InquiryClosed:
		return true
	default:
		return false
	}
}

// Inquiry is a lead captured from the public contact or hero form.
type Inquiry struct {
	ID        int           `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Email     string        `json:"email" db:"email"`
	Company   *string       `json:"company" db:"company"`
	Service   *string       `json:"service" db:"service"`
	Message   *string       `json:"message" db:"message"`
	Status    InquiryStatus `json:"status" db:"status"`
	Source    string        `json:"source" db:"source"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

// InquiryInput is the public submission payload. Status is never
// accepted from the client.
type InquiryInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Company *string `json:"company" validate:"omitempty,max=255"`
	Service *string `json:"service" validate:"omitempty,max=255"`
	Message *string `json:"message" validate:"omitempty,max=5000"`
	Source  *string `json:"source" validate:"omitempty,max=64"`
}

// InquiryStatusInput is the admin status transition payload.
type InquiryStatusInput struct {
	Status InquiryStatus `json:"status" validate:"required,oneof=new in_progress closed"`
}
