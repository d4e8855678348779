package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/accordmanpower/cmsapi/types"
)

// InquiryRepository handles persistence for inquiries. Inquiries are
// never deleted through the API.
type InquiryRepository struct {
	db *sql.DB
}

func NewInquiryRepository(db *sql.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

const inquiryColumns = `id, name, email, company, service, message, status, source, created_at, updated_at`

func scanInquiry(row interface{ Scan(...any) error }) (types.Inquiry, error) {
	var inquiry types.Inquiry
	err := row.Scan(
		&inquiry.ID,
		&inquiry.Name,
		&inquiry.Email,
		&inquiry.Company,
		&inquiry.Service,
		&inquiry.Message,
		&inquiry.Status,
		&inquiry.Source,
		&inquiry.CreatedAt,
		&inquiry.UpdatedAt,
	)
	return inquiry, err
}

func (r *InquiryRepository) List(ctx context.Context) ([]types.Inquiry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+inquiryColumns+` FROM inquiries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inquiries := make([]types.Inquiry, 0)
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		inquiries = append(inquiries, inquiry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (r *InquiryRepository) GetByID(ctx context.Context, id int) (types.Inquiry, error) {
	inquiry, err := scanInquiry(r.db.QueryRowContext(ctx, `SELECT `+inquiryColumns+` FROM inquiries WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Inquiry{}, ErrNotFound
	}
	return inquiry, err
}

func (r *InquiryRepository) Create(ctx context.Context, inquiry types.Inquiry) (types.Inquiry, error) {
	now := time.Now().UTC()
	inquiry.CreatedAt = now
	inquiry.UpdatedAt = now

	const query = `
		INSERT INTO inquiries (name, email, company, service, message, status, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		inquiry.Name,
		inquiry.Email,
		inquiry.Company,
		inquiry.Service,
		inquiry.Message,
		inquiry.Status,
		inquiry.Source,
		inquiry.CreatedAt,
		inquiry.UpdatedAt,
	).Scan(&inquiry.ID); err != nil {
		return types.Inquiry{}, translate(err)
	}
	return inquiry, nil
}

// UpdateStatus sets the lifecycle status and returns the full row.
func (r *InquiryRepository) UpdateStatus(ctx context.Context, id int, status types.InquiryStatus) (types.Inquiry, error) {
	query := `
		UPDATE inquiries
		SET status = $1,
			updated_at = $2
		WHERE id = $3
		RETURNING ` + inquiryColumns
	inquiry, err := scanInquiry(r.db.QueryRowContext(ctx, query, status, time.Now().UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Inquiry{}, ErrNotFound
	}
	return inquiry, err
}

func (r *InquiryRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM inquiries`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
