package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/accordmanpower/cmsapi/types"
)

// SeoRepository handles persistence for per-page-type SEO settings.
type SeoRepository struct {
	db *sql.DB
}

func NewSeoRepository(db *sql.DB) *SeoRepository {
	return &SeoRepository{db: db}
}

const seoColumns = `id, page_type, settings, created_at, updated_at`

func scanSeo(row interface{ Scan(...any) error }) (types.SeoSettings, error) {
	var settings types.SeoSettings
	var raw []byte
	err := row.Scan(
		&settings.ID,
		&settings.PageType,
		&raw,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		return types.SeoSettings{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &settings.Settings); err != nil {
			return types.SeoSettings{}, err
		}
	}
	return settings, nil
}

func (r *SeoRepository) List(ctx context.Context) ([]types.SeoSettings, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+seoColumns+` FROM seo_settings ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make([]types.SeoSettings, 0)
	for rows.Next() {
		settings, err := scanSeo(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, settings)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return all, nil
}

// GetByPageType returns the settings for a page type. page_type is unique,
// the ORDER BY only matters for databases migrated before the constraint.
func (r *SeoRepository) GetByPageType(ctx context.Context, pageType string) (types.SeoSettings, error) {
	query := `SELECT ` + seoColumns + ` FROM seo_settings WHERE page_type = $1 ORDER BY updated_at DESC LIMIT 1`
	settings, err := scanSeo(r.db.QueryRowContext(ctx, query, pageType))
	if errors.Is(err, sql.ErrNoRows) {
		return types.SeoSettings{}, ErrNotFound
	}
	return settings, err
}

func (r *SeoRepository) GetByID(ctx context.Context, id int) (types.SeoSettings, error) {
	settings, err := scanSeo(r.db.QueryRowContext(ctx, `SELECT `+seoColumns+` FROM seo_settings WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.SeoSettings{}, ErrNotFound
	}
	return settings, err
}

func (r *SeoRepository) Create(ctx context.Context, settings types.SeoSettings) (types.SeoSettings, error) {
	now := time.Now().UTC()
	settings.CreatedAt = now
	settings.UpdatedAt = now

	raw, err := json.Marshal(settings.Settings)
	if err != nil {
		return types.SeoSettings{}, err
	}

	const query = `
		INSERT INTO seo_settings (page_type, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		settings.PageType,
		raw,
		settings.CreatedAt,
		settings.UpdatedAt,
	).Scan(&settings.ID); err != nil {
		return types.SeoSettings{}, translate(err)
	}
	return settings, nil
}

func (r *SeoRepository) Update(ctx context.Context, settings types.SeoSettings) (types.SeoSettings, error) {
	settings.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(settings.Settings)
	if err != nil {
		return types.SeoSettings{}, err
	}

	const query = `
		UPDATE seo_settings
		SET page_type = $1,
			settings = $2,
			updated_at = $3
		WHERE id = $4
		RETURNING created_at`
	err = r.db.QueryRowContext(
		ctx,
		query,
		settings.PageType,
		raw,
		settings.UpdatedAt,
		settings.ID,
	).Scan(&settings.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.SeoSettings{}, ErrNotFound
		}
		return types.SeoSettings{}, translate(err)
	}
	return settings, nil
}

func (r *SeoRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM seo_settings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}
