package services

import (
	"context"
	"errors"
	"strings"

	"github.com/accordmanpower/cmsapi/internal/store"
	"github.com/accordmanpower/cmsapi/types"
)

const (
	msgSeoNotFound = "SEO settings not found"
	msgSeoConflict = "SEO settings for this page type already exist"
)

// SeoRepository defines persistence operations for SEO settings.
type SeoRepository interface {
	List(ctx context.Context) ([]types.SeoSettings, error)
	GetByPageType(ctx context.Context, pageType string) (types.SeoSettings, error)
	GetByID(ctx context.Context, id int) (types.SeoSettings, error)
	Create(ctx context.Context, settings types.SeoSettings) (types.SeoSettings, error)
	Update(ctx context.Context, settings types.SeoSettings) (types.SeoSettings, error)
	Delete(ctx context.Context, id int) error
}

// SeoService encapsulates SEO settings use-cases.
type SeoService struct {
	repo SeoRepository
}

func NewSeoService(repo SeoRepository) *SeoService {
	return &SeoService{repo: repo}
}

// Lookup returns the settings for pageType, or nil when none exist.
// A missing configuration is not an error.
func (s *SeoService) Lookup(ctx context.Context, pageType string) (*types.SeoSettings, error) {
	settings, err := s.repo.GetByPageType(ctx, strings.TrimSpace(pageType))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, storeErr(err, msgSeoNotFound, "")
	}
	return &settings, nil
}

func (s *SeoService) List(ctx context.Context) ([]types.SeoSettings, error) {
	all, err := s.repo.List(ctx)
	return all, storeErr(err, msgSeoNotFound, "")
}

func (s *SeoService) Get(ctx context.Context, id int) (types.SeoSettings, error) {
	settings, err := s.repo.GetByID(ctx, id)
	return settings, storeErr(err, msgSeoNotFound, "")
}

func (s *SeoService) Create(ctx context.Context, in types.SeoSettingsInput) (types.SeoSettings, error) {
	in.Settings.Normalize()
	if err := Validate(in); err != nil {
		return types.SeoSettings{}, err
	}
	created, err := s.repo.Create(ctx, fromSeoInput(0, in))
	return created, storeErr(err, msgSeoNotFound, msgSeoConflict)
}

func (s *SeoService) Update(ctx context.Context, id int, in types.SeoSettingsInput) (types.SeoSettings, error) {
	in.Settings.Normalize()
	if err := Validate(in); err != nil {
		return types.SeoSettings{}, err
	}
	updated, err := s.repo.Update(ctx, fromSeoInput(id, in))
	return updated, storeErr(err, msgSeoNotFound, msgSeoConflict)
}

func (s *SeoService) Delete(ctx context.Context, id int) error {
	return storeErr(s.repo.Delete(ctx, id), msgSeoNotFound, "")
}

// fromSeoInput stamps the current config version; older stored rows are
// rewritten at that version the next time they are saved.
func fromSeoInput(id int, in types.SeoSettingsInput) types.SeoSettings {
	settings := in.Settings
	settings.Version = types.SeoConfigVersion
	return types.SeoSettings{
		ID:       id,
		PageType: in.PageType,
		Settings: settings,
	}
}
