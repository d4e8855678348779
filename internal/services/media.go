package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/accordmanpower/cmsapi/internal/apperr"
	"github.com/accordmanpower/cmsapi/internal/storage"
	"github.com/accordmanpower/cmsapi/types"
	"github.com/google/uuid"
)

// MediaURLPrefix is the public path media objects are served under.
const MediaURLPrefix = "/api/media/"

// imageTypes maps the accepted sniffed content types to file extensions.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var extContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var mediaKeyPattern = regexp.MustCompile(`^media/\d{4}/\d{2}/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}(\.jpg|\.png|\.gif|\.webp)$`)

// ObjectStore is the subset of object storage used for media.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// MediaService stores featured images and other editor uploads.
type MediaService struct {
	store    ObjectStore
	maxBytes int64
	now      func() time.Time
}

func NewMediaService(store ObjectStore, maxBytes int64) *MediaService {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &MediaService{store: store, maxBytes: maxBytes, now: time.Now}
}

// MaxBytes is the largest accepted upload.
func (s *MediaService) MaxBytes() int64 {
	return s.maxBytes
}

// Upload sniffs the content type, rejects anything that is not a raster
// image, and stores the data under a fresh key.
func (s *MediaService) Upload(ctx context.Context, r io.Reader, size int64) (types.MediaObject, error) {
	if size > s.maxBytes {
		return types.MediaObject{}, apperr.Validationf(fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes))
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return types.MediaObject{}, apperr.Wrap(apperr.Validation, "failed to read upload", err)
	}
	if len(data) == 0 {
		return types.MediaObject{}, apperr.Validationf("file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return types.MediaObject{}, apperr.Validationf(fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes))
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageTypes[contentType]
	if !ok {
		return types.MediaObject{}, apperr.Validationf("file must be a JPEG, PNG, GIF or WebP image")
	}

	now := s.now().UTC()
	key := fmt.Sprintf("media/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
	if err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return types.MediaObject{}, apperr.Internalf("failed to store upload", err)
	}

	return types.MediaObject{
		Key:         key,
		URL:         MediaURLPrefix + key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Open returns a reader for a stored object and its content type. Only
// keys produced by Upload are served.
func (s *MediaService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	match := mediaKeyPattern.FindStringSubmatch(key)
	if match == nil {
		return nil, "", apperr.NotFoundf("Media not found")
	}

	rc, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", apperr.Wrap(apperr.NotFound, "Media not found", err)
		}
		return nil, "", apperr.Internalf("failed to open media", err)
	}
	return rc, extContentTypes[match[1]], nil
}
