package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/accordmanpower/cmsapi/internal/storage"
	"github.com/accordmanpower/cmsapi/internal/store"
	"github.com/accordmanpower/cmsapi/types"
)

var errBoom = errors.New("boom")

type memUsers struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]types.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int]types.User{}}
}

func (m *memUsers) GetByID(_ context.Context, id int) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.byID[user.ID] = user
	return user, nil
}

func (m *memUsers) Update(_ context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	m.byID[user.ID] = user
	return user, nil
}

func (m *memUsers) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memPages struct {
	pages []types.Page
	err   error
}

func (m *memPages) ListAll(context.Context) ([]types.Page, error) { return m.pages, m.err }

func (m *memPages) ListPublished(context.Context) ([]types.Page, error) {
	var out []types.Page
	for _, p := range m.pages {
		if p.IsPublished {
			out = append(out, p)
		}
	}
	return out, m.err
}

func (m *memPages) GetByID(_ context.Context, id int) (types.Page, error) {
	for _, p := range m.pages {
		if p.ID == id {
			return p, nil
		}
	}
	return types.Page{}, store.ErrNotFound
}

func (m *memPages) GetBySlug(_ context.Context, slug string) (types.Page, error) {
	for _, p := range m.pages {
		if p.Slug == slug {
			return p, nil
		}
	}
	return types.Page{}, store.ErrNotFound
}

func (m *memPages) Create(_ context.Context, page types.Page) (types.Page, error) {
	for _, p := range m.pages {
		if p.Slug == page.Slug {
			return types.Page{}, store.ErrConflict
		}
	}
	page.ID = len(m.pages) + 1
	m.pages = append(m.pages, page)
	return page, nil
}

func (m *memPages) Update(_ context.Context, page types.Page) (types.Page, error) {
	for i, p := range m.pages {
		if p.ID == page.ID {
			m.pages[i] = page
			return page, nil
		}
	}
	return types.Page{}, store.ErrNotFound
}

func (m *memPages) Delete(_ context.Context, id int) error {
	for i, p := range m.pages {
		if p.ID == id {
			m.pages = append(m.pages[:i], m.pages[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memPages) Count(_ context.Context, publishedOnly bool) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := 0
	for _, p := range m.pages {
		if !publishedOnly || p.IsPublished {
			n++
		}
	}
	return n, nil
}

type memPosts struct {
	posts []types.BlogPost

	lastOffset, lastLimit int
	lastCategory          string
}

func (m *memPosts) ListAll(context.Context) ([]types.BlogPost, error) { return m.posts, nil }

func (m *memPosts) ListPublished(_ context.Context, offset, limit int, category string) ([]types.BlogPost, error) {
	m.lastOffset, m.lastLimit, m.lastCategory = offset, limit, category
	var out []types.BlogPost
	for _, p := range m.posts {
		if p.IsPublished && (category == "" || (p.Category != nil && *p.Category == category)) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(*out[j].PublishedAt)
	})
	if offset >= len(out) {
		return []types.BlogPost{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPosts) ListAllPublished(context.Context) ([]types.BlogPost, error) {
	var out []types.BlogPost
	for _, p := range m.posts {
		if p.IsPublished {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPosts) GetByID(_ context.Context, id int) (types.BlogPost, error) {
	for _, p := range m.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return types.BlogPost{}, store.ErrNotFound
}

func (m *memPosts) GetBySlug(_ context.Context, slug string) (types.BlogPost, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return types.BlogPost{}, store.ErrNotFound
}

func (m *memPosts) Create(_ context.Context, post types.BlogPost) (types.BlogPost, error) {
	post.ID = len(m.posts) + 1
	m.posts = append(m.posts, post)
	return post, nil
}

func (m *memPosts) Update(_ context.Context, post types.BlogPost) (types.BlogPost, error) {
	for i, p := range m.posts {
		if p.ID == post.ID {
			m.posts[i] = post
			return post, nil
		}
	}
	return types.BlogPost{}, store.ErrNotFound
}

func (m *memPosts) Delete(_ context.Context, id int) error {
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memPosts) Count(_ context.Context, publishedOnly bool) (int, error) {
	n := 0
	for _, p := range m.posts {
		if !publishedOnly || p.IsPublished {
			n++
		}
	}
	return n, nil
}

type memInquiries struct {
	inquiries []types.Inquiry
	createErr error
}

func (m *memInquiries) List(context.Context) ([]types.Inquiry, error) {
	out := make([]types.Inquiry, 0, len(m.inquiries))
	for i := len(m.inquiries) - 1; i >= 0; i-- {
		out = append(out, m.inquiries[i])
	}
	return out, nil
}

func (m *memInquiries) GetByID(_ context.Context, id int) (types.Inquiry, error) {
	for _, in := range m.inquiries {
		if in.ID == id {
			return in, nil
		}
	}
	return types.Inquiry{}, store.ErrNotFound
}

func (m *memInquiries) Create(_ context.Context, inquiry types.Inquiry) (types.Inquiry, error) {
	if m.createErr != nil {
		return types.Inquiry{}, m.createErr
	}
	inquiry.ID = len(m.inquiries) + 1
	inquiry.CreatedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	inquiry.UpdatedAt = inquiry.CreatedAt
	m.inquiries = append(m.inquiries, inquiry)
	return inquiry, nil
}

func (m *memInquiries) UpdateStatus(_ context.Context, id int, status types.InquiryStatus) (types.Inquiry, error) {
	for i, in := range m.inquiries {
		if in.ID == id {
			m.inquiries[i].Status = status
			m.inquiries[i].UpdatedAt = in.UpdatedAt.Add(time.Minute)
			return m.inquiries[i], nil
		}
	}
	return types.Inquiry{}, store.ErrNotFound
}

func (m *memInquiries) Count(context.Context) (int, error) { return len(m.inquiries), nil }

type memSeo struct {
	rows []types.SeoSettings
}

func (m *memSeo) List(context.Context) ([]types.SeoSettings, error) { return m.rows, nil }

func (m *memSeo) GetByPageType(_ context.Context, pageType string) (types.SeoSettings, error) {
	for _, s := range m.rows {
		if s.PageType == pageType {
			return s, nil
		}
	}
	return types.SeoSettings{}, store.ErrNotFound
}

func (m *memSeo) GetByID(_ context.Context, id int) (types.SeoSettings, error) {
	for _, s := range m.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return types.SeoSettings{}, store.ErrNotFound
}

func (m *memSeo) Create(_ context.Context, settings types.SeoSettings) (types.SeoSettings, error) {
	for _, s := range m.rows {
		if s.PageType == settings.PageType {
			return types.SeoSettings{}, store.ErrConflict
		}
	}
	settings.ID = len(m.rows) + 1
	m.rows = append(m.rows, settings)
	return settings, nil
}

func (m *memSeo) Update(_ context.Context, settings types.SeoSettings) (types.SeoSettings, error) {
	for i, s := range m.rows {
		if s.ID == settings.ID {
			m.rows[i] = settings
			return settings, nil
		}
	}
	return types.SeoSettings{}, store.ErrNotFound
}

func (m *memSeo) Delete(_ context.Context, id int) error {
	for i, s := range m.rows {
		if s.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type publishCall struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type fakePublisher struct {
	calls []publishCall
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	f.calls = append(f.calls, publishCall{channel: channel, data: data, attrs: attrs})
	if f.err != nil {
		return "", f.err
	}
	return "msg-1", nil
}

type memObjects struct {
	objects      map[string][]byte
	contentTypes map[string]string
	putErr       error
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memObjects) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.contentTypes[key] = contentType
	return nil
}

func (m *memObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
