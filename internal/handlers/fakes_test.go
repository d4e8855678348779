package handlers

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/accordmanpower/cmsapi/internal/storage"
	"github.com/accordmanpower/cmsapi/internal/store"
	"github.com/accordmanpower/cmsapi/types"
)

// memDB backs every repository interface with slices guarded by one lock.
type memDB struct {
	mu        sync.Mutex
	clock     time.Time
	users     []types.User
	pages     []types.Page
	posts     []types.BlogPost
	inquiries []types.Inquiry
	seo       []types.SeoSettings
	objects   map[string][]byte
}

func newMemDB() *memDB {
	return &memDB{
		clock:   time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		objects: map[string][]byte{},
	}
}

// tick returns a strictly increasing timestamp.
func (m *memDB) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type memUserRepo struct{ db *memDB }

func (r memUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r memUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r memUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == user.Username || u.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = len(r.db.users) + 1
	user.CreatedAt = r.db.tick()
	user.UpdatedAt = user.CreatedAt
	r.db.users = append(r.db.users, user)
	return user, nil
}

func (r memUserRepo) Update(_ context.Context, user types.User) (types.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, u := range r.db.users {
		if u.ID == user.ID {
			r.db.users[i] = user
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r memUserRepo) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, u := range r.db.users {
		if u.ID == id {
			r.db.users = append(r.db.users[:i], r.db.users[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type memPageRepo struct{ db *memDB }

func (r memPageRepo) ListAll(context.Context) ([]types.Page, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]types.Page{}, r.db.pages...), nil
}

func (r memPageRepo) ListPublished(context.Context) ([]types.Page, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []types.Page{}
	for _, p := range r.db.pages {
		if p.IsPublished {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPageRepo) GetByID(_ context.Context, id int) (types.Page, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.pages {
		if p.ID == id {
			return p, nil
		}
	}
	return types.Page{}, store.ErrNotFound
}

func (r memPageRepo) GetBySlug(_ context.Context, slug string) (types.Page, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.pages {
		if p.Slug == slug {
			return p, nil
		}
	}
	return types.Page{}, store.ErrNotFound
}

func (r memPageRepo) Create(_ context.Context, page types.Page) (types.Page, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.pages {
		if p.Slug == page.Slug {
			return types.Page{}, store.ErrConflict
		}
	}
	page.ID = len(r.db.pages) + 1
	page.CreatedAt = r.db.tick()
	page.UpdatedAt = page.CreatedAt
	r.db.pages = append(r.db.pages, page)
	return page, nil
}

func (r memPageRepo) Update(_ context.Context, page types.Page) (types.Page, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, p := range r.db.pages {
		if p.ID == page.ID {
			page.AuthorID = p.AuthorID
			page.CreatedAt = p.CreatedAt
			page.UpdatedAt = r.db.tick()
			r.db.pages[i] = page
			return page, nil
		}
	}
	return types.Page{}, store.ErrNotFound
}

func (r memPageRepo) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, p := range r.db.pages {
		if p.ID == id {
			r.db.pages = append(r.db.pages[:i], r.db.pages[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r memPageRepo) Count(_ context.Context, publishedOnly bool) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, p := range r.db.pages {
		if !publishedOnly || p.IsPublished {
			n++
		}
	}
	return n, nil
}

type memPostRepo struct{ db *memDB }

func (r memPostRepo) ListAll(context.Context) ([]types.BlogPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]types.BlogPost{}, r.db.posts...), nil
}

func (r memPostRepo) ListPublished(_ context.Context, offset, limit int, category string) ([]types.BlogPost, error) {
	all, _ := r.ListAllPublished(context.Background())
	out := []types.BlogPost{}
	for _, p := range all {
		if category == "" || (p.Category != nil && *p.Category == category) {
			out = append(out, p)
		}
	}
	if offset >= len(out) {
		return []types.BlogPost{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memPostRepo) ListAllPublished(context.Context) ([]types.BlogPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []types.BlogPost{}
	for _, p := range r.db.posts {
		if p.IsPublished {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPostRepo) GetByID(_ context.Context, id int) (types.BlogPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return types.BlogPost{}, store.ErrNotFound
}

func (r memPostRepo) GetBySlug(_ context.Context, slug string) (types.BlogPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return types.BlogPost{}, store.ErrNotFound
}

func (r memPostRepo) Create(_ context.Context, post types.BlogPost) (types.BlogPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.posts {
		if p.Slug == post.Slug {
			return types.BlogPost{}, store.ErrConflict
		}
	}
	post.ID = len(r.db.posts) + 1
	post.CreatedAt = r.db.tick()
	post.UpdatedAt = post.CreatedAt
	r.db.posts = append(r.db.posts, post)
	return post, nil
}

func (r memPostRepo) Update(_ context.Context, post types.BlogPost) (types.BlogPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, p := range r.db.posts {
		if p.ID == post.ID {
			post.AuthorID = p.AuthorID
			post.CreatedAt = p.CreatedAt
			post.UpdatedAt = r.db.tick()
			r.db.posts[i] = post
			return post, nil
		}
	}
	return types.BlogPost{}, store.ErrNotFound
}

func (r memPostRepo) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, p := range r.db.posts {
		if p.ID == id {
			r.db.posts = append(r.db.posts[:i], r.db.posts[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r memPostRepo) Count(_ context.Context, publishedOnly bool) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, p := range r.db.posts {
		if !publishedOnly || p.IsPublished {
			n++
		}
	}
	return n, nil
}

type memInquiryRepo struct{ db *memDB }

func (r memInquiryRepo) List(context.Context) ([]types.Inquiry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]types.Inquiry, 0, len(r.db.inquiries))
	for i := len(r.db.inquiries) - 1; i >= 0; i-- {
		out = append(out, r.db.inquiries[i])
	}
	return out, nil
}

func (r memInquiryRepo) GetByID(_ context.Context, id int) (types.Inquiry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, in := range r.db.inquiries {
		if in.ID == id {
			return in, nil
		}
	}
	return types.Inquiry{}, store.ErrNotFound
}

func (r memInquiryRepo) Create(_ context.Context, inquiry types.Inquiry) (types.Inquiry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	inquiry.ID = len(r.db.inquiries) + 1
	inquiry.CreatedAt = r.db.tick()
	inquiry.UpdatedAt = inquiry.CreatedAt
	r.db.inquiries = append(r.db.inquiries, inquiry)
	return inquiry, nil
}

func (r memInquiryRepo) UpdateStatus(_ context.Context, id int, status types.InquiryStatus) (types.Inquiry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, in := range r.db.inquiries {
		if in.ID == id {
			r.db.inquiries[i].Status = status
			r.db.inquiries[i].UpdatedAt = r.db.tick()
			return r.db.inquiries[i], nil
		}
	}
	return types.Inquiry{}, store.ErrNotFound
}

func (r memInquiryRepo) Count(context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.inquiries), nil
}

type memSeoRepo struct{ db *memDB }

func (r memSeoRepo) List(context.Context) ([]types.SeoSettings, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]types.SeoSettings{}, r.db.seo...), nil
}

func (r memSeoRepo) GetByPageType(_ context.Context, pageType string) (types.SeoSettings, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.seo {
		if s.PageType == pageType {
			return s, nil
		}
	}
	return types.SeoSettings{}, store.ErrNotFound
}

func (r memSeoRepo) GetByID(_ context.Context, id int) (types.SeoSettings, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.seo {
		if s.ID == id {
			return s, nil
		}
	}
	return types.SeoSettings{}, store.ErrNotFound
}

func (r memSeoRepo) Create(_ context.Context, settings types.SeoSettings) (types.SeoSettings, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.seo {
		if s.PageType == settings.PageType {
			return types.SeoSettings{}, store.ErrConflict
		}
	}
	settings.ID = len(r.db.seo) + 1
	settings.CreatedAt = r.db.tick()
	settings.UpdatedAt = settings.CreatedAt
	r.db.seo = append(r.db.seo, settings)
	return settings, nil
}

func (r memSeoRepo) Update(_ context.Context, settings types.SeoSettings) (types.SeoSettings, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, s := range r.db.seo {
		if s.ID == settings.ID {
			settings.CreatedAt = s.CreatedAt
			settings.UpdatedAt = r.db.tick()
			r.db.seo[i] = settings
			return settings, nil
		}
	}
	return types.SeoSettings{}, store.ErrNotFound
}

func (r memSeoRepo) Delete(_ context.Context, id int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, s := range r.db.seo {
		if s.ID == id {
			r.db.seo = append(r.db.seo[:i], r.db.seo[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type memObjectStore struct{ db *memDB }

func (s memObjectStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.objects[key] = data
	return nil
}

func (s memObjectStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	data, ok := s.db.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
