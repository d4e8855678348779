package handlers

import (
	"net/http"
	"time"

	"github.com/accordmanpower/cmsapi/internal/services"
	"github.com/go-chi/chi/v5"
)

// Metrics receives domain events worth counting.
type Metrics interface {
	RecordInquiryCreated()
	RecordLogin(success bool)
	RecordMediaUpload()
}

type nopMetrics struct{}

func (nopMetrics) RecordInquiryCreated() {}
func (nopMetrics) RecordLogin(bool)      {}
func (nopMetrics) RecordMediaUpload()    {}

// Dependencies are the services and settings the /api tree needs.
// Media may be nil when no storage backend is configured.
type Dependencies struct {
	Users     *services.UserService
	Pages     *services.PageService
	Blog      *services.BlogService
	Inquiries *services.InquiryService
	Seo       *services.SeoService
	Stats     *services.StatsService
	Sitemap   *services.SitemapService
	Media     *services.MediaService

	JWTSecret string
	TokenTTL  time.Duration
	Metrics   Metrics

	InquiryLimiter func(http.Handler) http.Handler
	LoginLimiter   func(http.Handler) http.Handler
}

// Mount registers every /api route on r.
func Mount(r chi.Router, d Dependencies) {
	if d.Metrics == nil {
		d.Metrics = nopMetrics{}
	}

	auth := NewAuthHandler(d.Users, d.JWTSecret, d.TokenTTL, d.Metrics)
	pages := NewPageHandler(d.Pages)
	blog := NewBlogHandler(d.Blog)
	inquiries := NewInquiryHandler(d.Inquiries, d.Metrics)
	seo := NewSeoHandler(d.Seo)
	media := NewMediaHandler(d.Media, d.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			AuthRouter(r, auth, d.LoginLimiter)
		})

		r.Get("/pages", pages.ListPublished)
		r.Get("/pages/{slug}", pages.GetPublished)
		r.Get("/blog", blog.ListPublished)
		r.Get("/blog/{slug}", blog.GetPublished)
		r.Get("/seo/{pageType}", seo.Lookup)
		if d.InquiryLimiter != nil {
			r.With(d.InquiryLimiter).Post("/inquiries", inquiries.Submit)
		} else {
			r.Post("/inquiries", inquiries.Submit)
		}
		r.Get("/sitemap.xml", NewSitemapHandler(d.Sitemap).ServeHTTP)
		r.Get("/media/*", media.Serve)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Get("/stats", NewStatsHandler(d.Stats).Get)
			r.Route("/pages", func(r chi.Router) {
				r.Get("/", pages.ListAll)
				r.Post("/", pages.Create)
				r.Get("/{id}", pages.Get)
				r.Put("/{id}", pages.Update)
				r.Delete("/{id}", pages.Delete)
			})
			r.Route("/blog", func(r chi.Router) {
				r.Get("/", blog.ListAll)
				r.Post("/", blog.Create)
				r.Get("/{id}", blog.Get)
				r.Put("/{id}", blog.Update)
				r.Delete("/{id}", blog.Delete)
			})
			r.Route("/inquiries", func(r chi.Router) {
				r.Get("/", inquiries.List)
				r.Get("/export", inquiries.Export)
				r.Get("/{id}", inquiries.Get)
				r.Put("/{id}", inquiries.UpdateStatus)
			})
			r.Route("/seo", func(r chi.Router) {
				r.Get("/", seo.List)
				r.Post("/", seo.Create)
				r.Get("/{id}", seo.Get)
				r.Put("/{id}", seo.Update)
				r.Delete("/{id}", seo.Delete)
			})
			r.Post("/media", media.Upload)
		})
	})
}
