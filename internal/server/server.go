package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/accordmanpower/cmsapi/config"
	"github.com/accordmanpower/cmsapi/internal/db"
	"github.com/accordmanpower/cmsapi/internal/handlers"
	"github.com/accordmanpower/cmsapi/internal/metrics"
	"github.com/accordmanpower/cmsapi/internal/middleware"
	"github.com/accordmanpower/cmsapi/internal/mq"
	"github.com/accordmanpower/cmsapi/internal/services"
	"github.com/accordmanpower/cmsapi/internal/storage"
	"github.com/accordmanpower/cmsapi/internal/store"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// Server wraps the HTTP server, router and the resources it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
	limiters   []*middleware.RateLimiter
	logger     *zap.Logger
}

// New opens the database, optional storage and broker, and builds the
// router. Resources opened before a failure are released.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Auth.InsecureSecret() {
		log.Warn("JWT_SECRET is not set; using an insecure development key")
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	objects, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	broker, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	s := &Server{db: dbConn, broker: broker, logger: log}
	s.router = s.routes(cfg, dbConn, objects, broker)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(cfg config.Config, dbConn *sql.DB, objects *storage.Storage, broker *mq.MQ) *chi.Mux {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(dbConn, "cmsapi"),
	)
	collector := metrics.NewCollector(registry)

	userRepo := store.NewUserRepository(dbConn)
	pageRepo := store.NewPageRepository(dbConn)
	postRepo := store.NewBlogPostRepository(dbConn)
	inquiryRepo := store.NewInquiryRepository(dbConn)
	seoRepo := store.NewSeoRepository(dbConn)

	sanitizer := services.NewContentSanitizer()
	inquiryService := services.NewInquiryService(inquiryRepo, s.logger)
	if broker != nil {
		inquiryService.WithPublisher(broker, cfg.MQ.InquiryChannel)
	}

	var mediaService *services.MediaService
	if objects != nil {
		mediaService = services.NewMediaService(objects, cfg.Storage.MaxMediaBytes)
	}

	inquiryLimiter := middleware.NewRateLimiter("inquiries", cfg.RateLimit.InquiriesPerMinute, 0)
	loginLimiter := middleware.NewRateLimiter("auth", cfg.RateLimit.LoginsPerMinute, 0)
	s.limiters = append(s.limiters, inquiryLimiter, loginLimiter)

	router := chi.NewRouter()
	router.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.NewLoggingMiddleware(s.logger),
		chimw.Recoverer,
		middleware.NewMetricsMiddleware(collector),
		middleware.SecurityHeaders,
		middleware.NewCORSMiddleware(cfg.CORSOrigin),
		chimw.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	handlers.Mount(router, handlers.Dependencies{
		Users:          services.NewUserService(userRepo),
		Pages:          services.NewPageService(pageRepo, sanitizer),
		Blog:           services.NewBlogService(postRepo, sanitizer),
		Inquiries:      inquiryService,
		Seo:            services.NewSeoService(seoRepo),
		Stats:          services.NewStatsService(pageRepo, postRepo, inquiryRepo),
		Sitemap:        services.NewSitemapService(pageRepo, postRepo, cfg.BaseURL),
		Media:          mediaService,
		JWTSecret:      cfg.Auth.JWTSecret,
		TokenTTL:       cfg.Auth.TokenTTL,
		Metrics:        collector,
		InquiryLimiter: inquiryLimiter.Middleware,
		LoginLimiter:   loginLimiter.Middleware,
	})
	return router
}

// Router exposes the chi router.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the broker, rate
// limiters and database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	for _, limiter := range s.limiters {
		limiter.Stop()
	}
	if s.broker != nil {
		if closeErr := s.broker.Close(); closeErr != nil {
			s.logger.Warn("close broker", zap.Error(closeErr))
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
