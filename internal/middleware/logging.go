package middleware

import (
	"net/http"
	"time"

	"github.com/accordmanpower/cmsapi/internal/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// statusRecorder wraps http.ResponseWriter and remembers the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

func wrap(w http.ResponseWriter) *statusRecorder {
	if sr, ok := w.(*statusRecorder); ok {
		return sr
	}
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

// NewLoggingMiddleware logs one structured line per request and puts a
// request-scoped logger carrying the request id into the context. 5xx
// responses log at error level, 4xx at warn.
func NewLoggingMiddleware(base *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := base
			if id := chimw.GetReqID(r.Context()); id != "" {
				reqLogger = base.With(zap.String("request_id", id))
			}
			ctx := logger.WithContext(r.Context(), reqLogger)

			rec := wrap(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			level := zapcore.InfoLevel
			switch {
			case rec.statusCode >= 500:
				level = zapcore.ErrorLevel
			case rec.statusCode >= 400:
				level = zapcore.WarnLevel
			}

			if ce := reqLogger.Check(level, "http_request"); ce != nil {
				ce.Write(
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", rec.statusCode),
					zap.Duration("latency", time.Since(start)),
					zap.String("ip", r.RemoteAddr),
				)
			}
		})
	}
}
