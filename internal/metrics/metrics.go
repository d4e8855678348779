// Package metrics collects Prometheus metrics for the HTTP API and the
// inquiry and login flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the registered collectors.
type Collector struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inquiries prometheus.Counter
	logins    *prometheus.CounterVec
	uploads   prometheus.Counter
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmsapi_http_requests_total",
			Help: "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cmsapi_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inquiries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cmsapi_inquiries_created_total",
			Help: "Inquiries accepted from the public forms.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmsapi_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cmsapi_media_uploads_total",
			Help: "Media files stored.",
		}),
	}

	reg.MustRegister(c.requests, c.duration, c.inquiries, c.logins, c.uploads)
	return c
}

// RecordRequest records one finished HTTP request.
func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordInquiryCreated() {
	c.inquiries.Inc()
}

func (c *Collector) RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordMediaUpload() {
	c.uploads.Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
