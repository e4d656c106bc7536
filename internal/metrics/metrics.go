package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "atelier"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "The total number of HTTP requests by route pattern and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	Reorders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ordering",
		Name:      "moves_total",
		Help:      "The total number of one-step moves by scope and result",
	}, []string{"scope", "result"})

	Renumbered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ordering",
		Name:      "renumbered_rows_total",
		Help:      "The total number of rows rewritten by renumbering",
	}, []string{"scope"})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "blob",
		Name:      "uploads_total",
		Help:      "The total number of image uploads by result",
	}, []string{"result"})

	UploadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "blob",
		Name:      "upload_bytes_total",
		Help:      "The total number of bytes stored after image processing",
	})

	MessagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "contact",
		Name:      "messages_total",
		Help:      "The total number of contact messages received",
	})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "contact",
		Name:      "notifications_total",
		Help:      "The total number of operator notifications by result",
	}, []string{"result"})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "The total number of admin login attempts by result",
	}, []string{"result"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "The total number of requests refused by a rate limiter",
	}, []string{"route"})
)

// Result labels shared by the counters above.
const (
	ResultOK          = "ok"
	ResultNotFound    = "not_found"
	ResultNoAdjacent  = "no_adjacent"
	ResultError       = "error"
	ResultDenied      = "denied"
	ResultRateLimited = "rate_limited"
)
