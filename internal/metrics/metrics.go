package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ediary", Name: "http_requests_total", Help: "Processed HTTP requests",
	}, []string{"route", "method", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ediary", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	HandlerErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ediary", Name: "handler_errors_total", Help: "Backend call failures shown to users",
	}, []string{"op"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ediary", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
	Uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ediary", Name: "uploads_total", Help: "Stored files by bucket",
	}, []string{"bucket"})
	InvitesClaimed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ediary", Name: "parent_invites_claimed_total", Help: "Parent invites converted into links",
	})
	PendingInvites = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ediary", Name: "parent_invites_pending", Help: "Unclaimed parent invites",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, HandlerErrors, DBPing, Uploads, InvitesClaimed, PendingInvites)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveRequest(route, method, status string, d time.Duration) {
	HTTPRequests.WithLabelValues(route, method, status).Inc()
	HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}
