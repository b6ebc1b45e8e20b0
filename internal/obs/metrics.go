package obs

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce sync.Once

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	listCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "list_cache_lookups_total",
			Help: "Listing page cache lookups by resource and result (hit|miss).",
		},
		[]string{"resource", "result"},
	)

	authzDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_decisions_total",
			Help: "Policy evaluations by policy and outcome.",
		},
		[]string{"policy", "outcome"},
	)
)

// Init registers the collectors with the default registry. Safe to call repeatedly.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration, listCacheLookups, authzDecisions)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records RPS, latency and in-flight requests per matched route. It must run
// outside Recovery so the status of a recovered panic is the one recorded.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpInFlight.Inc()
		start := time.Now()
		defer func() {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(c.Writer.Status())
			httpRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
			httpInFlight.Dec()
		}()

		c.Next()
	}
}

func CacheLookup(resource string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	listCacheLookups.WithLabelValues(resource, result).Inc()
}

func AuthzDecision(policy string, allowed bool) {
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	authzDecisions.WithLabelValues(policy, outcome).Inc()
}
