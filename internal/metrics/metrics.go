package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes.
const (
	RefreshSucceeded = "refreshed"
	RefreshFailed    = "failed"
	RefreshNoToken   = "no_refresh_token"
)

// Client holds the collectors used by the API client and session store.
type Client struct {
	Requests  *prometheus.CounterVec
	Latency   *prometheus.HistogramVec
	Refreshes *prometheus.CounterVec
	Replays   prometheus.Counter
	Teardowns *prometheus.CounterVec
}

// New registers the client collectors on reg. A nil reg creates an
// unregistered set, which is what tests use.
func New(reg prometheus.Registerer) *Client {
	f := promauto.With(reg)
	return &Client{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "events_client_requests_total", Help: "Backend requests by method and status class",
		}, []string{"method", "status"}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "events_client_request_seconds",
			Help:    "Backend request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "events_client_refresh_total", Help: "Token refresh attempts by outcome",
		}, []string{"outcome"}),
		Replays: f.NewCounter(prometheus.CounterOpts{
			Name: "events_client_replays_total", Help: "Requests replayed after a refresh",
		}),
		Teardowns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "events_client_session_teardowns_total", Help: "Session teardowns by reason",
		}, []string{"reason"}),
	}
}

// StatusClass buckets an HTTP status into 2xx, 4xx and so on. Zero means a transport error.
func StatusClass(status int) string {
	switch {
	case status == 0:
		return "error"
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
