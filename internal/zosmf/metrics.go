package zosmf

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the request instruments shared by every instrumented executor.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the z/OSMF request instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zosmf_requests_total",
			Help: "z/OSMF REST requests by method and outcome.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zosmf_request_duration_seconds",
			Help:    "z/OSMF REST request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

type instrumentedExecutor struct {
	next    Executor
	metrics *Metrics
}

// Instrument wraps next so every call is counted and timed.
func Instrument(next Executor, m *Metrics) Executor {
	return &instrumentedExecutor{next: next, metrics: m}
}

func (e *instrumentedExecutor) Execute(ctx context.Context, req *Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = "GET"
	}

	start := time.Now()
	resp, err := e.next.Execute(ctx, req)
	e.metrics.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	e.metrics.requests.WithLabelValues(method, outcomeCode(resp, err)).Inc()
	return resp, err
}

func outcomeCode(resp *Response, err error) string {
	var te *TransportError
	switch {
	case errors.As(err, &te) && te.StatusCode != 0:
		return strconv.Itoa(te.StatusCode)
	case err != nil:
		return "error"
	case resp != nil:
		return strconv.Itoa(resp.StatusCode)
	default:
		return "unknown"
	}
}
