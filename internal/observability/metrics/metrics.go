package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module provides the prometheus instruments.
var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)

// Metrics exposes application-level prometheus instruments.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	billingRuns   *prometheus.CounterVec
	billingItems  *prometheus.CounterVec
	paymentsTotal prometheus.Counter
}

func New() (*Metrics, error) {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waterworks_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "waterworks_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		billingRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waterworks_billing_runs_total",
			Help: "Billing generation runs by outcome.",
		}, []string{"outcome"}),
		billingItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waterworks_billing_items_total",
			Help: "Per-client billing outcomes across generation runs.",
		}, []string{"outcome"}),
		paymentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waterworks_payments_total",
			Help: "Recorded treasury payments.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequests, m.httpDuration, m.billingRuns, m.billingItems, m.paymentsTotal,
	} {
		if err := prometheus.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}

	return m, nil
}

// RecordBillingRun counts a whole generation run ("completed" or "failed").
func (m *Metrics) RecordBillingRun(outcome string) {
	if m == nil {
		return
	}
	m.billingRuns.WithLabelValues(strings.TrimSpace(outcome)).Inc()
}

// RecordBillingItems adds per-client outcome counts from one run.
func (m *Metrics) RecordBillingItems(generated, skipped, failed int) {
	if m == nil {
		return
	}
	m.billingItems.WithLabelValues("generated").Add(float64(generated))
	m.billingItems.WithLabelValues("skipped").Add(float64(skipped))
	m.billingItems.WithLabelValues("failed").Add(float64(failed))
}

// RecordPayment counts a recorded payment.
func (m *Metrics) RecordPayment() {
	if m == nil {
		return
	}
	m.paymentsTotal.Inc()
}

// GinMiddleware instruments inbound HTTP requests.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
