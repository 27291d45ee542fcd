package observability

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	rowsIngested prometheus.Counter
	forecasts    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "funnel_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "funnel_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rowsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "funnel_ingested_rows_total",
			Help: "Opportunity rows parsed from uploaded spreadsheets.",
		}),
		forecasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "funnel_forecasts_total",
			Help: "Forecasts computed by data source.",
		}, []string{"source"}),
	}
	reg.MustRegister(m.requests, m.duration, m.rowsIngested, m.forecasts)
	return m
}

func (m *Metrics) ObserveIngest(rows int) {
	if m == nil {
		return
	}
	m.rowsIngested.Add(float64(rows))
}

func (m *Metrics) ObserveForecast(source string) {
	if m == nil {
		return
	}
	m.forecasts.WithLabelValues(source).Inc()
}

func (m *Metrics) observeRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, status).Inc()
	m.duration.WithLabelValues(method, route).Observe(seconds)
}

// Handler exposes the gathered metrics in the Prometheus text format.
func Handler(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
