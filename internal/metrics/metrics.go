package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Requests       *prometheus.CounterVec
	LatencyMS      *prometheus.HistogramVec
	OrdersCreated  prometheus.Counter
	PaymentResults *prometheus.CounterVec
	CacheLookups   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopapi",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"path", "method", "status"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shopapi",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"path"})

	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shopapi",
		Name:      "orders_created_total",
		Help:      "Orders created from carts.",
	})

	paymentResults := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopapi",
		Name:      "payment_confirmations_total",
		Help:      "Payment confirmations by final order status.",
	}, []string{"status"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopapi",
		Name:      "cache_lookups_total",
		Help:      "Catalog cache lookups by result.",
	}, []string{"namespace", "result"})

	reg.MustRegister(requests, latency, ordersCreated, paymentResults, cacheLookups)

	return &Metrics{
		Requests:       requests,
		LatencyMS:      latency,
		OrdersCreated:  ordersCreated,
		PaymentResults: paymentResults,
		CacheLookups:   cacheLookups,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
