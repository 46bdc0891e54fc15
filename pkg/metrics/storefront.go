package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart and order activity.
type StorefrontMetrics struct {
	cartOps       *prometheus.CounterVec
	ordersCreated prometheus.Counter
	orderDuration prometheus.Histogram
	httpDuration  *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation and outcome.",
	}, []string{"operation", "outcome"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully assembled from carts.",
	})
	orderDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_assembly_duration_seconds",
		Help:    "Duration of the order assembly transaction.",
		Buckets: prometheus.DefBuckets,
	})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route, method and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
	reg.MustRegister(cartOps, ordersCreated, orderDuration, httpDuration)
	return &StorefrontMetrics{
		cartOps:       cartOps,
		ordersCreated: ordersCreated,
		orderDuration: orderDuration,
		httpDuration:  httpDuration,
	}
}

// ObserveCartOp increments the counter for the named cart operation.
func (m *StorefrontMetrics) ObserveCartOp(operation string, err error) {
	if m == nil || m.cartOps == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.cartOps.WithLabelValues(normalizeLabel(operation), outcome).Inc()
}

// ObserveOrderCreated records a successful order assembly and its duration.
func (m *StorefrontMetrics) ObserveOrderCreated(duration time.Duration) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
	m.orderDuration.Observe(duration.Seconds())
}

// ObserveHTTPRequest records one served request.
func (m *StorefrontMetrics) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	m.httpDuration.
		WithLabelValues(normalizeLabel(route), method, strconv.Itoa(status)).
		Observe(duration.Seconds())
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
