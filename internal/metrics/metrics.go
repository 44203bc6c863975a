package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
)

const namespace = "merchpay"

// Registry owns the service collectors and exposes them for scraping.
type Registry struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	durations     *prometheus.HistogramVec
	operations    *prometheus.CounterVec
	pointsIssued  prometheus.Counter
	pointsSpent   prometheus.Counter
	compensations *prometheus.CounterVec
}

// New registers the service collectors on a private registry.
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Ledger operations by outcome.",
		}, []string{"operation", "result"}),
		pointsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_issued_total",
			Help:      "Loyalty points credited to customers.",
		}),
		pointsSpent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_redeemed_total",
			Help:      "Loyalty points debited by redemptions.",
		}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensations_total",
			Help:      "Reverse transfers by outcome.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(
		r.requests, r.durations, r.operations, r.pointsIssued, r.pointsSpent, r.compensations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRequest records a served HTTP request.
func (r *Registry) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	r.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.durations.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveOperation records the outcome of a ledger operation.
func (r *Registry) ObserveOperation(operation string, err error) {
	r.operations.WithLabelValues(operation, resultLabel(err)).Inc()
}

// AddPointsIssued adds to the issued points counter.
func (r *Registry) AddPointsIssued(points uint32) {
	r.pointsIssued.Add(float64(points))
}

// AddPointsRedeemed adds to the redeemed points counter.
func (r *Registry) AddPointsRedeemed(points uint32) {
	r.pointsSpent.Add(float64(points))
}

// ObserveCompensation records a compensation outcome.
func (r *Registry) ObserveCompensation(result string) {
	r.compensations.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

var resultLabels = []struct {
	err   error
	label string
}{
	{domainErrors.ErrUnauthorized, "unauthorized"},
	{domainErrors.ErrNotRegistered, "not_registered"},
	{domainErrors.ErrAlreadyRegistered, "already_registered"},
	{domainErrors.ErrInvalidRate, "invalid_rate"},
	{domainErrors.ErrInvalidWallet, "invalid_wallet"},
	{domainErrors.ErrNoPointsFound, "no_points"},
	{domainErrors.ErrInsufficientPoints, "insufficient_points"},
	{domainErrors.ErrZeroReward, "zero_reward"},
	{domainErrors.ErrTransferRejected, "transfer_rejected"},
	{domainErrors.ErrArithmeticOverflow, "overflow"},
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	for _, rl := range resultLabels {
		if errors.Is(err, rl.err) {
			return rl.label
		}
	}
	return "error"
}
