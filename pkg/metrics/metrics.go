// Package metrics exposes Prometheus metrics of the device link.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robotalks/arduino.go/pkg/arduino"
	fx "github.com/robotalks/arduino.go/pkg/framework"
)

// Namespace of all metrics.
const Namespace = "arduino"

// Results of an exchange.
const (
	ResultOK      = "ok"
	ResultTimeout = "timeout"
	ResultError   = "error"
)

const (
	subsystem   = "exchange"
	verbLabel   = "verb"
	resultLabel = "result"
)

// Exchanges implements arduino.Observer.
type Exchanges struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewExchanges creates the collectors and registers them with reg.
func NewExchanges(reg prometheus.Registerer) *Exchanges {
	e := &Exchanges{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "total",
			Help:      "Command/reply exchanges by verb and result.",
		}, []string{verbLabel, resultLabel}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Round trip time of exchanges by verb.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}, []string{verbLabel}),
	}
	reg.MustRegister(e.total, e.duration)
	return e
}

// ObserveExchange implements arduino.Observer.
func (e *Exchanges) ObserveExchange(cmd string, elapsed time.Duration, err error) {
	verb := "?"
	if len(cmd) > 0 {
		verb = cmd[:1]
	}
	e.total.WithLabelValues(verb, Result(err)).Inc()
	if err == nil {
		e.duration.WithLabelValues(verb).Observe(elapsed.Seconds())
	}
}

// Result classifies an exchange error.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case arduino.IsTimeout(err):
		return ResultTimeout
	default:
		return ResultError
	}
}

// Server serves /metrics of a registry.
type Server struct {
	Addr     string
	Gatherer prometheus.Gatherer
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "metrics"
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler()}
	err := fx.RunWithContextCancel(ctx, func() { srv.Close() }, srv.ListenAndServe)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
