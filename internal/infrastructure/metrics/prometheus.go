package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
)

var _ ports.Metrics = (*Collector)(nil)

// Collector métricas Prometheus del motor de costos.
type Collector struct {
	registry *prometheus.Registry

	dispatches     *prometheus.CounterVec
	dispatchTime   *prometheus.HistogramVec
	rateRefreshes  *prometheus.CounterVec
	ratesAccepted  *prometheus.CounterVec
	rateRejections *prometheus.CounterVec
	unavailable    *prometheus.CounterVec
}

// NewCollector crea y registra las métricas en un registro propio.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costeo_dispatch_total",
				Help: "Acciones despachadas por tipo y resultado",
			},
			[]string{"action", "outcome"},
		),
		dispatchTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "costeo_dispatch_duration_seconds",
				Help:    "Duración del despacho incluida la cascada de recálculos",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"action"},
		),
		rateRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costeo_rate_refresh_total",
				Help: "Actualizaciones remotas de tasas por proveedor y resultado",
			},
			[]string{"provider", "outcome"},
		),
		ratesAccepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costeo_rates_accepted_total",
				Help: "Cotizaciones aceptadas por el libro de tasas",
			},
			[]string{"provider"},
		),
		rateRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costeo_rate_rejections_total",
				Help: "Cotizaciones descartadas por moneda y motivo",
			},
			[]string{"currency", "reason"},
		),
		unavailable: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costeo_conversion_unavailable_total",
				Help: "Conversiones sin tasa disponible",
			},
			[]string{"from", "to"},
		),
	}
	c.registry.MustRegister(
		c.dispatches,
		c.dispatchTime,
		c.rateRefreshes,
		c.ratesAccepted,
		c.rateRejections,
		c.unavailable,
		collectors.NewGoCollector(),
	)
	return c
}

// Registry registro a exponer en /metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) ObserveDispatch(action, outcome string, elapsed time.Duration) {
	c.dispatches.WithLabelValues(action, outcome).Inc()
	c.dispatchTime.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveRateRefresh(provider, outcome string, accepted int) {
	c.rateRefreshes.WithLabelValues(provider, outcome).Inc()
	if accepted > 0 {
		c.ratesAccepted.WithLabelValues(provider).Add(float64(accepted))
	}
}

func (c *Collector) ConversionUnavailable(from, to string) {
	c.unavailable.WithLabelValues(from, to).Inc()
}

func (c *Collector) RateRejected(code, reason string) {
	c.rateRejections.WithLabelValues(code, reason).Inc()
}
