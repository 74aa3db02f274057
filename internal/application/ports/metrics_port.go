package ports

import "time"

// Metrics puerto de observabilidad del store. Implementado con Prometheus en infraestructura.
type Metrics interface {
	ObserveDispatch(action, outcome string, elapsed time.Duration)
	ObserveRateRefresh(provider, outcome string, accepted int)
	ConversionUnavailable(from, to string)
	RateRejected(code, reason string)
}

// NopMetrics descarta todo.
type NopMetrics struct{}

func (NopMetrics) ObserveDispatch(string, string, time.Duration) {}
func (NopMetrics) ObserveRateRefresh(string, string, int)        {}
func (NopMetrics) ConversionUnavailable(string, string)          {}
func (NopMetrics) RateRejected(string, string)                   {}
