package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/exchange"
)

// Observer recibe los eventos que las transiciones resuelven localmente (para log y métricas).
// Nunca influye en el estado calculado.
type Observer interface {
	ConversionUnavailable(from, to string)
	RateRejected(r exchange.Rejection)
}

// Deps todo lo que una transición necesita además de su propio estado.
// Refs es la instantánea (solo lectura) de los demás dominios.
type Deps struct {
	DefaultCurrency  string
	Enabled          []string
	HistoryLimit     int
	RateHistoryLimit int
	RateMinInterval  time.Duration
	Units            costing.UnitTable
	// LabourOverride reemplaza el costo de mano de obra derivado de la empresa.
	LabourOverride *costing.Labour
	Refs           entity.State
	Now            func() time.Time
	NewID          func() string
	Observer       Observer
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

func (d Deps) newID() string {
	if d.NewID != nil {
		return d.NewID()
	}
	return uuid.New().String()
}

func (d Deps) limit() int {
	if d.HistoryLimit <= 0 {
		return entity.DefaultHistoryLimit
	}
	return d.HistoryLimit
}

// Converter conversor sobre el libro de tasas de Refs.
func (d Deps) Converter() *exchange.Converter {
	conv := exchange.NewConverter(d.Refs.Currencies, d.DefaultCurrency)
	if d.Observer != nil {
		conv = conv.WithUnavailableHook(d.Observer.ConversionUnavailable)
	}
	return conv
}

// Env entorno de cálculo de costos.
func (d Deps) Env() costing.Env {
	return costing.Env{Converter: d.Converter(), Units: d.Units, HistoryLimit: d.limit()}
}

// Labour costo de mano de obra vigente.
func (d Deps) Labour() costing.Labour {
	if d.LabourOverride != nil {
		return *d.LabourOverride
	}
	return costing.LabourFromTotals(d.Refs.Company.Totals)
}

// LedgerConfig parámetros del libro de tasas.
func (d Deps) LedgerConfig() exchange.LedgerConfig {
	return exchange.LedgerConfig{
		DefaultCurrency: d.DefaultCurrency,
		Enabled:         d.Enabled,
		HistoryLimit:    d.RateHistoryLimit,
		MinInterval:     d.RateMinInterval,
	}
}

// WithLedger copia de d cuyo conversor usa ledger (para encadenar recálculos tras un cambio de tasas).
func (d Deps) WithLedger(ledger entity.RateLedger) Deps {
	d.Refs.Currencies = ledger
	return d
}
