package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint es una entrada de historial {fecha, monto} (precios de materiales, costo de productos finales).
type PricePoint struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// DefaultHistoryLimit es el tope por defecto de cualquier historial acotado.
const DefaultHistoryLimit = 10
