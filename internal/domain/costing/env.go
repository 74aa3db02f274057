// Package costing agrega costos Material → Receta → Empaque → Producto final.
// Las funciones son puras: reciben todo lo que necesitan por parámetro.
package costing

import (
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/exchange"
)

// Env dependencias de cálculo.
type Env struct {
	Converter    *exchange.Converter
	Units        UnitTable
	HistoryLimit int
}

func (e Env) limit() int {
	if e.HistoryLimit <= 0 {
		return entity.DefaultHistoryLimit
	}
	return e.HistoryLimit
}

func (e Env) units() UnitTable {
	if e.Units == nil {
		return DefaultUnits()
	}
	return e.Units
}
