// Package units carga tablas de unidades adicionales desde YAML.
//
// Formato:
//
//	units:
//	  bbl: {base: L, ratio: "158.987294928"}
//	  qq:  {base: kg, ratio: "46"}
package units

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/Costeo-api/internal/domain/costing"
)

type unitFile struct {
	Units map[string]unitEntry `yaml:"units"`
}

// ratio como texto para no perder precisión por float64.
type unitEntry struct {
	Base  string `yaml:"base"`
	Ratio string `yaml:"ratio"`
}

var bases = map[string]bool{costing.BaseWeight: true, costing.BaseVolume: true, costing.BaseCount: true}

// Parse decodifica un documento YAML de unidades.
func Parse(data []byte) (costing.UnitTable, error) {
	var f unitFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decodificar unidades: %w", err)
	}
	table := make(costing.UnitTable, len(f.Units))
	for symbol, e := range f.Units {
		if !bases[e.Base] {
			return nil, fmt.Errorf("unidad %s: base %q no soportada", symbol, e.Base)
		}
		ratio, err := decimal.NewFromString(e.Ratio)
		if err != nil {
			return nil, fmt.Errorf("unidad %s: ratio %q: %w", symbol, e.Ratio, err)
		}
		if !ratio.IsPositive() {
			return nil, fmt.Errorf("unidad %s: ratio debe ser mayor que cero", symbol)
		}
		table[symbol] = costing.Unit{Base: e.Base, Ratio: ratio}
	}
	return table, nil
}

// Load devuelve la tabla incorporada combinada con el archivo path. path vacío = solo la incorporada.
func Load(path string) (costing.UnitTable, error) {
	builtin := costing.DefaultUnits()
	if path == "" {
		return builtin, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", path, err)
	}
	extra, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return builtin.Merge(extra), nil
}
