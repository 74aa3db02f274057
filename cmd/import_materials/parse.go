package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/state"
)

// Row fila del CSV ya convertida en entrada de ADD_MATERIAL. Err != nil si la fila no es válida.
type Row struct {
	Line  int
	Input state.MaterialInput
	Err   error
}

const minColumns = 6

// ParseMaterials lee el CSV (ya en UTF-8). La primera fila es encabezado.
// Los decimales aceptan coma o punto ("1.234,50" y "1234.50").
func ParseMaterials(r io.Reader, sep rune) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []Row
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 || blank(rec) {
			continue
		}
		rows = append(rows, parseRow(line, rec))
	}
	return rows, nil
}

func parseRow(line int, rec []string) Row {
	row := Row{Line: line}
	if len(rec) < minColumns {
		row.Err = fmt.Errorf("se esperaban al menos %d columnas, hay %d", minColumns, len(rec))
		return row
	}
	price, err := parseNumber(rec[2])
	if err != nil {
		row.Err = fmt.Errorf("precio: %w", err)
		return row
	}
	tax, err := parseNumber(rec[3])
	if err != nil {
		row.Err = fmt.Errorf("iva: %w", err)
		return row
	}
	density := decimal.Zero
	if len(rec) > 6 && strings.TrimSpace(rec[6]) != "" {
		if density, err = parseNumber(rec[6]); err != nil {
			row.Err = fmt.Errorf("densidad: %w", err)
			return row
		}
	}
	row.Input = state.MaterialInput{
		Name:     strings.TrimSpace(rec[0]),
		Provider: strings.TrimSpace(rec[1]),
		Price:    price,
		Tax:      tax,
		Currency: strings.ToUpper(strings.TrimSpace(rec[4])),
		Unit:     strings.TrimSpace(rec[5]),
		Density:  density,
	}
	return row
}

// parseNumber acepta formato latino (1.234,5) y anglosajón (1234.5). Vacío = 0.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
