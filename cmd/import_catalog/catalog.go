package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
)

// Columnas reconocidas del CSV exportado por el sistema anterior. codigo y nombre son obligatorias.
const (
	colCode        = "codigo"
	colName        = "nombre"
	colDescription = "descripcion"
	colCost        = "costo"
	colPrice       = "precio"
	colMinStock    = "stock_minimo"
	colStock       = "stock_inicial"
)

// catalogRow producto leído con su número de línea en el archivo.
type catalogRow struct {
	Line  int
	Input inventory.ProductInput
}

// readCatalog lee el CSV con encabezado. latin1 decodifica ISO-8859-1 (exportaciones de Excel en Windows).
func readCatalog(r io.Reader, delimiter rune, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true // medidas en pulgadas: Clavo 2"
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{colCode, colName} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}

	var rows []catalogRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		if field(colCode) == "" && field(colName) == "" {
			continue
		}
		in := inventory.ProductInput{
			Code:        field(colCode),
			Name:        field(colName),
			Description: field(colDescription),
		}
		numbers := []struct {
			col string
			dst *decimal.Decimal
		}{
			{colCost, &in.CostPrice},
			{colPrice, &in.SalePrice},
			{colMinStock, &in.MinStock},
			{colStock, &in.InitialStock},
		}
		for _, n := range numbers {
			v, err := parseAmount(field(n.col))
			if err != nil {
				return nil, fmt.Errorf("línea %d, columna %s: %w", line, n.col, err)
			}
			*n.dst = v
		}
		rows = append(rows, catalogRow{Line: line, Input: in})
	}
	return rows, nil
}

// parseAmount acepta "1234.5", "1234,5" y "1.234,50". Vacío es cero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}
