package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

type catalogRow struct {
	Code      string
	Name      string
	MinStock  int
	BaseCost  decimal.Decimal
	SalePrice decimal.Decimal
	Sizes     []string
}

// parseCatalog lee el CSV ya decodificado a UTF-8. La primera fila es encabezado.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	var rows []catalogRow
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 {
			continue
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (catalogRow, error) {
	row := catalogRow{Code: strings.TrimSpace(rec[0]), Name: strings.TrimSpace(rec[1])}
	if row.Code == "" || row.Name == "" {
		return row, fmt.Errorf("código y nombre requeridos")
	}
	minStock, err := strconv.Atoi(strings.TrimSpace(rec[2]))
	if err != nil || minStock < 0 {
		return row, fmt.Errorf("stock mínimo inválido %q", rec[2])
	}
	row.MinStock = minStock
	// El POS exporta decimales con coma.
	if row.BaseCost, err = decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", ".")); err != nil {
		return row, fmt.Errorf("costo inválido %q", rec[3])
	}
	if row.SalePrice, err = decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[4]), ",", ".")); err != nil {
		return row, fmt.Errorf("precio inválido %q", rec[4])
	}
	for _, s := range strings.Split(rec[5], "|") {
		if s = strings.TrimSpace(s); s != "" {
			row.Sizes = append(row.Sizes, s)
		}
	}
	return row, nil
}

// sizeKind numérica para calzado (25, 25.5), alfanumérica para ropa (CH, M, G).
func sizeKind(name string) string {
	if _, err := strconv.ParseFloat(name, 64); err == nil {
		return entity.SizeKindNumeric
	}
	return entity.SizeKindAlphanumeric
}

// writeSeedSQL escribe tallas y productos; devuelve cuántas tallas distintas se generaron.
func writeSeedSQL(out io.Writer, products []catalogRow) int {
	seen := make(map[string]struct{})
	var sizes []string
	for _, p := range products {
		for _, s := range p.Sizes {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				sizes = append(sizes, s)
			}
		}
	}
	sort.Strings(sizes)

	fmt.Fprintln(out, "-- Catálogo de productos y tallas")
	fmt.Fprintln(out, "-- Generado desde el CSV del punto de venta")
	fmt.Fprintln(out)

	if len(sizes) > 0 {
		fmt.Fprintln(out, "-- 1. Tallas")
		fmt.Fprintln(out, "INSERT INTO sizes (name, kind) VALUES")
		for i, s := range sizes {
			sep := ","
			if i == len(sizes)-1 {
				sep = ""
			}
			fmt.Fprintf(out, "  ('%s', '%s')%s\n", escapeSQL(s), sizeKind(s), sep)
		}
		fmt.Fprintln(out, "ON CONFLICT (name) DO NOTHING;")
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "-- 2. Productos")
	for _, p := range products {
		fmt.Fprintln(out, "INSERT INTO products (code, name, min_stock, base_cost, sale_price)")
		fmt.Fprintf(out, "VALUES ('%s', '%s', %d, %s, %s)\n",
			escapeSQL(p.Code), escapeSQL(p.Name), p.MinStock, p.BaseCost.StringFixed(2), p.SalePrice.StringFixed(2))
		fmt.Fprintln(out, "ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, min_stock = EXCLUDED.min_stock,")
		fmt.Fprintln(out, "  base_cost = EXCLUDED.base_cost, sale_price = EXCLUDED.sale_price, updated_at = now();")
	}
	return len(sizes)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
