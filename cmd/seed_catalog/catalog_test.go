package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const sampleCSV = `codigo;nombre;stock_minimo;costo;precio;tallas
TEN-001;Tenis running;6;650,00;1299,00;25|25.5|26
PLY-200;Playera básica d'algodón;10;90;249,50;CH|M|G
`

func TestParseCatalog(t *testing.T) {
	rows, err := parseCatalog(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "TEN-001", rows[0].Code)
	assert.Equal(t, 6, rows[0].MinStock)
	assert.Equal(t, "1299", rows[0].SalePrice.String())
	assert.Equal(t, []string{"25", "25.5", "26"}, rows[0].Sizes)
	assert.Equal(t, "249.5", rows[1].SalePrice.String())
}

func TestParseCatalog_Windows1252(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("codigo;nombre;stock_minimo;costo;precio;tallas\nBOT-010;Botín piel;4;900;1890;26\n")
	require.NoError(t, err)

	rows, err := parseCatalog(transform.NewReader(strings.NewReader(encoded), charmap.Windows1252.NewDecoder()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Botín piel", rows[0].Name)
}

func TestParseCatalog_StockMinimoInvalido(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("h;h;h;h;h;h\nX;Y;-1;1;1;\n"))
	assert.ErrorContains(t, err, "línea 2")
}

func TestWriteSeedSQL(t *testing.T) {
	rows, err := parseCatalog(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	n := writeSeedSQL(&buf, rows)
	sql := buf.String()

	assert.Equal(t, 6, n)
	assert.Contains(t, sql, "('25.5', 'numeric')")
	assert.Contains(t, sql, "('CH', 'alphanumeric')")
	assert.Contains(t, sql, "d''algodón", "las comillas simples se escapan")
	assert.Contains(t, sql, "VALUES ('TEN-001', 'Tenis running', 6, 650.00, 1299.00)")
}
