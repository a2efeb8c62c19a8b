package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-inventario/pkg/logger"
)

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "warn")

	l.Info().Msg("oculto")
	assert.Zero(t, buf.Len())

	l.Component("inventory").Warn().Int64("stock_entry_id", 7).Msg("visible")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "inventory", line["component"])
	assert.Equal(t, float64(7), line["stock_entry_id"])
	assert.Equal(t, "visible", line["message"])
}

func TestNewNop(t *testing.T) {
	l := logger.NewNop()
	assert.NotPanics(t, func() { l.Error().Msg("nada") })
}
