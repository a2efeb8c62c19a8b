package metrics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/metrics"
)

func TestRecorder_MovementApplied(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.MovementApplied(entity.MovementKindSaleDebit, 3)
	r.MovementApplied(entity.MovementKindSaleDebit, 2)
	r.MovementApplied(entity.MovementKindEntry, 10)

	assert.Equal(t, 4, testutil.CollectAndCount(reg, "inventario_movements_total", "inventario_movement_units_total"))
	mfs, err := reg.Gather()
	assert.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			values[mf.GetName()+"/"+m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, values["inventario_movements_total/SALE_DEBIT"])
	assert.Equal(t, 5.0, values["inventario_movement_units_total/SALE_DEBIT"])
	assert.Equal(t, 10.0, values["inventario_movement_units_total/ENTRY"])
}

func TestRecorder_OperationRejected(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.OperationRejected("transfer", fmt.Errorf("x: %w", domain.ErrInsufficientStock))
	r.OperationRejected("transfer", domain.ErrInsufficientStock)
	r.OperationRejected("sale", domain.ErrInvalidQuantity)

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "inventario_operations_rejected_total"))
}

func TestRecorder_ObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.ObserveRequest("POST", "/api/sales", 201, 15*time.Millisecond)
	r.ObserveRequest("POST", "/api/sales", 409, 5*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "inventario_http_requests_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "inventario_http_request_duration_seconds"))
}
