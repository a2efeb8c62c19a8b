// Package metrics expone contadores Prometheus del kardex y de la API HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

var _ inventory.MovementObserver = (*Recorder)(nil)

// Recorder implementa inventory.MovementObserver y registra métricas HTTP.
type Recorder struct {
	movements      *prometheus.CounterVec
	movementUnits  *prometheus.CounterVec
	rejected       *prometheus.CounterVec
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewRecorder crea los colectores y los registra en reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		movements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_movements_total",
				Help: "Movimientos de kardex confirmados por tipo",
			},
			[]string{"kind"},
		),
		movementUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_movement_units_total",
				Help: "Unidades movidas por tipo de movimiento",
			},
			[]string{"kind"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_operations_rejected_total",
				Help: "Operaciones rechazadas por operación y código de error",
			},
			[]string{"operation", "code"},
		),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventario_http_requests_total",
				Help: "Peticiones HTTP por método, ruta y status",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventario_http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(r.movements, r.movementUnits, r.rejected, r.requestCounter, r.requestLatency)
	return r
}

// MovementApplied cuenta un movimiento y sus unidades.
func (r *Recorder) MovementApplied(kind entity.MovementKind, quantity int) {
	r.movements.WithLabelValues(string(kind)).Inc()
	r.movementUnits.WithLabelValues(string(kind)).Add(float64(quantity))
}

// OperationRejected cuenta el rechazo con el código de dominio del error.
func (r *Recorder) OperationRejected(operation string, err error) {
	r.rejected.WithLabelValues(operation, domain.Code(err)).Inc()
}

// ObserveRequest registra una petición HTTP terminada.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.requestCounter.WithLabelValues(method, route, statusLabel(status)).Inc()
	r.requestLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
