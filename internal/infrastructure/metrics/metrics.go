// Package metrics agrupa los contadores Prometheus de la capa de consistencia.
// Un *Metrics nil es válido: todos los métodos son no-op (útil en tests).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "anbar"

// Metrics contadores por colección, operación y resultado.
type Metrics struct {
	storeOps       *prometheus.CounterVec
	droppedRecords *prometheus.CounterVec
	ledger         *prometheus.CounterVec
	importRows     *prometheus.CounterVec
}

// New registra los contadores en reg (prometheus.DefaultRegisterer en producción,
// prometheus.NewRegistry() en tests).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Cargas y guardados de colecciones por resultado.",
		}, []string{"kind", "op", "result"}),
		droppedRecords: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_dropped_records_total",
			Help:      "Registros inválidos descartados al cargar.",
		}, []string{"kind"}),
		ledger: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_transactions_total",
			Help:      "Movimientos de stock aplicados o rechazados.",
		}, []string{"type", "result"}),
		importRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Filas de importación por clasificación.",
		}, []string{"class"}),
	}
}

// StoreOp registra una carga o guardado.
func (m *Metrics) StoreOp(kind, op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOps.WithLabelValues(kind, op, result).Inc()
}

// Dropped registra n registros descartados en la carga.
func (m *Metrics) Dropped(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.droppedRecords.WithLabelValues(kind).Add(float64(n))
}

// Ledger registra un movimiento; result es "applied" o el motivo del rechazo.
func (m *Metrics) Ledger(txType, result string) {
	if m == nil {
		return
	}
	m.ledger.WithLabelValues(txType, result).Inc()
}

// ImportRows registra n filas de una clase (imported, duplicate, malformed).
func (m *Metrics) ImportRows(class string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.importRows.WithLabelValues(class).Add(float64(n))
}
