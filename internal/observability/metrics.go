package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — счетчики и гистограммы циклов инжеста
type Metrics struct {
	CyclesTotal       *prometheus.CounterVec
	RecordsTotal      *prometheus.CounterVec
	SkippedTotal      *prometheus.CounterVec
	CycleDuration     *prometheus.HistogramVec
	LastSuccessSecond *prometheus.GaugeVec
	ActiveIncidents   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "traffic",
			Subsystem: "ingest",
			Name:      "cycles_total",
			Help:      "Ingest cycles by source and outcome.",
		}, []string{"source", "outcome"}),
		RecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "traffic",
			Subsystem: "ingest",
			Name:      "records_total",
			Help:      "Reconciled records by source and operation.",
		}, []string{"source", "op"}),
		SkippedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "traffic",
			Subsystem: "ingest",
			Name:      "skipped_records_total",
			Help:      "Records dropped during normalization.",
		}, []string{"source"}),
		CycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "traffic",
			Subsystem: "ingest",
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of a full ingest cycle.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		LastSuccessSecond: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "traffic",
			Subsystem: "ingest",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful cycle.",
		}, []string{"source"}),
		ActiveIncidents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "traffic",
			Name:      "active_incidents",
			Help:      "Incidents currently marked active.",
		}),
	}

	reg.MustRegister(
		m.CyclesTotal,
		m.RecordsTotal,
		m.SkippedTotal,
		m.CycleDuration,
		m.LastSuccessSecond,
		m.ActiveIncidents,
	)
	return m
}

// ObserveCycle фиксирует итог одного цикла инжеста
func (m *Metrics) ObserveCycle(source, outcome string, duration time.Duration) {
	m.CyclesTotal.WithLabelValues(source, outcome).Inc()
	m.CycleDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *Metrics) ObserveRecords(source string, inserted, updated, closed, skipped int) {
	m.RecordsTotal.WithLabelValues(source, "insert").Add(float64(inserted))
	m.RecordsTotal.WithLabelValues(source, "update").Add(float64(updated))
	m.RecordsTotal.WithLabelValues(source, "close").Add(float64(closed))
	m.SkippedTotal.WithLabelValues(source).Add(float64(skipped))
}

func (m *Metrics) MarkSuccess(source string, at time.Time) {
	m.LastSuccessSecond.WithLabelValues(source).Set(float64(at.Unix()))
}

func (m *Metrics) SetActiveIncidents(count int) {
	m.ActiveIncidents.Set(float64(count))
}
