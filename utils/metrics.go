package utils

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const metricPrefix = "eplus_sqlresult_"

// Metrics counts the queries run against result databases.
type Metrics struct {
	Queries       *prometheus.CounterVec
	QueryErrors   *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	RowsRead      *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "queries_total",
			Help: "Queries run against result databases",
		}, []string{"query"}),
		QueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "query_errors_total",
			Help: "Queries that failed",
		}, []string{"query"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricPrefix + "query_duration_seconds",
			Help:    "Query time including opening and closing the connection",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "rows_read_total",
			Help: "Rows read from result databases",
		}, []string{"query"}),
	}
	if reg != nil {
		reg.MustRegister(m.Queries, m.QueryErrors, m.QueryDuration, m.RowsRead)
	}
	return m
}

// Observe records one query. It is safe to call on a nil *Metrics.
func (m *Metrics) Observe(query string, started time.Time, rows int, err error) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(query).Inc()
	m.QueryDuration.WithLabelValues(query).Observe(time.Since(started).Seconds())
	if err != nil {
		m.QueryErrors.WithLabelValues(query).Inc()
		return
	}
	m.RowsRead.WithLabelValues(query).Add(float64(rows))
}

// LogSummary logs every counter and histogram gathered from g at debug level.
func LogSummary(g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		log.Warn("cannot gather metrics: ", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := log.Fields{"metric": mf.GetName()}
			for _, l := range m.GetLabel() {
				fields[l.GetName()] = l.GetValue()
			}
			if c := m.GetCounter(); c != nil {
				fields["value"] = c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				fields["count"] = h.GetSampleCount()
				fields["seconds"] = h.GetSampleSum()
			}
			log.WithFields(fields).Debug("query metrics")
		}
	}
}
