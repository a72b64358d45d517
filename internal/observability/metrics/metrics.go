package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "asset_register_"

	resultSuccess = "success"
	resultError   = "error"

	ReportSourceDatabase = "database"
	ReportSourceSnapshot = "snapshot"
)

var (
	registerOnce sync.Once

	reportTotal   *prometheus.CounterVec
	reportLatency *prometheus.HistogramVec
	exportTotal   *prometheus.CounterVec
	exportBytes   *prometheus.HistogramVec
)

// Init registers report metrics with reg (prometheus.DefaultRegisterer when nil).
// Observations made before Init are dropped.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "station_reports_total",
				Help: "Station reports built, by input source and result",
			},
			[]string{"source", "result"},
		)
		reportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "station_report_latency_seconds",
				Help:    "Time to load and aggregate a station report",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_exports_total",
				Help: "Rendered station reports, by format and result",
			},
			[]string{"format", "result"},
		)
		exportBytes = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_bytes",
				Help:    "Size of rendered station reports",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
			[]string{"format"},
		)
		reg.MustRegister(reportTotal, reportLatency, exportTotal, exportBytes)
	})
}

// ObserveReport records one station report build.
func ObserveReport(source string, start time.Time, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if reportTotal != nil {
		reportTotal.WithLabelValues(source, result).Inc()
	}
	if reportLatency != nil && err == nil {
		reportLatency.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}
}

// ObserveExport records one rendered report of the given format ("html", "xlsx", "pdf").
func ObserveExport(format string, size int, err error) {
	if format == "" {
		format = "unknown"
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportBytes != nil && err == nil {
		exportBytes.WithLabelValues(format).Observe(float64(size))
	}
}
