package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBeforeInit_NoPanic(t *testing.T) {
	if reportTotal != nil {
		t.Skip("metrics already registered")
	}
	assert.NotPanics(t, func() {
		ObserveReport(ReportSourceDatabase, time.Now(), nil)
		ObserveExport("pdf", 10, nil)
	})
}

func TestObserveReport_CountsByResult(t *testing.T) {
	Init(prometheus.NewRegistry())

	before := testutil.ToFloat64(reportTotal.WithLabelValues(ReportSourceSnapshot, resultSuccess))
	ObserveReport(ReportSourceSnapshot, time.Now(), nil)
	ObserveReport(ReportSourceSnapshot, time.Now(), errors.New("boom"))

	assert.Equal(t, before+1, testutil.ToFloat64(reportTotal.WithLabelValues(ReportSourceSnapshot, resultSuccess)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(reportTotal.WithLabelValues(ReportSourceSnapshot, resultError)), 1.0)
}

func TestObserveExport_UnknownFormat(t *testing.T) {
	Init(prometheus.NewRegistry())

	before := testutil.ToFloat64(exportTotal.WithLabelValues("unknown", resultSuccess))
	ObserveExport("", 2048, nil)
	assert.Equal(t, before+1, testutil.ToFloat64(exportTotal.WithLabelValues("unknown", resultSuccess)))
}
