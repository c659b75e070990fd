package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// NewMetrics registers against the default registry, so it is called once
// for the whole test binary.
var testMetrics = NewMetrics("obstest")

func TestRecordersIncrement(t *testing.T) {
	m := testMetrics

	m.RecordSyncRun("success", 1.5)
	m.RecordRows("daily_quotas", 10, 3)
	m.RecordPeriodSkipped()
	m.RecordFullBuild()
	m.RecordSourceError("funds")
	m.RecordSourceError("funds")
	m.RecordSourceError("benchmark")
	m.RecordDBError("insert")
	m.RecordReportGenerated()
	m.MarkSyncSuccess(1700000000)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"sync_runs{success}", testutil.ToFloat64(m.SyncRunsTotal.WithLabelValues("success")), 1},
		{"rows_ingested{daily_quotas}", testutil.ToFloat64(m.RowsIngested.WithLabelValues("daily_quotas")), 10},
		{"rows_deleted{daily_quotas}", testutil.ToFloat64(m.RowsDeleted.WithLabelValues("daily_quotas")), 3},
		{"periods_skipped", testutil.ToFloat64(m.PeriodsSkipped), 1},
		{"full_builds", testutil.ToFloat64(m.FullBuildsTotal), 1},
		{"source_errors{funds}", testutil.ToFloat64(m.SourceRequestErrors.WithLabelValues("funds")), 2},
		{"source_errors{benchmark}", testutil.ToFloat64(m.SourceRequestErrors.WithLabelValues("benchmark")), 1},
		{"db_errors{insert}", testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("insert")), 1},
		{"reports_generated", testutil.ToFloat64(m.ReportsGenerated), 1},
		{"last_successful_sync", testutil.ToFloat64(m.LastSuccessfulSync), 1700000000},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics

	m.RecordSyncRun("failure", 0)
	m.RecordRows("daily_quotas", 1, 1)
	m.RecordPeriodSkipped()
	m.RecordFullBuild()
	m.RecordSourceError("funds")
	m.RecordDBError("insert")
	m.RecordReportGenerated()
	m.MarkSyncSuccess(0)
}
