package ports

import "github.com/aalvaropc/ordercompat/internal/domain"

// ReportStore persists probe runs and regression reports.
type ReportStore interface {
	SaveProbeRun(run domain.ProbeRun) (id string, err error)
	SaveSuiteReport(rep domain.SuiteReport) (id string, err error)
}
