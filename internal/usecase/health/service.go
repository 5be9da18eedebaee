// Package health aggregates dependency liveness for the health endpoint.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	db    DBPinger
	index IndexPinger
}

// New creates a Service. Either dependency can be nil and is then not checked;
// the CLI runs without a chat store.
func New(db DBPinger, index IndexPinger) *Service {
	return &Service{db: db, index: index}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.db != nil {
		checks["database"] = toResult(s.db.Ping(ctx))
	}
	if s.index != nil {
		checks["vector_index"] = toResult(s.index.Ping(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func toResult(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
