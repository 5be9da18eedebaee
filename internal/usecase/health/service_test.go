package health

import (
	"context"
	"errors"
	"testing"
)

type pinger struct{ err error }

func (p pinger) Ping(_ context.Context) error { return p.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(pinger{}, pinger{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status = %s", report.Status)
	}
	if report.Checks["database"] != CheckOK || report.Checks["vector_index"] != CheckOK {
		t.Errorf("checks = %v", report.Checks)
	}
}

func TestCheck_DegradedOnAnyFailure(t *testing.T) {
	svc := New(pinger{err: errors.New("down")}, pinger{})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status = %s", report.Status)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("checks = %v", report.Checks)
	}
	if report.Checks["vector_index"] != CheckOK {
		t.Errorf("index check must still run: %v", report.Checks)
	}
}

func TestCheck_NilDependenciesSkipped(t *testing.T) {
	svc := New(nil, pinger{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status = %s", report.Status)
	}
	if _, ok := report.Checks["database"]; ok {
		t.Error("nil db must not be checked")
	}
}
