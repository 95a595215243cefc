package services

import (
	"context"
	"log"

	"gigexecs-backend/internal/drafts"
)

// DependentWriteFailure describes a best-effort write that failed after its
// record was created. The record stands.
type DependentWriteFailure struct {
	Key      drafts.Key
	RecordID string
	Write    string
	Err      error
}

type FailureReporter interface {
	ReportDependentFailure(ctx context.Context, failure DependentWriteFailure)
}

type LogReporter struct {
	logger *log.Logger
}

func NewLogReporter(logger *log.Logger) *LogReporter {
	if logger == nil {
		logger = log.Default()
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) ReportDependentFailure(_ context.Context, f DependentWriteFailure) {
	r.logger.Printf("dependent write %q for record %s (%s) failed: %v", f.Write, f.RecordID, f.Key, f.Err)
}
