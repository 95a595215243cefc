package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gigexecs-backend/internal/drafts"

	"golang.org/x/sync/singleflight"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseResolving  Phase = "resolving"
	PhaseDeriving   Phase = "deriving"
	PhasePersisting Phase = "persisting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// FollowUp is a best-effort write that runs after the primary record exists.
// Its failure is reported but never undoes or fails the submission.
type FollowUp struct {
	Name string
	Run  func(ctx context.Context) error
}

// Submission turns one wizard's draft into a persisted record. The
// coordinator calls the methods in order and stops at the first error.
type Submission interface {
	Validate(draft *drafts.Draft) error
	Resolve(ctx context.Context) error
	Derive() error
	Persist(ctx context.Context) (string, error)
	FollowUps() []FollowUp
}

type SubmissionResult struct {
	RecordID string `json:"record_id"`
	Redirect string `json:"redirect"`
	Phase    Phase  `json:"phase"`
}

// SubmissionFailure tells the caller where a submission stopped. The draft is
// untouched whenever this is returned.
type SubmissionFailure struct {
	Phase Phase
	Err   error
}

func (e *SubmissionFailure) Error() string {
	return fmt.Sprintf("submission failed while %s: %v", e.Phase, e.Err)
}

func (e *SubmissionFailure) Unwrap() error {
	return e.Err
}

// Coordinator runs submissions against the draft store.
type Coordinator struct {
	store    drafts.Store
	reporter FailureReporter
	logger   *log.Logger
	inflight singleflight.Group
}

func NewCoordinator(store drafts.Store, reporter FailureReporter, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	if reporter == nil {
		reporter = NewLogReporter(logger)
	}
	return &Coordinator{store: store, reporter: reporter, logger: logger}
}

// Submit finalises the draft under key. A second Submit for the same key while
// one is running waits for and shares the first result, so a double click
// creates one record. The shared run keeps the first caller's context values
// but not its cancellation: no caller going away can fail the submission for
// the others, and the record, its follow-ups and the draft clear either all
// run or the record was never written.
func (c *Coordinator) Submit(ctx context.Context, key drafts.Key, sub Submission, redirect string) (*SubmissionResult, error) {
	shared := context.WithoutCancel(ctx)
	v, err, joined := c.inflight.Do(key.String(), func() (any, error) {
		return c.run(shared, key, sub, redirect)
	})
	if joined {
		c.logger.Printf("submission %s: joined in-flight submission", key)
	}
	if err != nil {
		return nil, err
	}
	return v.(*SubmissionResult), nil
}

func (c *Coordinator) run(ctx context.Context, key drafts.Key, sub Submission, redirect string) (*SubmissionResult, error) {
	phase := PhaseValidating
	fail := func(err error) (*SubmissionResult, error) {
		c.logger.Printf("submission %s failed while %s: %v", key, phase, err)
		return nil, &SubmissionFailure{Phase: phase, Err: err}
	}

	draft, err := c.store.Load(ctx, key)
	if err != nil {
		return fail(err)
	}
	if err := sub.Validate(draft); err != nil {
		return fail(err)
	}

	phase = PhaseResolving
	if err := sub.Resolve(ctx); err != nil {
		return fail(err)
	}

	phase = PhaseDeriving
	if err := sub.Derive(); err != nil {
		return fail(err)
	}

	phase = PhasePersisting
	recordID, err := sub.Persist(ctx)
	if err != nil {
		var perr *PersistenceError
		if !errors.As(err, &perr) && !IsInputError(err) {
			err = &PersistenceError{Op: "persist submission", Err: err}
		}
		return fail(err)
	}
	c.logger.Printf("submission %s: persisted record %s", key, recordID)

	for _, fu := range sub.FollowUps() {
		if err := fu.Run(ctx); err != nil {
			c.reporter.ReportDependentFailure(ctx, DependentWriteFailure{
				Key:      key,
				RecordID: recordID,
				Write:    fu.Name,
				Err:      err,
			})
		}
	}

	if err := c.store.Clear(ctx, key); err != nil {
		c.logger.Printf("submission %s: record %s saved but draft not cleared: %v", key, recordID, err)
	}

	return &SubmissionResult{RecordID: recordID, Redirect: redirect, Phase: PhaseSucceeded}, nil
}
