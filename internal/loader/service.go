package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/betterreads-loader/internal/entities"
)

// RunRecorder persists LoadRun bookkeeping.
type RunRecorder interface {
	SaveRun(ctx context.Context, run *entities.LoadRun) error
}

// Service executes loads and records each one as a LoadRun.
// It is shared by the CLI, the task queue and the scheduler.
type Service struct {
	authors       AuthorStore
	books         BookStore
	runs          RunRecorder
	progressEvery int
}

func NewService(authors AuthorStore, books BookStore, runs RunRecorder, progressEvery int) *Service {
	return &Service{
		authors:       authors,
		books:         books,
		runs:          runs,
		progressEvery: progressEvery,
	}
}

// CreatePending records a run that has been requested but not started.
func (s *Service) CreatePending(ctx context.Context, paths Paths) (*entities.LoadRun, error) {
	run := &entities.LoadRun{
		ID:          uuid.NewString(),
		Status:      entities.LoadStatusPending,
		AuthorsPath: paths.Authors,
		WorksPath:   paths.Works,
		StartedAt:   time.Now(),
	}
	if err := s.runs.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("record pending load: %w", err)
	}
	return run, nil
}

// Execute runs both passes under runID (a new id when empty) and records
// the outcome. The returned error covers cancellation and bookkeeping
// failures; per-pass I/O failures are reported through the Report.
func (s *Service) Execute(ctx context.Context, runID string, paths Paths, opts ...Option) (Report, error) {
	if runID == "" {
		runID = uuid.NewString()
	}

	run := &entities.LoadRun{
		ID:          runID,
		Status:      entities.LoadStatusRunning,
		AuthorsPath: paths.Authors,
		WorksPath:   paths.Works,
		StartedAt:   time.Now(),
	}
	if err := s.runs.SaveRun(ctx, run); err != nil {
		return Report{RunID: runID}, fmt.Errorf("record load start: %w", err)
	}

	opts = append([]Option{WithProgressEvery(s.progressEvery), WithRunID(runID)}, opts...)
	report, runErr := New(paths, s.authors, s.books, opts...).Run(ctx)

	finished := time.Now()
	run.FinishedAt = &finished
	run.AuthorsProcessed = report.Authors.Processed
	run.AuthorsFailed = report.Authors.Failed
	run.WorksProcessed = report.Works.Processed
	run.WorksFailed = report.Works.Failed
	run.Status = entities.LoadStatusCompleted
	if msg := failureMessage(report, runErr); msg != "" {
		run.Status = entities.LoadStatusFailed
		run.Error = msg
	}

	// The run may have been cancelled; the final status is still written.
	if err := s.runs.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		return report, errors.Join(runErr, fmt.Errorf("record load result: %w", err))
	}
	return report, runErr
}

func failureMessage(report Report, runErr error) string {
	var parts []string
	if report.Authors.Err != nil {
		parts = append(parts, "authors: "+report.Authors.Err.Error())
	}
	if report.Works.Err != nil {
		parts = append(parts, "works: "+report.Works.Err.Error())
	}
	if runErr != nil {
		parts = append(parts, runErr.Error())
	}
	return strings.Join(parts, "; ")
}

// FailPending marks a pending run as failed before it ever started,
// e.g. when it could not be enqueued.
func (s *Service) FailPending(ctx context.Context, run *entities.LoadRun, reason string) error {
	finished := time.Now()
	run.Status = entities.LoadStatusFailed
	run.Error = reason
	run.FinishedAt = &finished
	if err := s.runs.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("record failed load: %w", err)
	}
	return nil
}
