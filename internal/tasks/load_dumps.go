package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/betterreads-loader/internal/loader"
)

// LoadDumpsQueue is the backlite queue name for dump loads.
const LoadDumpsQueue = "load_dumps"

// LoadDumpsTask loads an authors dump and a works dump into the catalog.
// RunID names the pending LoadRun created when the task was enqueued.
type LoadDumpsTask struct {
	RunID       string `json:"run_id"`
	AuthorsPath string `json:"authors_path"`
	WorksPath   string `json:"works_path"`
	SkipAuthors bool   `json:"skip_authors,omitempty"`
	SkipWorks   bool   `json:"skip_works,omitempty"`
}

const (
	// MaxLoadTimeout is the queue-level ceiling for one load. Config.LoadTimeout
	// is applied inside the processor and never exceeds it.
	MaxLoadTimeout = 24 * time.Hour

	loadRetention = 7 * 24 * time.Hour
)

// Config returns the queue configuration for dump loads. A load is never
// retried: re-running it is idempotent but expensive.
func (t LoadDumpsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        LoadDumpsQueue,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     MaxLoadTimeout,
		Retention: &backlite.Retention{
			Duration:   loadRetention,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func (t LoadDumpsTask) options() []loader.Option {
	return []loader.Option{
		loader.WithSkipAuthors(t.SkipAuthors),
		loader.WithSkipWorks(t.SkipWorks),
	}
}

// LoadExecutor runs a recorded load. *loader.Service satisfies it.
type LoadExecutor interface {
	Execute(ctx context.Context, runID string, paths loader.Paths, opts ...loader.Option) (loader.Report, error)
}

// effectiveTimeout bounds timeout to (0, MaxLoadTimeout].
func effectiveTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 || timeout > MaxLoadTimeout {
		return MaxLoadTimeout
	}
	return timeout
}

// LoadDumpsProcessor creates a processor function for LoadDumpsTask. Each
// load is cancelled after timeout.
func LoadDumpsProcessor(exec LoadExecutor, timeout time.Duration) backlite.QueueProcessor[LoadDumpsTask] {
	timeout = effectiveTimeout(timeout)
	return func(ctx context.Context, task LoadDumpsTask) error {
		if exec == nil {
			return fmt.Errorf("loader not configured")
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		paths := loader.Paths{Authors: task.AuthorsPath, Works: task.WorksPath}
		report, err := exec.Execute(ctx, task.RunID, paths, task.options()...)
		if err != nil {
			return fmt.Errorf("load dumps: %w", err)
		}

		log.Printf("[TASK] Load %s complete: authors %d/%d failed, works %d/%d failed",
			report.RunID, report.Authors.Failed, report.Authors.Processed, report.Works.Failed, report.Works.Processed)

		if !report.OK() {
			return fmt.Errorf("load %s did not read every dump", report.RunID)
		}
		return nil
	}
}

// NewLoadDumpsQueue creates a backlite queue for dump loads using the
// load timeout from cfg.
func NewLoadDumpsQueue(exec LoadExecutor, cfg Config) backlite.Queue {
	return backlite.NewQueue(LoadDumpsProcessor(exec, cfg.LoadTimeout))
}
