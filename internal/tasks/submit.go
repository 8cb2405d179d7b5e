package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/betterreads-loader/internal/entities"
	"github.com/mrlokans/betterreads-loader/internal/loader"
)

// ErrLoadActive is returned when a load is requested while another one is
// pending or running.
var ErrLoadActive = errors.New("a load is already pending or running")

// LoadRequest describes a requested load. Empty paths fall back to the
// configured dump locations.
type LoadRequest struct {
	AuthorsPath string `json:"authors_path"`
	WorksPath   string `json:"works_path"`
	SkipAuthors bool   `json:"skip_authors"`
	SkipWorks   bool   `json:"skip_works"`
}

// Submission identifies an enqueued load.
type Submission struct {
	RunID  string `json:"run_id"`
	TaskID string `json:"task_id"`
}

// RunTracker records pending runs. *loader.Service satisfies it.
type RunTracker interface {
	CreatePending(ctx context.Context, paths loader.Paths) (*entities.LoadRun, error)
	FailPending(ctx context.Context, run *entities.LoadRun, reason string) error
}

// ActiveRuns reports whether any recorded load is still pending or running.
type ActiveRuns interface {
	HasActiveRun(ctx context.Context) (bool, error)
}

// LoadEnqueuer adds load tasks to the queue. *Client satisfies it.
type LoadEnqueuer interface {
	EnqueueLoad(task LoadDumpsTask) (string, error)
}

// LoadSubmitter records a pending LoadRun and enqueues the matching task.
type LoadSubmitter struct {
	queue    LoadEnqueuer
	runs     RunTracker
	active   ActiveRuns
	defaults loader.Paths
}

func NewLoadSubmitter(queue LoadEnqueuer, runs RunTracker, active ActiveRuns, defaults loader.Paths) *LoadSubmitter {
	return &LoadSubmitter{queue: queue, runs: runs, active: active, defaults: defaults}
}

// Submit enqueues a load unless one is already active.
func (s *LoadSubmitter) Submit(ctx context.Context, req LoadRequest) (Submission, error) {
	if s.active != nil {
		active, err := s.active.HasActiveRun(ctx)
		if err != nil {
			return Submission{}, fmt.Errorf("check active loads: %w", err)
		}
		if active {
			return Submission{}, ErrLoadActive
		}
	}

	paths := loader.Paths{Authors: req.AuthorsPath, Works: req.WorksPath}
	if paths.Authors == "" {
		paths.Authors = s.defaults.Authors
	}
	if paths.Works == "" {
		paths.Works = s.defaults.Works
	}

	run, err := s.runs.CreatePending(ctx, paths)
	if err != nil {
		return Submission{}, err
	}

	taskID, err := s.queue.EnqueueLoad(LoadDumpsTask{
		RunID:       run.ID,
		AuthorsPath: paths.Authors,
		WorksPath:   paths.Works,
		SkipAuthors: req.SkipAuthors,
		SkipWorks:   req.SkipWorks,
	})
	if err != nil {
		if ferr := s.runs.FailPending(ctx, run, err.Error()); ferr != nil {
			return Submission{}, errors.Join(err, ferr)
		}
		return Submission{}, err
	}

	return Submission{RunID: run.ID, TaskID: taskID}, nil
}
