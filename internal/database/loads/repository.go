// Package loads records the history of dump load runs.
package loads

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/betterreads-loader/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveRun creates or updates a run by id.
func (r *Repository) SaveRun(ctx context.Context, run *entities.LoadRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *Repository) GetRun(ctx context.Context, id string) (*entities.LoadRun, bool, error) {
	var run entities.LoadRun
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &run, true, nil
}

// ListRuns returns the most recent runs first.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]entities.LoadRun, error) {
	var runs []entities.LoadRun
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&runs).Error
	return runs, err
}

// HasActiveRun reports whether a run is pending or running.
func (r *Repository) HasActiveRun(ctx context.Context) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.LoadRun{}).
		Where("status IN ?", []entities.LoadStatus{entities.LoadStatusPending, entities.LoadStatusRunning}).
		Count(&n).Error
	return n > 0, err
}

// FailInterrupted marks every running run as failed with reason and returns
// how many were changed. Pending runs are left for the task queue to resume.
func (r *Repository) FailInterrupted(ctx context.Context, reason string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entities.LoadRun{}).
		Where("status = ?", entities.LoadStatusRunning).
		Updates(map[string]any{
			"status":      entities.LoadStatusFailed,
			"error":       reason,
			"finished_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}
