package http

import (
	"github.com/mrlokans/betterreads-loader/internal/database"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Database *database.Database

	Authors AuthorReader
	Books   BookReader
	Stats   StatsReader
	Runs    LoadRunReader

	// Load queueing (optional; nil when the task queue is disabled)
	Submitter LoadSubmitter
	Tasks     TaskStatusReader

	Version string
}
