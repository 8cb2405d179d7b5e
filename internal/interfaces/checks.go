package interfaces

// Compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/betterreads-loader/internal/database"
	"github.com/mrlokans/betterreads-loader/internal/database/authors"
	"github.com/mrlokans/betterreads-loader/internal/database/books"
	"github.com/mrlokans/betterreads-loader/internal/database/loads"
	"github.com/mrlokans/betterreads-loader/internal/http"
	"github.com/mrlokans/betterreads-loader/internal/loader"
	"github.com/mrlokans/betterreads-loader/internal/openlibrary"
	"github.com/mrlokans/betterreads-loader/internal/scheduler"
	"github.com/mrlokans/betterreads-loader/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ loader.AuthorStore = (*authors.Repository)(nil)
var _ openlibrary.AuthorFinder = (*authors.Repository)(nil)
var _ loader.BookStore = (*books.Repository)(nil)
var _ loader.RunRecorder = (*loads.Repository)(nil)

var _ http.AuthorReader = (*authors.Repository)(nil)
var _ http.BookReader = (*books.Repository)(nil)
var _ http.StatsReader = (*database.Database)(nil)
var _ http.LoadRunReader = (*loads.Repository)(nil)

// =============================================================================
// Load Orchestration
// =============================================================================

var _ openlibrary.NameResolver = (*openlibrary.AuthorResolver)(nil)
var _ tasks.LoadExecutor = (*loader.Service)(nil)
var _ tasks.RunTracker = (*loader.Service)(nil)
var _ tasks.ActiveRuns = (*loads.Repository)(nil)
var _ scheduler.ActiveRunChecker = (*loads.Repository)(nil)

// =============================================================================
// Task Queue
// =============================================================================

var _ tasks.LoadEnqueuer = (*tasks.Client)(nil)
var _ http.LoadSubmitter = (*tasks.LoadSubmitter)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)
