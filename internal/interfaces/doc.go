// Package interfaces documents the seams between the loader's packages.
//
// # Interface Categories
//
// ## Storage
//
//   - loader.AuthorStore: save authors and look them up by id (internal/loader/loader.go)
//   - loader.BookStore: save books (internal/loader/loader.go)
//   - loader.RunRecorder: persist LoadRun bookkeeping (internal/loader/service.go)
//   - openlibrary.AuthorFinder: id lookup used by the author resolver (internal/openlibrary/resolver.go)
//
// ## Load Orchestration
//
//   - openlibrary.NameResolver: map author ids to names for a work (internal/openlibrary/work.go)
//   - tasks.LoadExecutor, tasks.RunTracker: run and record loads from the queue (internal/tasks)
//   - scheduler.ActiveRunChecker: skip scheduled reloads while a run is active (internal/scheduler)
//
// ## HTTP
//
//   - http.AuthorReader, http.BookReader, http.StatsReader, http.LoadRunReader (internal/http/stores.go)
//   - http.LoadSubmitter, http.TaskStatusReader: queue a reload and report on it
//
// # Adding a New Storage Backend
//
//  1. Create a sub-package under internal/database/ with a Repository type.
//
//  2. Implement the loader store interfaces:
//
//     func (r *Repository) SaveAuthor(ctx context.Context, author *entities.Author) error
//     func (r *Repository) FindAuthorByID(ctx context.Context, id string) (*entities.Author, bool, error)
//
//  3. Add compile-time checks to checks.go:
//
//     var _ loader.AuthorStore = (*Repository)(nil)
//
// FindAuthorByID must report a missing author as (nil, false, nil); the
// resolver substitutes the unknown-author placeholder for it and treats any
// returned error as a failure of the whole line.
package interfaces
