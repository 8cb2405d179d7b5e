package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/betterreads-loader/internal/database"
	"github.com/mrlokans/betterreads-loader/internal/entities"
	"github.com/mrlokans/betterreads-loader/internal/tasks"
)

// AuthorReader provides read access to loaded authors.
type AuthorReader interface {
	FindAuthorByID(ctx context.Context, id string) (*entities.Author, bool, error)
}

// BookReader provides read access to loaded books.
type BookReader interface {
	FindBookByID(ctx context.Context, id string) (*entities.Book, bool, error)
	FindBooksByAuthorID(ctx context.Context, authorID string, limit int) ([]entities.Book, error)
}

type StatsReader interface {
	GetStats() (database.Stats, error)
}

// LoadRunReader provides the history of dump loads.
type LoadRunReader interface {
	GetRun(ctx context.Context, id string) (*entities.LoadRun, bool, error)
	ListRuns(ctx context.Context, limit int) ([]entities.LoadRun, error)
}

// LoadSubmitter enqueues a dump load.
type LoadSubmitter interface {
	Submit(ctx context.Context, req tasks.LoadRequest) (tasks.Submission, error)
}

type TaskStatusReader interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
