package openlibrary

import (
	"context"
	"fmt"

	"github.com/mrlokans/betterreads-loader/internal/entities"
)

// UnknownAuthor is substituted for author ids that are not in the store.
const UnknownAuthor = "Unknown Author"

// AuthorFinder looks up persisted authors. found is false when the id is
// simply absent; err is reserved for storage failures.
type AuthorFinder interface {
	FindAuthorByID(ctx context.Context, id string) (author *entities.Author, found bool, err error)
}

// AuthorResolver turns author ids into display names, one lookup per id.
type AuthorResolver struct {
	finder AuthorFinder
}

func NewAuthorResolver(finder AuthorFinder) *AuthorResolver {
	return &AuthorResolver{finder: finder}
}

// Resolve returns a name for every id, in input order.
func (r *AuthorResolver) Resolve(ctx context.Context, ids []string) ([]string, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		author, found, err := r.finder.FindAuthorByID(ctx, id)
		if err != nil {
			return nil, newLineError(KindStoreFailure, "authors", fmt.Errorf("lookup author %q: %w", id, err))
		}
		if !found || author == nil {
			names = append(names, UnknownAuthor)
			continue
		}
		names = append(names, author.Name)
	}
	return names, nil
}
