package openlibrary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/betterreads-loader/internal/entities"
)

// CreatedLayout is the fixed-width timestamp format of created.value.
const CreatedLayout = "2006-01-02T15:04:05.000000"

// NameResolver maps author ids to names, preserving order and length.
type NameResolver interface {
	Resolve(ctx context.Context, ids []string) ([]string, error)
}

// WorkMapper builds Books from works-dump objects. Unlike MapAuthor it is
// strict about key and about the shape of nested arrays.
type WorkMapper struct {
	resolver NameResolver
}

func NewWorkMapper(resolver NameResolver) *WorkMapper {
	return &WorkMapper{resolver: resolver}
}

func (m *WorkMapper) Map(ctx context.Context, obj map[string]any) (entities.Book, error) {
	key, err := requireString(obj, "key", "key")
	if err != nil {
		return entities.Book{}, err
	}

	book := entities.Book{
		ID:          strings.ReplaceAll(key, workKeyPrefix, ""),
		Name:        optString(obj, "title"),
		CoverIDs:    []string{},
		AuthorIDs:   []string{},
		AuthorNames: []string{},
	}

	if desc, ok := optObject(obj, "description"); ok {
		book.Description = optString(desc, "value")
	}

	if covers, ok := optArray(obj, "covers"); ok {
		ids, err := coverIDs(covers)
		if err != nil {
			return entities.Book{}, err
		}
		book.CoverIDs = ids
	}

	if authors, ok := optArray(obj, "authors"); ok {
		ids, err := authorIDs(authors)
		if err != nil {
			return entities.Book{}, err
		}
		book.AuthorIDs = ids

		if len(ids) > 0 {
			names, err := m.resolver.Resolve(ctx, ids)
			if err != nil {
				return entities.Book{}, err
			}
			book.AuthorNames = names
		}
	}

	if created, ok := optObject(obj, "created"); ok {
		published, err := parseCreated(created)
		if err != nil {
			return entities.Book{}, err
		}
		book.PublishedDate = &published
	}

	return book, nil
}

func coverIDs(covers []any) ([]string, error) {
	ids := make([]string, 0, len(covers))
	for i, v := range covers {
		s, ok := coerceString(v)
		if !ok {
			return nil, newLineError(KindInvalidArrayElement, fmt.Sprintf("covers[%d]", i),
				fmt.Errorf("expected scalar, got %s", jsonType(v)))
		}
		ids = append(ids, s)
	}
	return ids, nil
}

// authorIDs expects [{"author": {"key": "/authors/..."}}, ...]. An element
// without a nested author object fails the whole work.
func authorIDs(authors []any) ([]string, error) {
	ids := make([]string, 0, len(authors))
	for i, v := range authors {
		path := fmt.Sprintf("authors[%d]", i)

		entry, ok := v.(map[string]any)
		if !ok {
			return nil, newLineError(KindInvalidArrayElement, path,
				fmt.Errorf("expected object, got %s", jsonType(v)))
		}
		ref, ok := optObject(entry, "author")
		if !ok {
			return nil, newLineError(KindInvalidArrayElement, path+".author",
				fmt.Errorf("expected object, got %s", jsonType(entry["author"])))
		}
		ids = append(ids, strings.ReplaceAll(optString(ref, "key"), authorKeyPrefix, ""))
	}
	return ids, nil
}

func parseCreated(created map[string]any) (time.Time, error) {
	value, err := requireString(created, "value", "created.value")
	if err != nil {
		return time.Time{}, err
	}
	ts, err := time.Parse(CreatedLayout, value)
	if err != nil {
		return time.Time{}, newLineError(KindDateParseError, "created.value", err)
	}
	y, mo, d := ts.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC), nil
}
