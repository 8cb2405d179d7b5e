package openlibrary

import (
	"strings"

	"github.com/mrlokans/betterreads-loader/internal/entities"
)

const (
	authorKeyPrefix = "/authors/"
	workKeyPrefix   = "/works/"
)

// MapAuthor builds an Author from one authors-dump object. Every member is
// optional, including key: an author without one maps to an empty id.
func MapAuthor(obj map[string]any) entities.Author {
	return entities.Author{
		ID:           strings.ReplaceAll(optString(obj, "key"), authorKeyPrefix, ""),
		Name:         optString(obj, "name"),
		PersonalName: optString(obj, "personal_name"),
	}
}
