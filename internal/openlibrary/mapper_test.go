package openlibrary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/betterreads-loader/internal/entities"
)

type mockFinder struct {
	authors map[string]entities.Author
	err     error
	calls   []string
}

func (m *mockFinder) FindAuthorByID(_ context.Context, id string) (*entities.Author, bool, error) {
	m.calls = append(m.calls, id)
	if m.err != nil {
		return nil, false, m.err
	}
	a, ok := m.authors[id]
	if !ok {
		return nil, false, nil
	}
	return &a, true, nil
}

func mustDecode(t *testing.T, raw string) map[string]any {
	t.Helper()
	obj, err := DecodeObject(raw)
	require.NoError(t, err)
	return obj
}

func TestMapAuthor(t *testing.T) {
	t.Run("maps all fields", func(t *testing.T) {
		obj := mustDecode(t, `{"key":"/authors/OL123A","name":"Jane Doe","personal_name":"J.D."}`)

		author := MapAuthor(obj)
		assert.Equal(t, entities.Author{ID: "OL123A", Name: "Jane Doe", PersonalName: "J.D."}, author)
	})

	t.Run("missing personal_name is empty", func(t *testing.T) {
		author := MapAuthor(mustDecode(t, `{"key":"/authors/OL9A","name":"Solo"}`))
		assert.Equal(t, "", author.PersonalName)
		assert.Equal(t, "Solo", author.Name)
	})

	t.Run("missing key yields empty id", func(t *testing.T) {
		author := MapAuthor(mustDecode(t, `{"name":"Anonymous"}`))
		assert.Equal(t, "", author.ID)
	})

	t.Run("wrong types default to empty", func(t *testing.T) {
		author := MapAuthor(mustDecode(t, `{"key":42,"name":{"value":"x"},"personal_name":null}`))
		assert.Equal(t, entities.Author{}, author)
	})
}

func TestWorkMapper_FullRecord(t *testing.T) {
	finder := &mockFinder{authors: map[string]entities.Author{"OL1A": {ID: "OL1A", Name: "N"}}}
	mapper := NewWorkMapper(NewAuthorResolver(finder))

	obj := mustDecode(t, `{"key":"/works/OL1W","title":"T","covers":[1,2],`+
		`"authors":[{"author":{"key":"/authors/OL1A"}}],`+
		`"created":{"value":"2020-01-02T03:04:05.000000"}}`)

	book, err := mapper.Map(context.Background(), obj)
	require.NoError(t, err)

	assert.Equal(t, "OL1W", book.ID)
	assert.Equal(t, "T", book.Name)
	assert.Equal(t, []string{"1", "2"}, []string(book.CoverIDs))
	assert.Equal(t, []string{"OL1A"}, []string(book.AuthorIDs))
	assert.Equal(t, []string{"N"}, []string(book.AuthorNames))
	require.NotNil(t, book.PublishedDate)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), *book.PublishedDate)
	assert.Equal(t, "", book.Description)
}

func TestWorkMapper_OptionalFields(t *testing.T) {
	mapper := NewWorkMapper(NewAuthorResolver(&mockFinder{}))

	t.Run("minimal work has empty collections and no date", func(t *testing.T) {
		book, err := mapper.Map(context.Background(), mustDecode(t, `{"key":"/works/OL2W"}`))
		require.NoError(t, err)

		assert.Equal(t, "OL2W", book.ID)
		assert.Equal(t, "", book.Name)
		assert.NotNil(t, book.CoverIDs)
		assert.Empty(t, book.CoverIDs)
		assert.Empty(t, book.AuthorIDs)
		assert.Empty(t, book.AuthorNames)
		assert.Nil(t, book.PublishedDate)
	})

	t.Run("description object contributes its value", func(t *testing.T) {
		book, err := mapper.Map(context.Background(),
			mustDecode(t, `{"key":"/works/OL3W","description":{"type":"/type/text","value":"About it"}}`))
		require.NoError(t, err)
		assert.Equal(t, "About it", book.Description)
	})

	t.Run("plain string description is ignored", func(t *testing.T) {
		book, err := mapper.Map(context.Background(), mustDecode(t, `{"key":"/works/OL3W","description":"About it"}`))
		require.NoError(t, err)
		assert.Equal(t, "", book.Description)
	})

	t.Run("description object without value is empty", func(t *testing.T) {
		book, err := mapper.Map(context.Background(), mustDecode(t, `{"key":"/works/OL3W","description":{}}`))
		require.NoError(t, err)
		assert.Equal(t, "", book.Description)
	})

	t.Run("covers that are not an array are ignored", func(t *testing.T) {
		book, err := mapper.Map(context.Background(), mustDecode(t, `{"key":"/works/OL4W","covers":"123"}`))
		require.NoError(t, err)
		assert.Empty(t, book.CoverIDs)
	})

	t.Run("string and negative cover ids are kept in order", func(t *testing.T) {
		book, err := mapper.Map(context.Background(), mustDecode(t, `{"key":"/works/OL4W","covers":["9",-1,7]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"9", "-1", "7"}, []string(book.CoverIDs))
	})

	t.Run("empty authors array skips resolution", func(t *testing.T) {
		finder := &mockFinder{}
		m := NewWorkMapper(NewAuthorResolver(finder))
		book, err := m.Map(context.Background(), mustDecode(t, `{"key":"/works/OL5W","authors":[]}`))
		require.NoError(t, err)
		assert.Empty(t, book.AuthorIDs)
		assert.Empty(t, book.AuthorNames)
		assert.Empty(t, finder.calls)
	})

	t.Run("author reference without key resolves the empty id", func(t *testing.T) {
		book, err := mapper.Map(context.Background(),
			mustDecode(t, `{"key":"/works/OL6W","authors":[{"author":{}}]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{""}, []string(book.AuthorIDs))
		assert.Equal(t, []string{UnknownAuthor}, []string(book.AuthorNames))
	})
}

func TestWorkMapper_Failures(t *testing.T) {
	mapper := NewWorkMapper(NewAuthorResolver(&mockFinder{}))

	cases := []struct {
		name  string
		input string
		want  error
		kind  Kind
	}{
		{"missing key", `{"title":"No id"}`, ErrMissingRequiredField, KindMissingRequiredField},
		{"null key", `{"key":null}`, ErrMissingRequiredField, KindMissingRequiredField},
		{"numeric key", `{"key":7}`, ErrMissingRequiredField, KindMissingRequiredField},
		{"object cover", `{"key":"/works/W","covers":[1,{"id":2}]}`, ErrInvalidArrayElement, KindInvalidArrayElement},
		{"null cover", `{"key":"/works/W","covers":[null]}`, ErrInvalidArrayElement, KindInvalidArrayElement},
		{"author entry without author", `{"key":"/works/W","authors":[{"type":"x"}]}`, ErrInvalidArrayElement, KindInvalidArrayElement},
		{"author as string reference", `{"key":"/works/W","authors":[{"author":"/authors/OL1A"}]}`, ErrInvalidArrayElement, KindInvalidArrayElement},
		{"author entry not an object", `{"key":"/works/W","authors":["/authors/OL1A"]}`, ErrInvalidArrayElement, KindInvalidArrayElement},
		{"created without value", `{"key":"/works/W","created":{"type":"/type/datetime"}}`, ErrMissingRequiredField, KindMissingRequiredField},
		{"created with short fraction", `{"key":"/works/W","created":{"value":"2020-01-02T03:04:05.123"}}`, ErrDateParse, KindDateParseError},
		{"created date only", `{"key":"/works/W","created":{"value":"2020-01-02"}}`, ErrDateParse, KindDateParseError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mapper.Map(context.Background(), mustDecode(t, tc.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, tc.kind, KindOf(err))
		})
	}

	t.Run("created that is not an object is ignored", func(t *testing.T) {
		book, err := mapper.Map(context.Background(), mustDecode(t, `{"key":"/works/W","created":"2020"}`))
		require.NoError(t, err)
		assert.Nil(t, book.PublishedDate)
	})
}

func TestAuthorResolver(t *testing.T) {
	t.Run("preserves order and substitutes unknown authors", func(t *testing.T) {
		finder := &mockFinder{authors: map[string]entities.Author{
			"OL1A": {ID: "OL1A", Name: "First"},
			"OL3A": {ID: "OL3A", Name: "Third"},
		}}
		resolver := NewAuthorResolver(finder)

		names, err := resolver.Resolve(context.Background(), []string{"OL3A", "OL2A", "OL1A", "OL3A"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Third", UnknownAuthor, "First", "Third"}, names)
		assert.Equal(t, []string{"OL3A", "OL2A", "OL1A", "OL3A"}, finder.calls)
	})

	t.Run("storage errors are reported", func(t *testing.T) {
		resolver := NewAuthorResolver(&mockFinder{err: errors.New("disk I/O error")})

		_, err := resolver.Resolve(context.Background(), []string{"OL1A"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStoreFailure)
		assert.Contains(t, err.Error(), "disk I/O error")
	})

	t.Run("work with unresolved author still maps", func(t *testing.T) {
		mapper := NewWorkMapper(NewAuthorResolver(&mockFinder{}))
		book, err := mapper.Map(context.Background(),
			mustDecode(t, `{"key":"/works/OL7W","authors":[{"author":{"key":"/authors/OL404A"}}]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{UnknownAuthor}, []string(book.AuthorNames))
		assert.Len(t, book.AuthorNames, len(book.AuthorIDs))
	})
}
