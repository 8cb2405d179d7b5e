// Package authors provides database operations for the author_by_id table.
//
// # Interface Implementation
//
//	var _ loader.AuthorStore = (*Repository)(nil)
//	var _ openlibrary.AuthorFinder = (*Repository)(nil)
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	err := repo.SaveAuthor(ctx, &entities.Author{ID: "OL1A", Name: "Jane Doe"})
package authors

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/betterreads-loader/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveAuthor inserts the author or overwrites the row with the same id.
func (r *Repository) SaveAuthor(ctx context.Context, author *entities.Author) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(author).Error
}

// FindAuthorByID returns found=false, err=nil when no author has the id.
func (r *Repository) FindAuthorByID(ctx context.Context, id string) (*entities.Author, bool, error) {
	var author entities.Author
	err := r.db.WithContext(ctx).Where("author_id = ?", id).Take(&author).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &author, true, nil
}

// CountAuthors returns the number of stored authors.
func (r *Repository) CountAuthors(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.Author{}).Count(&n).Error
	return n, err
}
