// Package books provides database operations for the book_by_id table.
//
// # Interface Implementation
//
//	var _ loader.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, found, err := repo.FindBookByID(ctx, "OL45883W")
package books

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/betterreads-loader/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveBook inserts the book or overwrites the row with the same id.
func (r *Repository) SaveBook(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(book).Error
}

// FindBookByID returns found=false, err=nil when no book has the id.
func (r *Repository) FindBookByID(ctx context.Context, id string) (*entities.Book, bool, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("book_id = ?", id).Take(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &book, true, nil
}

// FindBooksByAuthorID returns books whose author_ids contain authorID,
// ordered by id. limit <= 0 means no limit.
func (r *Repository) FindBooksByAuthorID(ctx context.Context, authorID string, limit int) ([]entities.Book, error) {
	var books []entities.Book
	query := r.db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM json_each(book_by_id.author_ids) WHERE json_each.value = ?)", authorID).
		Order("book_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&books).Error
	return books, err
}

// CountBooks returns the number of stored books.
func (r *Repository) CountBooks(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&n).Error
	return n, err
}
