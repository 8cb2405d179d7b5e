// Package database provides the data access layer for the loader.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, stats
//	├── authors/         # author_by_id upserts and lookups
//	├── books/           # book_by_id upserts and lookups
//	└── loads/           # Load run bookkeeping
//
// # Using Sub-packages
//
// NewDatabase wires one Repository per domain onto the returned Database:
//
//	db, err := database.NewDatabase("./betterreads.db")
//
//	err = db.Authors.SaveAuthor(ctx, &author)
//	author, found, err := db.Authors.FindAuthorByID(ctx, "OL23919A")
//	book, found, err := db.Books.FindBookByID(ctx, "OL45883W")
//
// # Upserts
//
// Authors and books are keyed by their OpenLibrary id. Saving an existing id
// overwrites every column, so re-running a load never duplicates records.
package database
