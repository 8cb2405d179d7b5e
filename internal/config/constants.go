package config

// Default paths for databases and dumps
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./betterreads.db"

	// DefaultAuthorsDumpPath is the default location of the OpenLibrary authors dump
	DefaultAuthorsDumpPath = "./data/ol_dump_authors_latest.txt"

	// DefaultWorksDumpPath is the default location of the OpenLibrary works dump
	DefaultWorksDumpPath = "./data/ol_dump_works_latest.txt"
)
