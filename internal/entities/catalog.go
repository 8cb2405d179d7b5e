package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Author is a normalized record from the authors dump.
type Author struct {
	ID           string `gorm:"column:author_id;primaryKey" json:"id"`
	Name         string `gorm:"column:author_name" json:"name"`
	PersonalName string `gorm:"column:personal_name" json:"personal_name"`
}

func (Author) TableName() string { return "author_by_id" }

// Book is a normalized work record. AuthorNames is positionally aligned with AuthorIDs.
type Book struct {
	ID            string                      `gorm:"column:book_id;primaryKey" json:"id"`
	Name          string                      `gorm:"column:book_name" json:"name"`
	Description   string                      `gorm:"column:book_description;type:text" json:"description,omitempty"`
	CoverIDs      datatypes.JSONSlice[string] `gorm:"column:cover_ids" json:"cover_ids"`
	AuthorIDs     datatypes.JSONSlice[string] `gorm:"column:author_ids" json:"author_ids"`
	AuthorNames   datatypes.JSONSlice[string] `gorm:"column:author_names" json:"author_names"`
	PublishedDate *time.Time                  `gorm:"column:published_date;type:date" json:"published_date,omitempty"`
}

func (Book) TableName() string { return "book_by_id" }

type LoadStatus string

const (
	LoadStatusPending   LoadStatus = "pending"
	LoadStatusRunning   LoadStatus = "running"
	LoadStatusCompleted LoadStatus = "completed"
	LoadStatusFailed    LoadStatus = "failed"
)

// LoadRun records one execution of the two-pass dump load.
type LoadRun struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Status           LoadStatus `gorm:"index;size:20" json:"status"`
	AuthorsPath      string     `gorm:"size:1024" json:"authors_path"`
	WorksPath        string     `gorm:"size:1024" json:"works_path"`
	AuthorsProcessed int        `json:"authors_processed"`
	AuthorsFailed    int        `json:"authors_failed"`
	WorksProcessed   int        `json:"works_processed"`
	WorksFailed      int        `json:"works_failed"`
	Error            string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt        time.Time  `gorm:"index" json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
