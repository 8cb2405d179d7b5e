package loader

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/betterreads-loader/internal/dump"
	"github.com/mrlokans/betterreads-loader/internal/entities"
	"github.com/mrlokans/betterreads-loader/internal/openlibrary"
)

// DefaultProgressEvery is how many lines pass between progress log lines.
const DefaultProgressEvery = 100000

const (
	PassAuthors = "authors"
	PassWorks   = "works"
)

// AuthorStore persists authors and serves lookups for work resolution.
type AuthorStore interface {
	SaveAuthor(ctx context.Context, author *entities.Author) error
	openlibrary.AuthorFinder
}

// BookStore persists books.
type BookStore interface {
	SaveBook(ctx context.Context, book *entities.Book) error
}

// Paths locates the two dump files.
type Paths struct {
	Authors string
	Works   string
}

// PassResult summarizes one pass over a dump file. Err is set only when the
// file itself could not be opened or read.
type PassResult struct {
	Name           string                   `json:"name"`
	Path           string                   `json:"path"`
	Processed      int                      `json:"processed"`
	Saved          int                      `json:"saved"`
	Failed         int                      `json:"failed"`
	FailuresByKind map[openlibrary.Kind]int `json:"failures_by_kind,omitempty"`
	Skipped        bool                     `json:"skipped,omitempty"`
	Err            error                    `json:"-"`
	Duration       time.Duration            `json:"duration"`
}

// OK reports whether the pass read its whole source.
func (p PassResult) OK() bool {
	return p.Err == nil
}

func (p *PassResult) fail(kind openlibrary.Kind) {
	p.Failed++
	if p.FailuresByKind == nil {
		p.FailuresByKind = make(map[openlibrary.Kind]int)
	}
	p.FailuresByKind[kind]++
}

// Report is the outcome of a full Run.
type Report struct {
	RunID   string     `json:"run_id"`
	Authors PassResult `json:"authors"`
	Works   PassResult `json:"works"`
}

// OK reports whether both passes read their sources completely.
func (r Report) OK() bool {
	return r.Authors.OK() && r.Works.OK()
}

// Loader runs the authors pass followed by the works pass. Works are mapped
// against authors already persisted by the first pass, so the two passes
// never overlap.
type Loader struct {
	paths   Paths
	authors AuthorStore
	books   BookStore
	works   *openlibrary.WorkMapper

	progressEvery int
	skipAuthors   bool
	skipWorks     bool
	verbose       bool
	runID         string
}

type Option func(*Loader)

// WithProgressEvery logs progress every n lines; n <= 0 disables it.
func WithProgressEvery(n int) Option {
	return func(l *Loader) { l.progressEvery = n }
}

// WithSkipAuthors skips the authors pass, resolving against authors
// already in the store.
func WithSkipAuthors(skip bool) Option {
	return func(l *Loader) { l.skipAuthors = skip }
}

func WithSkipWorks(skip bool) Option {
	return func(l *Loader) { l.skipWorks = skip }
}

// WithVerbose logs every saved record.
func WithVerbose(v bool) Option {
	return func(l *Loader) { l.verbose = v }
}

// WithRunID fixes the id reported for the run instead of generating one.
func WithRunID(id string) Option {
	return func(l *Loader) { l.runID = id }
}

func New(paths Paths, authors AuthorStore, books BookStore, opts ...Option) *Loader {
	l := &Loader{
		paths:         paths,
		authors:       authors,
		books:         books,
		works:         openlibrary.NewWorkMapper(openlibrary.NewAuthorResolver(authors)),
		progressEvery: DefaultProgressEvery,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.runID == "" {
		l.runID = uuid.NewString()
	}
	return l
}

// Run executes both passes. A pass that cannot read its file is reported
// in its PassResult and the run moves on; the returned error is non-nil
// only when ctx is cancelled.
func (l *Loader) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: l.runID}
	log.Printf("[LOAD] Run %s: starting (authors=%s works=%s)", l.runID, l.paths.Authors, l.paths.Works)

	if l.skipAuthors {
		report.Authors = PassResult{Name: PassAuthors, Path: l.paths.Authors, Skipped: true}
	} else {
		report.Authors = l.LoadAuthors(ctx)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	if l.skipWorks {
		report.Works = PassResult{Name: PassWorks, Path: l.paths.Works, Skipped: true}
	} else {
		report.Works = l.LoadWorks(ctx)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	log.Printf("[LOAD] Run %s: finished. authors %d processed / %d failed, works %d processed / %d failed",
		l.runID, report.Authors.Processed, report.Authors.Failed, report.Works.Processed, report.Works.Failed)
	return report, nil
}

// LoadAuthors runs the authors pass on its own.
func (l *Loader) LoadAuthors(ctx context.Context) PassResult {
	return l.runPass(ctx, PassAuthors, l.paths.Authors, func(ctx context.Context, obj map[string]any) (string, error) {
		author := openlibrary.MapAuthor(obj)
		if err := l.authors.SaveAuthor(ctx, &author); err != nil {
			return author.ID, storeError(err)
		}
		return author.ID, nil
	})
}

// LoadWorks runs the works pass on its own. Authors must already be stored.
func (l *Loader) LoadWorks(ctx context.Context) PassResult {
	return l.runPass(ctx, PassWorks, l.paths.Works, func(ctx context.Context, obj map[string]any) (string, error) {
		book, err := l.works.Map(ctx, obj)
		if err != nil {
			return "", err
		}
		if err := l.books.SaveBook(ctx, &book); err != nil {
			return book.ID, storeError(err)
		}
		return book.ID, nil
	})
}

type recordFunc func(ctx context.Context, obj map[string]any) (id string, err error)

func (l *Loader) runPass(ctx context.Context, name, path string, handle recordFunc) PassResult {
	start := time.Now()
	result := PassResult{Name: name, Path: path}

	r, err := dump.Open(path)
	if err != nil {
		result.Err = &openlibrary.LineError{Kind: openlibrary.KindIOFailure, Err: err}
		log.Printf("[LOAD] %s pass aborted: %v", name, result.Err)
		result.Duration = time.Since(start)
		return result
	}
	defer r.Close()

	log.Printf("[LOAD] %s pass: reading %s", name, path)

	for r.Next() {
		if ctx.Err() != nil {
			log.Printf("[LOAD] %s pass: cancelled after line %d", name, r.LineNumber())
			break
		}

		line := r.Line()
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.Processed++

		id, err := l.processLine(ctx, line, handle)
		if err != nil {
			kind := openlibrary.KindOf(err)
			result.fail(kind)
			log.Printf("[LOAD] %s:%d %s: %v", path, r.LineNumber(), kind, err)
		} else {
			result.Saved++
			if l.verbose {
				log.Printf("[LOAD] %s pass: saved %s", name, id)
			}
		}

		if l.progressEvery > 0 && result.Processed%l.progressEvery == 0 {
			log.Printf("[LOAD] %s pass: %d lines processed, %d failed", name, result.Processed, result.Failed)
		}
	}

	if err := r.Err(); err != nil {
		result.Err = &openlibrary.LineError{Kind: openlibrary.KindIOFailure, Err: err}
		log.Printf("[LOAD] %s pass aborted: %v", name, result.Err)
	}

	result.Duration = time.Since(start)
	log.Printf("[LOAD] %s pass complete: %d processed, %d saved, %d failed in %s",
		name, result.Processed, result.Saved, result.Failed, result.Duration.Round(time.Millisecond))
	return result
}

func (l *Loader) processLine(ctx context.Context, line string, handle recordFunc) (string, error) {
	obj, err := openlibrary.ParseLine(line)
	if err != nil {
		return "", err
	}
	return handle(ctx, obj)
}

func storeError(err error) error {
	return &openlibrary.LineError{Kind: openlibrary.KindStoreFailure, Err: err}
}
