package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mrlokans/betterreads-loader/internal/config"
	"github.com/mrlokans/betterreads-loader/internal/database"
	"github.com/mrlokans/betterreads-loader/internal/loader"
	"github.com/mrlokans/betterreads-loader/internal/openlibrary"
)

// ErrIncompleteLoad is returned when a pass could not read its dump file.
var ErrIncompleteLoad = errors.New("load incomplete")

// LoadCommand loads an authors dump and a works dump into the database.
type LoadCommand struct {
	AuthorsPath   string
	WorksPath     string
	DatabasePath  string
	DBLogLevel    string
	ProgressEvery int
	SkipAuthors   bool
	SkipWorks     bool
	Verbose       bool

	out io.Writer
}

// NewLoadCommand creates the command with flag defaults taken from cfg.
func NewLoadCommand(cfg *config.Config) *LoadCommand {
	return &LoadCommand{
		AuthorsPath:   cfg.Dumps.AuthorsPath,
		WorksPath:     cfg.Dumps.WorksPath,
		DatabasePath:  cfg.Database.Path,
		DBLogLevel:    cfg.Database.LogLevel,
		ProgressEvery: cfg.Load.ProgressEvery,
		out:           os.Stdout,
	}
}

func (cmd *LoadCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)

	fs.StringVar(&cmd.AuthorsPath, "authors", cmd.AuthorsPath, "Path to the OpenLibrary authors dump (.txt, .gz or .zst)")
	fs.StringVar(&cmd.WorksPath, "works", cmd.WorksPath, "Path to the OpenLibrary works dump (.txt, .gz or .zst)")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.DatabasePath, "Path to the catalog database file")
	fs.IntVar(&cmd.ProgressEvery, "progress", cmd.ProgressEvery, "Log progress every N lines (0 disables)")
	fs.BoolVar(&cmd.SkipAuthors, "skip-authors", false, "Skip the authors pass and resolve against authors already loaded")
	fs.BoolVar(&cmd.SkipWorks, "skip-works", false, "Skip the works pass")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Log every saved record")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s load [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load OpenLibrary authors and works dumps into the catalog database.\n")
		fmt.Fprintf(os.Stderr, "Authors are loaded first so works can resolve author names.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s load -authors ol_dump_authors.txt.gz -works ol_dump_works.txt.gz\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Reload works only:\n")
		fmt.Fprintf(os.Stderr, "  %s load -skip-authors -works ol_dump_works.txt.gz\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !cmd.SkipAuthors && cmd.AuthorsPath == "" {
		return fmt.Errorf("required flag -authors not provided")
	}
	if !cmd.SkipWorks && cmd.WorksPath == "" {
		return fmt.Errorf("required flag -works not provided")
	}
	return nil
}

func (cmd *LoadCommand) Run(ctx context.Context) error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintln(out, "OpenLibrary Load")
	fmt.Fprintln(out, "================")

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	fmt.Fprintf(out, "Authors:  %s\n", describePath(cmd.AuthorsPath, cmd.SkipAuthors))
	fmt.Fprintf(out, "Works:    %s\n", describePath(cmd.WorksPath, cmd.SkipWorks))
	fmt.Fprintf(out, "Database: %s\n\n", cmd.DatabasePath)

	db, err := database.NewDatabase(cmd.DatabasePath, database.WithLogLevel(database.ParseLogLevel(cmd.DBLogLevel)))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	svc := loader.NewService(db.Authors, db.Books, db.Loads, cmd.ProgressEvery)
	report, err := svc.Execute(ctx, "", loader.Paths{Authors: cmd.AuthorsPath, Works: cmd.WorksPath},
		loader.WithSkipAuthors(cmd.SkipAuthors),
		loader.WithSkipWorks(cmd.SkipWorks),
		loader.WithVerbose(cmd.Verbose),
	)

	printReport(out, report)

	if err != nil {
		return err
	}
	if !report.OK() {
		return ErrIncompleteLoad
	}

	fmt.Fprintln(out, "\nLoad complete!")
	return nil
}

func describePath(path string, skipped bool) string {
	if skipped {
		return "(skipped)"
	}
	return path
}

func printReport(out io.Writer, report loader.Report) {
	fmt.Fprintf(out, "\n=== Load Summary (run %s) ===\n", report.RunID)
	for _, pass := range []loader.PassResult{report.Authors, report.Works} {
		if pass.Skipped {
			fmt.Fprintf(out, "%-8s skipped\n", pass.Name+":")
			continue
		}
		fmt.Fprintf(out, "%-8s %d processed, %d saved, %d failed (%s)\n",
			pass.Name+":", pass.Processed, pass.Saved, pass.Failed, pass.Duration.Round(time.Millisecond))

		kinds := make([]string, 0, len(pass.FailuresByKind))
		for kind := range pass.FailuresByKind {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(out, "  %-24s %d\n", kind, pass.FailuresByKind[openlibrary.Kind(kind)])
		}
		if pass.Err != nil {
			fmt.Fprintf(out, "  [ERROR] %v\n", pass.Err)
		}
	}
}
