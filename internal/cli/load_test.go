package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/betterreads-loader/internal/config"
	"github.com/mrlokans/betterreads-loader/internal/database"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Database: config.Database{Path: filepath.Join(dir, "catalog.db"), LogLevel: "silent"},
		Dumps: config.Dumps{
			AuthorsPath: filepath.Join(dir, "authors.txt"),
			WorksPath:   filepath.Join(dir, "works.txt"),
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadCommand_ParseFlags(t *testing.T) {
	cfg := testConfig(t.TempDir())

	t.Run("config supplies defaults", func(t *testing.T) {
		cmd := NewLoadCommand(cfg)
		require.NoError(t, cmd.ParseFlags(nil))
		assert.Equal(t, cfg.Dumps.AuthorsPath, cmd.AuthorsPath)
		assert.Equal(t, cfg.Database.Path, cmd.DatabasePath)
	})

	t.Run("flags override config", func(t *testing.T) {
		cmd := NewLoadCommand(cfg)
		require.NoError(t, cmd.ParseFlags([]string{"-authors", "a.gz", "-works", "w.zst", "-skip-works", "-verbose"}))
		assert.Equal(t, "a.gz", cmd.AuthorsPath)
		assert.Equal(t, "w.zst", cmd.WorksPath)
		assert.True(t, cmd.SkipWorks)
		assert.True(t, cmd.Verbose)
	})

	t.Run("missing path", func(t *testing.T) {
		cmd := NewLoadCommand(&config.Config{})
		err := cmd.ParseFlags([]string{"-works", "w.txt"})
		assert.ErrorContains(t, err, "-authors")

		cmd = NewLoadCommand(&config.Config{})
		assert.NoError(t, cmd.ParseFlags([]string{"-skip-authors", "-works", "w.txt"}))
	})
}

func TestLoadCommand_Run(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeFile(t, cfg.Dumps.AuthorsPath,
		"/type/author\t/authors/OL1A\t1\t2008-01-01T00:00:00.000000\t{\"key\":\"/authors/OL1A\",\"name\":\"Jane\"}\n"+
			"broken line\n")
	writeFile(t, cfg.Dumps.WorksPath,
		"/type/work\t/works/OL1W\t1\t2008-01-01T00:00:00.000000\t{\"key\":\"/works/OL1W\",\"title\":\"T\",\"authors\":[{\"author\":{\"key\":\"/authors/OL1A\"}}]}\n")

	var out bytes.Buffer
	cmd := NewLoadCommand(cfg)
	cmd.out = &out
	require.NoError(t, cmd.ParseFlags(nil))
	require.NoError(t, cmd.Run(context.Background()))

	assert.Contains(t, out.String(), "authors: 2 processed, 1 saved, 1 failed")
	assert.Contains(t, out.String(), "malformed_line")
	assert.Contains(t, out.String(), "Load complete!")

	db, err := database.NewDatabase(cfg.Database.Path)
	require.NoError(t, err)
	defer db.Close()

	book, found, err := db.Books.FindBookByID(context.Background(), "OL1W")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"Jane"}, []string(book.AuthorNames))

	runs, err := db.Loads.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "completed", string(runs[0].Status))
}

func TestLoadCommand_RunMissingDump(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeFile(t, cfg.Dumps.WorksPath, "")

	var out bytes.Buffer
	cmd := NewLoadCommand(cfg)
	cmd.out = &out
	require.NoError(t, cmd.ParseFlags(nil))

	err := cmd.Run(context.Background())
	assert.ErrorIs(t, err, ErrIncompleteLoad)
	assert.Contains(t, out.String(), "[ERROR]")
}
