// Package dump reads line-delimited dump files, transparently decompressing
// .gz and .zst inputs.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
)

// MaxLineSize bounds a single dump line. Works with long descriptions run
// well past bufio's 64KB default.
const MaxLineSize = 64 * 1024 * 1024

// Reader yields the lines of a dump file in order.
type Reader struct {
	path    string
	file    *os.File
	closers []func() error
	scanner *bufio.Scanner
	lineNo  int
}

// Open opens path for line iteration. The compression format is chosen
// from the file extension.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump %s: %w", path, err)
	}

	r := &Reader{path: path, file: f}

	var src io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		g, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip dump %s: %w", path, err)
		}
		r.closers = append(r.closers, g.Close)
		src = g
	case ".zst", ".zstd":
		z, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open zstd dump %s: %w", path, err)
		}
		r.closers = append(r.closers, func() error {
			z.Close()
			return nil
		})
		src = z
	}

	r.scanner = bufio.NewScanner(src)
	r.scanner.Buffer(make([]byte, 0, 1024*1024), MaxLineSize)
	return r, nil
}

// NewReader wraps an already-open, uncompressed source. Close is a no-op.
func NewReader(name string, src io.Reader) *Reader {
	s := bufio.NewScanner(src)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Reader{path: name, scanner: s}
}

// Next advances to the next line. It returns false at EOF or on error;
// check Err afterwards.
func (r *Reader) Next() bool {
	if !r.scanner.Scan() {
		return false
	}
	r.lineNo++
	return true
}

// Line returns the current line without its trailing newline.
func (r *Reader) Line() string {
	return strings.TrimSuffix(r.scanner.Text(), "\r")
}

// LineNumber is the 1-based index of the current line.
func (r *Reader) LineNumber() int {
	return r.lineNo
}

// Path returns the name the reader was opened with.
func (r *Reader) Path() string {
	return r.path
}

func (r *Reader) Err() error {
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("read dump %s after line %d: %w", r.path, r.lineNo, err)
	}
	return nil
}

func (r *Reader) Close() error {
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
