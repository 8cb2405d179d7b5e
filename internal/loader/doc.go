// Package loader drives the two-pass import of OpenLibrary dumps.
//
// # Flow
//
//	authors dump → ExtractJSON → MapAuthor  → AuthorStore.SaveAuthor
//	works dump   → ExtractJSON → WorkMapper → BookStore.SaveBook
//	                                 ↑
//	                     AuthorResolver (reads AuthorStore)
//
// The authors pass always finishes before the works pass starts. A line that
// fails extraction, mapping or saving is logged with its file and line number,
// counted in PassResult.Failed, and skipped. A dump that cannot be opened or
// read fails only its own pass.
//
// # Usage
//
//	l := loader.New(loader.Paths{Authors: a, Works: w}, db.Authors, db.Books)
//	report, err := l.Run(ctx)
//
// Service wraps Loader and records every execution as an entities.LoadRun.
package loader
