// Package openlibrary turns lines of the OpenLibrary authors and works dumps
// into normalized catalog records.
//
// # Line Format
//
// Each dump line is a tab-separated record whose last column is a JSON object:
//
//	/type/author	/authors/OL1A	3	2008-04-01T03:28:50.625462	{"key": "/authors/OL1A", ...}
//
// ExtractJSON discards everything before the first '{' and DecodeObject parses
// the remainder.
//
// # Mapping
//
// Authors and works follow different field policies:
//
//   - MapAuthor is lenient. Missing or mistyped members become "".
//   - WorkMapper is strict about key, covers elements, authors[].author and
//     created.value. A failure rejects the whole line with a *LineError.
//
// Author ids referenced by a work are resolved through AuthorResolver, which
// substitutes UnknownAuthor for ids that are not stored yet.
//
// # Errors
//
// Every failure is a *LineError carrying a Kind. Callers match kinds with
// errors.Is against the ErrXxx sentinels or read them with KindOf.
package openlibrary
