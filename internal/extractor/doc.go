// Package extractor pulls contact identifiers out of fetched page content.
//
// Two independent extraction passes run over a page's text: email
// extraction (a single regex, matches kept verbatim) and phone extraction
// (a pluggable strategy producing canonical international numbers).
// Both passes are pure functions over their input: they never mutate the
// page text, never perform network I/O, and never propagate per-candidate
// parse failures.
package extractor
