// Package report renders finished crawl results in several formats:
// human-readable text, JSON, Markdown, and an XLSX spreadsheet export.
package report
