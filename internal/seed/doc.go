// Package seed loads seed URL lists from files. Plain text, CSV, and
// XLSX spreadsheets are supported; spreadsheet columns holding the URLs
// are auto-detected.
package seed
