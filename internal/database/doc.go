// Package database provides SQLite-based persistence for crawl results.
// Finished site results are stored per run so later runs can be compared,
// and individual contacts carry first-seen/last-seen timestamps across runs.
package database
