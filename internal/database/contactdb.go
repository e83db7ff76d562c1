package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/contactscan/internal/model"
)

// ContactDB provides SQLite-based storage for crawl results.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all sites rather than
// one file per site. This keeps cross-site queries (listing, bulk export)
// trivial and makes backup a single-file copy.
type ContactDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ContactDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ContactDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ContactDB, error) {
	dbPath := filepath.Join(dbDir, "contactscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY errors under the write-heavy save path.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &ContactDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *ContactDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *ContactDB) createTables() error {
	schema := `
	-- Site results store one finished crawl of one seed as JSON,
	-- with summary columns for listing without deserialization
	CREATE TABLE IF NOT EXISTS site_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		result_json TEXT NOT NULL,
		email_count INTEGER NOT NULL DEFAULT 0,
		phone_count INTEGER NOT NULL DEFAULT 0,
		pages_visited INTEGER NOT NULL DEFAULT 0,
		stop_reason TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_results_site ON site_results(site);
	CREATE INDEX IF NOT EXISTS idx_results_timestamp ON site_results(timestamp);

	-- Contacts track each discovered identifier across runs
	CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL,
		kind TEXT NOT NULL,
		value TEXT NOT NULL,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(site, kind, value)
	);

	CREATE INDEX IF NOT EXISTS idx_contacts_site ON contacts(site);
	CREATE INDEX IF NOT EXISTS idx_contacts_kind ON contacts(kind);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// Contact kinds stored in the contacts table.
const (
	// ContactKindEmail marks an email address row.
	ContactKindEmail = "email"

	// ContactKindPhone marks a canonical phone number row.
	ContactKindPhone = "phone"
)

// ErrNoHost is returned when a result's URL carries no host to key the
// stored rows on.
var ErrNoHost = errors.New("result URL has no host")

// siteKey derives the host a result is stored under.
func siteKey(result *model.SiteResult) (string, error) {
	u, err := url.Parse(result.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse result URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrNoHost, result.URL)
	}
	return u.Host, nil
}

// SaveSiteResult stores one finished crawl result and upserts its contacts.
// Re-discovered contacts keep their first_seen timestamp and get a fresh
// last_seen; new ones get both set to now.
func (cdb *ContactDB) SaveSiteResult(ctx context.Context, result *model.SiteResult) error {
	site, err := siteKey(result)
	if err != nil {
		return err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	query := `
	INSERT INTO site_results (site, result_json, email_count, phone_count, pages_visited, stop_reason)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = cdb.db.ExecContext(ctx, query,
		site,
		string(resultJSON),
		len(result.Emails),
		len(result.Phones),
		result.PagesVisited,
		result.StopReason.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save site result: %w", err)
	}

	for _, email := range result.Emails {
		if err := cdb.upsertContact(ctx, site, ContactKindEmail, email); err != nil {
			return err
		}
	}
	for _, phone := range result.Phones {
		if err := cdb.upsertContact(ctx, site, ContactKindPhone, phone); err != nil {
			return err
		}
	}

	return nil
}

// upsertContact inserts a contact row or refreshes its last_seen timestamp.
func (cdb *ContactDB) upsertContact(ctx context.Context, site, kind, value string) error {
	query := `
	INSERT INTO contacts (site, kind, value)
	VALUES (?, ?, ?)
	ON CONFLICT(site, kind, value) DO UPDATE SET
		last_seen = CURRENT_TIMESTAMP
	`

	if _, err := cdb.db.ExecContext(ctx, query, site, kind, value); err != nil {
		return fmt.Errorf("failed to upsert contact: %w", err)
	}
	return nil
}

// ListSites returns the hosts that have at least one stored result.
func (cdb *ContactDB) ListSites(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT site FROM site_results
	ORDER BY site
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}

	return sites, rows.Err()
}

// GetSiteHistory retrieves all stored results for a site, newest first.
func (cdb *ContactDB) GetSiteHistory(ctx context.Context, site string) ([]*model.SiteResult, error) {
	query := `
	SELECT result_json FROM site_results
	WHERE site = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, site)
	if err != nil {
		return nil, fmt.Errorf("failed to get site history: %w", err)
	}
	defer rows.Close()

	var results []*model.SiteResult
	for rows.Next() {
		var resultJSON string
		if err := rows.Scan(&resultJSON); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		var result model.SiteResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			continue // Skip malformed rows
		}
		results = append(results, &result)
	}

	return results, rows.Err()
}

// ResultMetadata contains summary information about a stored result.
// This is used for displaying crawl history without loading full results.
type ResultMetadata struct {
	// ID is the unique identifier of the result row in the database.
	ID int64

	// Site is the host the crawl was stored under.
	Site string

	// Timestamp is when the result was saved.
	Timestamp time.Time

	// EmailCount and PhoneCount summarize the stored result.
	EmailCount int
	PhoneCount int

	// PagesVisited is the number of pages fetched during that crawl.
	PagesVisited int

	// StopReason is the stored termination token.
	StopReason string
}

// GetSiteHistoryWithMetadata retrieves result metadata for a site,
// newest first. This is more efficient than GetSiteHistory when only
// the summary columns are needed.
func (cdb *ContactDB) GetSiteHistoryWithMetadata(ctx context.Context, site string) ([]ResultMetadata, error) {
	query := `
	SELECT id, site, timestamp, email_count, phone_count, pages_visited, stop_reason
	FROM site_results
	WHERE site = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, site)
	if err != nil {
		return nil, fmt.Errorf("failed to get site history: %w", err)
	}
	defer rows.Close()

	var results []ResultMetadata
	for rows.Next() {
		var meta ResultMetadata
		var timestamp string

		if err := rows.Scan(
			&meta.ID,
			&meta.Site,
			&timestamp,
			&meta.EmailCount,
			&meta.PhoneCount,
			&meta.PagesVisited,
			&meta.StopReason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// LatestTwo retrieves the most recent and the second most recent results
// for a site. Either return value may be nil when fewer runs are stored.
func (cdb *ContactDB) LatestTwo(ctx context.Context, site string) (latest, previous *model.SiteResult, err error) {
	query := `
	SELECT result_json FROM site_results
	WHERE site = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 2
	`

	rows, err := cdb.db.QueryContext(ctx, query, site)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get latest results: %w", err)
	}
	defer rows.Close()

	var results []*model.SiteResult
	for rows.Next() {
		var resultJSON string
		if err := rows.Scan(&resultJSON); err != nil {
			return nil, nil, fmt.Errorf("failed to scan result: %w", err)
		}

		var result model.SiteResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return nil, nil, fmt.Errorf("failed to parse result: %w", err)
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	if len(results) > 0 {
		latest = results[0]
	}
	if len(results) > 1 {
		previous = results[1]
	}
	return latest, previous, nil
}

// ContactRecord is one stored contact with its discovery window.
type ContactRecord struct {
	// Site is the host the contact was found on.
	Site string

	// Kind is ContactKindEmail or ContactKindPhone.
	Kind string

	// Value is the address or canonical number.
	Value string

	// FirstSeen is when the contact was first stored.
	FirstSeen time.Time

	// LastSeen is when the contact was most recently re-discovered.
	LastSeen time.Time
}

// GetContacts retrieves the stored contacts for a site, oldest first.
func (cdb *ContactDB) GetContacts(ctx context.Context, site string) ([]ContactRecord, error) {
	query := `
	SELECT site, kind, value, first_seen, last_seen
	FROM contacts
	WHERE site = ?
	ORDER BY first_seen, id
	`

	rows, err := cdb.db.QueryContext(ctx, query, site)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	defer rows.Close()

	var contacts []ContactRecord
	for rows.Next() {
		var c ContactRecord
		var firstSeen, lastSeen string

		if err := rows.Scan(&c.Site, &c.Kind, &c.Value, &firstSeen, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}

		c.FirstSeen = parseTimestamp(firstSeen)
		c.LastSeen = parseTimestamp(lastSeen)
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
