package seed

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Loader errors.
var (
	// ErrUnsupportedFormat is returned for seed files with an extension
	// other than .txt, .csv, or .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported seed file format")

	// ErrNoURLColumn is returned when no spreadsheet or CSV column looks
	// like it holds website URLs.
	ErrNoURLColumn = errors.New("no column containing website URLs was detected")
)

// urlPattern decides whether a cell plausibly holds a website address.
// It accepts bare domains with or without scheme and www prefix; the
// crawl's own seed validation does the strict parsing later.
var urlPattern = regexp.MustCompile(`^(https?://)?(www\.)?[\w-]+\.[\w.-]+`)

// looksLikeURL reports whether the trimmed value matches urlPattern.
func looksLikeURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return urlPattern.MatchString(s)
}

// LoadFile reads a seed list from path, dispatching on the file
// extension. Duplicates are dropped, first occurrence wins, and order is
// otherwise preserved.
func LoadFile(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return loadText(path)
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// dedup removes duplicates preserving first-seen order.
func dedup(seeds []string) []string {
	seen := make(map[string]bool, len(seeds))
	out := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// loadText reads one seed per line. Blank lines and lines starting with
// '#' are skipped so the file can carry comments.
func loadText(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided seed file path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	var seeds []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return dedup(seeds), nil
}

// loadCSV reads seeds from the URL-bearing column of a CSV file,
// detected the same way as for spreadsheets.
func loadCSV(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided seed file path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are fine
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return seedsFromRows(rows)
}

// loadXLSX reads seeds from the URL-bearing column of the first sheet.
func loadXLSX(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoURLColumn
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	return seedsFromRows(rows)
}

// seedsFromRows picks the column with the highest share of URL-looking
// cells and returns its non-empty values. A header cell that fails the
// URL test is skipped automatically, since only matching cells are kept.
//
// Design decision: We score columns by ratio rather than taking the
// first matching column because real spreadsheets put names, notes, and
// IDs before the address column, and some of those occasionally look
// like domains.
func seedsFromRows(rows [][]string) ([]string, error) {
	columns := 0
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}
	if columns == 0 {
		return nil, ErrNoURLColumn
	}

	bestCol := -1
	bestRatio := 0.0
	for col := 0; col < columns; col++ {
		var nonEmpty, urls int
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			nonEmpty++
			if looksLikeURL(cell) {
				urls++
			}
		}
		if nonEmpty == 0 {
			continue
		}
		ratio := float64(urls) / float64(nonEmpty)
		if ratio > bestRatio {
			bestRatio = ratio
			bestCol = col
		}
	}
	if bestCol < 0 || bestRatio == 0 {
		return nil, ErrNoURLColumn
	}

	var seeds []string
	for _, row := range rows {
		if bestCol >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[bestCol])
		if cell == "" || !looksLikeURL(cell) {
			continue
		}
		seeds = append(seeds, cell)
	}

	return dedup(seeds), nil
}

// Merge appends loaded seeds to the given list, dropping any that are
// already present. The combined order is positional seeds first, then
// file seeds in file order.
func Merge(existing, loaded []string) []string {
	return dedup(append(append([]string{}, existing...), loaded...))
}
