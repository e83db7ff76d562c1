package seed

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeTestFile writes content to a file in a temp dir and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

// TestLoadFileText tests the plain-text seed format.
func TestLoadFileText(t *testing.T) {
	t.Parallel()

	t.Run("one seed per line with comments", func(t *testing.T) {
		t.Parallel()

		content := `# customer sites
example.it
https://www.other.example.com

# duplicate below
example.it
`
		seeds, err := LoadFile(writeTestFile(t, "seeds.txt", content))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{"example.it", "https://www.other.example.com"}
		if !reflect.DeepEqual(seeds, expected) {
			t.Errorf("expected %v, got %v", expected, seeds)
		}
	})

	t.Run("empty file yields no seeds", func(t *testing.T) {
		t.Parallel()

		seeds, err := LoadFile(writeTestFile(t, "seeds.txt", "\n\n# only comments\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seeds) != 0 {
			t.Errorf("expected no seeds, got %v", seeds)
		}
	})
}

// TestLoadFileCSV tests URL column detection in CSV files.
func TestLoadFileCSV(t *testing.T) {
	t.Parallel()

	t.Run("detects the URL column", func(t *testing.T) {
		t.Parallel()

		content := `Name,Website,Notes
Rossi Srl,https://www.rossi.it,call first
Bianchi Snc,bianchi.example.it,
Verdi SpA,www.verdi.it,closed in august
`
		seeds, err := LoadFile(writeTestFile(t, "seeds.csv", content))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{"https://www.rossi.it", "bianchi.example.it", "www.verdi.it"}
		if !reflect.DeepEqual(seeds, expected) {
			t.Errorf("expected %v, got %v", expected, seeds)
		}
	})

	t.Run("no URL column is an error", func(t *testing.T) {
		t.Parallel()

		content := `Name,Phone
Rossi,0331 123456
Bianchi,02 9876543
`
		if _, err := LoadFile(writeTestFile(t, "seeds.csv", content)); err == nil {
			t.Error("expected error for CSV without URLs")
		}
	})
}

// TestLoadFileXLSX tests URL column detection in spreadsheets.
func TestLoadFileXLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seeds.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Company", "Site", "City"},
		{"Rossi Srl", "https://www.rossi.it", "Milano"},
		{"Bianchi Snc", "bianchi.example.it", "Torino"},
		{"Verdi SpA", "", "Roma"},
		{"Neri Sas", "www.neri.it", "Napoli"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seeds, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"https://www.rossi.it", "bianchi.example.it", "www.neri.it"}
	if !reflect.DeepEqual(seeds, expected) {
		t.Errorf("expected %v, got %v", expected, seeds)
	}
}

// TestLoadFileUnsupported tests extension dispatch.
func TestLoadFileUnsupported(t *testing.T) {
	t.Parallel()

	if _, err := LoadFile(writeTestFile(t, "seeds.json", "[]")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

// TestMerge tests combining positional and file seeds.
func TestMerge(t *testing.T) {
	t.Parallel()

	got := Merge(
		[]string{"a.example.it", "b.example.it"},
		[]string{"b.example.it", "c.example.it"},
	)
	expected := []string{"a.example.it", "b.example.it", "c.example.it"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

// TestLooksLikeURL tests the cell classifier.
func TestLooksLikeURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected bool
	}{
		{input: "https://example.it", expected: true},
		{input: "http://www.example.it/path", expected: true},
		{input: "www.example.it", expected: true},
		{input: "example.it", expected: true},
		{input: "  example.it  ", expected: true},
		{input: "", expected: false},
		{input: "Rossi Srl", expected: false},
		{input: "0331 123456", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			if got := looksLikeURL(tc.input); got != tc.expected {
				t.Errorf("looksLikeURL(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		})
	}
}
