package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "links.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, `name,link
Alice,https://cursor.com/referral?code=ABC123
,https://cursor.com/referral?code=DEF456
Bob,  https://cursor.com/referral?code=GHI789
`)

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Load() returned %d records, want 3", len(records))
	}

	if records[0].Code != "ABC123" || records[0].Name != "Alice" {
		t.Errorf("records[0] = %+v, want code ABC123 name Alice", records[0])
	}
	if records[1].Name != "Unknown" {
		t.Errorf("blank name should default to Unknown, got %q", records[1].Name)
	}
	if records[2].URL != "https://cursor.com/referral?code=GHI789" {
		t.Errorf("link not trimmed: %q", records[2].URL)
	}
}

func TestLoad_SkipsBadRows(t *testing.T) {
	path := writeCSV(t, `link,name
https://cursor.com/referral?code=KEEP,ok
,empty link
ftp://cursor.com/referral?code=X,wrong scheme
https://cursor.com/referral,no code param
https://bad host/?code=Y,malformed
`)

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Load() returned %d records, want 1: %+v", len(records), records)
	}
	if records[0].Code != "KEEP" {
		t.Errorf("surviving record has code %q, want KEEP", records[0].Code)
	}
}

func TestLoad_MissingLinkColumn(t *testing.T) {
	path := writeCSV(t, "name,url\nAlice,https://example.com?code=X\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load() should fail when the link column is missing")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
}

func TestLoad_ShortRows(t *testing.T) {
	// The link column is second; a one-field row cannot contain it.
	path := writeCSV(t, "name,link\nonlyname\nBob,https://x.test/?code=Z\n")

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(records) != 1 || records[0].Code != "Z" {
		t.Fatalf("Load() = %+v, want single record with code Z", records)
	}
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"simple", "https://cursor.com/referral?code=ABC123", "ABC123"},
		{"extra params", "https://cursor.com/referral?code=ABC123&name=x", "ABC123"},
		{"no code", "https://cursor.com/referral?ref=ABC123", ""},
		{"no query", "https://cursor.com/referral", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractCode(tt.url)
			if err != nil {
				t.Fatalf("ExtractCode(%q) error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractCode(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
