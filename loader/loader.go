// Package loader reads the referral-link CSV and turns each usable row
// into a models.ReferralRecord. File-level problems are fatal; per-row
// problems are logged and the row is skipped.
package loader

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/use-agent/refcheck/models"
)

// Load reads a CSV file with a header row containing at least a "link"
// column and optionally a "name" column, and returns the records in file
// order. Rows with an empty link, a non-http(s) link, a malformed URL or
// a URL without a `code` query parameter are skipped with a warning.
func Load(path string) ([]models.ReferralRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, models.NewCheckError(models.ErrCodeInput, "failed to open input file", err)
	}
	defer f.Close()

	return parse(f)
}

func parse(r io.Reader) ([]models.ReferralRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may be ragged; columns are located by header
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, models.NewCheckError(models.ErrCodeInput, "failed to read CSV header", err)
	}

	linkIdx, nameIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "link":
			linkIdx = i
		case "name":
			nameIdx = i
		}
	}
	if linkIdx < 0 {
		return nil, models.NewCheckError(models.ErrCodeInput, `input file has no "link" column`, nil)
	}

	var records []models.ReferralRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, models.NewCheckError(models.ErrCodeInput, "failed to parse CSV row", err)
		}
		if linkIdx >= len(row) {
			continue
		}

		link := strings.TrimSpace(row[linkIdx])
		if link == "" {
			continue
		}
		if !hasHTTPScheme(link) {
			slog.Warn("skipping row: link is not an http(s) URL", "link", link)
			continue
		}

		code, err := ExtractCode(link)
		if err != nil {
			slog.Warn("skipping row: malformed URL", "link", link, "error", err)
			continue
		}
		if code == "" {
			slog.Warn("skipping row: could not extract code from URL", "link", link)
			continue
		}

		name := "Unknown"
		if nameIdx >= 0 && nameIdx < len(row) {
			if n := strings.TrimSpace(row[nameIdx]); n != "" {
				name = n
			}
		}

		records = append(records, models.ReferralRecord{
			URL:  link,
			Name: name,
			Code: code,
		})
	}

	return records, nil
}

// ExtractCode returns the value of the `code` query parameter, or an
// empty string when the URL has none.
func ExtractCode(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return u.Query().Get("code"), nil
}

func hasHTTPScheme(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
