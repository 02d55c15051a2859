// Package report renders run results: a human-readable console summary
// and a persisted plain-text report. Both are pure functions of the
// results, so repeated rendering of the same run is byte-identical.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/use-agent/refcheck/models"
)

// PrintSummary writes the end-of-run console summary: per-status counts
// and a Code/URL listing of every valid result. With zero valid codes
// the listing is simply omitted.
func PrintSummary(w io.Writer, results *models.RunResults) {
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintln(w, "ANALYSIS RESULTS")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "\n📊 SUMMARY:")
	fmt.Fprintf(w, "   Valid (Unclaimed): %d\n", len(results.Valid))
	fmt.Fprintf(w, "   Invalid (Claimed): %d\n", len(results.Invalid))
	fmt.Fprintf(w, "   Errors: %d\n", len(results.Errored))
	fmt.Fprintf(w, "   Unknown: %d\n", len(results.Unknown))
	fmt.Fprintf(w, "   Total: %d\n", results.Total)

	if len(results.Valid) > 0 {
		fmt.Fprintf(w, "\n✅ VALID/UNCLAIMED CODES (%d):\n", len(results.Valid))
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for _, o := range results.Valid {
			fmt.Fprintf(w, "   Code: %s\n", o.Code)
			fmt.Fprintf(w, "   URL:  %s\n\n", o.URL)
		}
	}
}

// Write renders the persisted report body.
func Write(w io.Writer, results *models.RunResults) {
	fmt.Fprintln(w, "REFERRAL CODE ANALYSIS RESULTS")
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 50))
	fmt.Fprintf(w, "Total Codes Checked: %d\n\n", results.Total)

	if len(results.Valid) > 0 {
		fmt.Fprintln(w, "VALID/UNCLAIMED CODES:")
		fmt.Fprintln(w, strings.Repeat("-", 30))
		for _, o := range results.Valid {
			fmt.Fprintf(w, "Code: %s\n", o.Code)
			fmt.Fprintf(w, "URL: %s\n\n", o.URL)
		}
	}
}

// Save writes the report to path, overwriting any previous run's file.
func Save(path string, results *models.RunResults) error {
	f, err := os.Create(path)
	if err != nil {
		return models.NewCheckError(models.ErrCodeReport, "failed to create report file", err)
	}
	defer f.Close()

	Write(f, results)
	return f.Sync()
}
