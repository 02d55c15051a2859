// Package classify decides whether a loaded referral page indicates a
// valid (unclaimed) or invalid (claimed) code. It is a pure function over
// a PageView snapshot so it can be exercised without a browser.
package classify

import (
	"fmt"
	"strings"

	"github.com/use-agent/refcheck/models"
)

// ElementSelector is the fixed set of candidate elements inspected by the
// element-scan fallback: headings plus anything tagged as a message,
// error, success or credit banner.
const ElementSelector = "h1, h2, h3, .message, .error, .success, .credit"

// PageView is the observable surface of a loaded page: full rendered
// text, title, and the texts of the ElementSelector matches in document
// order. All matching is case-insensitive; fields may arrive in any case.
type PageView struct {
	Text     string
	Title    string
	Elements []string
}

// Classifier holds the credit amount the valid-code heuristics look for.
type Classifier struct {
	marker string // "$<amount>", e.g. "$50"
}

// New returns a Classifier matching the given whole-dollar credit amount.
func New(dollarAmount int) *Classifier {
	return &Classifier{marker: fmt.Sprintf("$%d", dollarAmount)}
}

// Classify applies the matching heuristics in fixed order, first match
// wins. Page structure across referral-program deployments is not
// guaranteed, so coarse full-text checks run first and structured
// elements are only consulted as a fallback; "unknown" is the safe
// non-claim when nothing fires. It never returns StatusError; that
// classification belongs to the caller on navigation failure.
func (c *Classifier) Classify(view PageView) models.Status {
	text := strings.ToLower(view.Text)

	// ── 1. Valid: credit mention plus the configured amount ─────────
	if c.isValidText(text) {
		return models.StatusValid
	}

	// ── 2. Invalid: known phrases, then a looser word fallback ──────
	if isInvalidText(text) {
		return models.StatusInvalid
	}

	// ── 3. Title fallback ────────────────────────────────────────────
	title := strings.ToLower(view.Title)
	if strings.Contains(title, "invalid") && strings.Contains(title, "referral") {
		return models.StatusInvalid
	}

	// ── 4. Element scan, document order, first match wins ───────────
	for _, el := range view.Elements {
		elText := strings.ToLower(el)
		if strings.Contains(elText, "invalid referral code") {
			return models.StatusInvalid
		}
		// NOTE: the element scan accepts a literal "$20" that the
		// primary text check does not.
		if strings.Contains(elText, "credit") &&
			(strings.Contains(elText, c.marker) || strings.Contains(elText, "$20")) {
			return models.StatusValid
		}
	}

	return models.StatusUnknown
}

// isValidText reports whether text indicates a valid (unclaimed) code.
// Both conditions are required; "credit" alone shows up on too many
// unrelated pages.
func (c *Classifier) isValidText(text string) bool {
	return strings.Contains(text, "credit") && strings.Contains(text, c.marker)
}

// isInvalidText reports whether text indicates an invalid (claimed) code.
func isInvalidText(text string) bool {
	invalidPhrases := []string{
		"invalid referral code",
		"this referral code is invalid",
	}
	for _, phrase := range invalidPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	// Looser fallback for phrasing variants: the three words anywhere,
	// not necessarily contiguous.
	return strings.Contains(text, "invalid") &&
		strings.Contains(text, "referral") &&
		strings.Contains(text, "code")
}
