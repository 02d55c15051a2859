package models

// Status is the terminal classification of a single referral check.
type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
	StatusError   Status = "error"
	StatusUnknown Status = "unknown"
)

// ReferralRecord is one row of the input file after validation.
// Code is the value of the URL's `code` query parameter; records
// without an extractable code never leave the loader.
type ReferralRecord struct {
	// URL is the full referral link to visit.
	URL string

	// Name is the referrer's display name; "Unknown" when the input
	// row has no usable name.
	Name string

	// Code is the referral code extracted from URL. Never empty.
	Code string
}

// CheckOutcome is a ReferralRecord after classification.
type CheckOutcome struct {
	ReferralRecord

	// Status is exactly one of the four Status values.
	Status Status
}
