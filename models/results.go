package models

// RunResults partitions the outcomes of a run by status, preserving
// input order within each partition. Total always equals the sum of
// the four partition lengths.
type RunResults struct {
	Valid   []CheckOutcome
	Invalid []CheckOutcome
	Errored []CheckOutcome
	Unknown []CheckOutcome
	Total   int
}

// Add appends an outcome to the partition matching its status.
// Outcomes carrying an unrecognized status land in Unknown so the
// Total invariant holds no matter what.
func (r *RunResults) Add(o CheckOutcome) {
	switch o.Status {
	case StatusValid:
		r.Valid = append(r.Valid, o)
	case StatusInvalid:
		r.Invalid = append(r.Invalid, o)
	case StatusError:
		r.Errored = append(r.Errored, o)
	default:
		r.Unknown = append(r.Unknown, o)
	}
	r.Total++
}
