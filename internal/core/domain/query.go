package domain

// RangeRequest describes how a caller asked for a range: either a named
// period or a pair of custom strings. Both empty selects the default period.
type RangeRequest struct {
	// Period is a named period token.
	Period string

	// CustomStart and CustomEnd are explicit bounds in
	// YYYY-MM-DD [HH:MM] format.
	CustomStart string
	CustomEnd   string
}

// IsCustom returns true if explicit bounds were given.
func (r RangeRequest) IsCustom() bool {
	return r.CustomStart != "" || r.CustomEnd != ""
}

// QueryOptions configures a meeting query.
type QueryOptions struct {
	// Range restricts results to appointments inside it.
	Range DateRange

	// Filters are applied after the range restriction.
	Filters FilterSet

	// IncludePast keeps meetings that ended before now.
	IncludePast bool
}
