package domain

// CodeCount is one entry of the top-errors list.
type CodeCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// Stats is an aggregate snapshot of observed classifications.
// ByCategory and BySeverity carry an entry for every enumerated value,
// zero-filled, so consumers never need to probe for missing keys.
type Stats struct {
	TotalErrors int              `json:"total_errors"`
	ByCategory  map[Category]int `json:"errors_by_category"`
	BySeverity  map[Severity]int `json:"errors_by_severity"`
	TopErrors   []CodeCount      `json:"top_errors"`
}
