package query

import "context"

// Option keys understood by executors. Values are forwarded to the
// underlying service untouched.
const (
	OptDimensions = "dimensions"
	OptSort       = "sort"
	OptMaxResults = "max-results"
)

// Result is the tabular response to a metrics query. Rows is nil when the
// service reported no data; callers that need a sequence treat nil and
// empty identically.
type Result struct {
	Rows     [][]string
	RowCount int64
}

// Executor runs a single metrics query over a date range against an
// analytics backend. Dates are yyyy-MM-dd strings. Implementations own
// transport and auth; failures are returned unchanged.
type Executor interface {
	Execute(
		ctx context.Context,
		siteID string,
		startDate, endDate string,
		metrics string,
		opts map[string]string,
	) (*Result, error)
}
