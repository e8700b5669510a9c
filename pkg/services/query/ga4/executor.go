package ga4

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"

	"github.com/de-tools/traffic-atlas/pkg/services/query"
)

// executor runs report queries against the Google Analytics Data API.
type executor struct {
	service *analyticsdata.Service
}

// NewExecutor creates a query.Executor backed by the GA4 Data API.
// Credentials resolve in order: raw key JSON, key file path, then
// application default credentials when the config carries neither.
func NewExecutor(ctx context.Context, cfg *Config) (query.Executor, error) {
	var opts []option.ClientOption
	if cfg.Credentials != "" {
		credentials := strings.TrimSpace(cfg.Credentials)
		if strings.HasPrefix(credentials, "{") {
			opts = append(opts, option.WithCredentialsJSON([]byte(credentials)))
		} else {
			opts = append(opts, option.WithCredentialsFile(credentials))
		}
	}

	service, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics service: %w", err)
	}

	return &executor{service: service}, nil
}

func (e *executor) Execute(
	ctx context.Context,
	siteID string,
	startDate, endDate string,
	metrics string,
	opts map[string]string,
) (*query.Result, error) {
	req, err := buildRequest(startDate, endDate, metrics, opts)
	if err != nil {
		return nil, err
	}

	property := propertyName(siteID)
	resp, err := e.service.Properties.RunReport(property, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to run report for %s: %w", property, err)
	}

	result := transformResponse(resp)
	zerolog.Ctx(ctx).Debug().
		Str("property", property).
		Str("metrics", metrics).
		Int64("rows", result.RowCount).
		Msg("report query executed")

	return result, nil
}

func propertyName(siteID string) string {
	if strings.HasPrefix(siteID, "properties/") {
		return siteID
	}
	return "properties/" + siteID
}

// buildRequest translates generic query arguments into a GA4 report request.
func buildRequest(startDate, endDate, metrics string, opts map[string]string) (*analyticsdata.RunReportRequest, error) {
	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{StartDate: startDate, EndDate: endDate}},
		Metrics:    parseMetrics(metrics),
	}

	if dims := opts[query.OptDimensions]; dims != "" {
		for _, name := range splitList(dims) {
			req.Dimensions = append(req.Dimensions, &analyticsdata.Dimension{Name: name})
		}
	}

	if sort := opts[query.OptSort]; sort != "" {
		req.OrderBys = buildOrderBys(sort, req.Metrics)
	}

	if max := opts[query.OptMaxResults]; max != "" {
		limit, err := strconv.ParseInt(max, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid max-results value %q: %w", max, err)
		}
		req.Limit = limit
	}

	return req, nil
}

func parseMetrics(metrics string) []*analyticsdata.Metric {
	var parsed []*analyticsdata.Metric
	for _, name := range splitList(metrics) {
		parsed = append(parsed, &analyticsdata.Metric{Name: name})
	}
	return parsed
}

// buildOrderBys maps sort expressions onto metric or dimension orderings.
// A leading '-' selects descending order; names matching a requested metric
// sort by that metric, everything else sorts as a dimension.
func buildOrderBys(sort string, metrics []*analyticsdata.Metric) []*analyticsdata.OrderBy {
	requested := make(map[string]bool, len(metrics))
	for _, m := range metrics {
		requested[m.Name] = true
	}

	var orderBys []*analyticsdata.OrderBy
	for _, expr := range splitList(sort) {
		desc := strings.HasPrefix(expr, "-")
		name := strings.TrimPrefix(expr, "-")

		if requested[name] {
			orderBys = append(orderBys, &analyticsdata.OrderBy{
				Metric: &analyticsdata.MetricOrderBy{MetricName: name},
				Desc:   desc,
			})
			continue
		}
		orderBys = append(orderBys, &analyticsdata.OrderBy{
			Dimension: &analyticsdata.DimensionOrderBy{DimensionName: name},
			Desc:      desc,
		})
	}
	return orderBys
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

// transformResponse flattens API rows into plain string cells, dimension
// values first. A response with no rows keeps Rows nil so callers can tell
// "no data" apart from an empty table.
func transformResponse(resp *analyticsdata.RunReportResponse) *query.Result {
	result := &query.Result{RowCount: resp.RowCount}
	for _, row := range resp.Rows {
		cells := make([]string, 0, len(row.DimensionValues)+len(row.MetricValues))
		for _, d := range row.DimensionValues {
			cells = append(cells, d.Value)
		}
		for _, m := range row.MetricValues {
			cells = append(cells, m.Value)
		}
		result.Rows = append(result.Rows, cells)
	}
	return result
}
