package reports

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/services/query"
)

// Grouping selects the bucket granularity of the visitors and page views
// series. Values other than the two named groupings are forwarded to the
// executor verbatim and rejected there, not validated up front.
type Grouping string

const (
	GroupingDate      Grouping = "date"
	GroupingYearMonth Grouping = "yearMonth"
)

// Defaults applied when a report is requested with a non-positive day count
// or result cap.
const (
	DefaultDays          = 365
	DefaultReferrerLimit = 20
	DefaultBrowserLimit  = 6
	DefaultPageLimit     = 20
)

// OtherBrowsersLabel names the synthetic row the browser report folds the
// long tail into.
const OtherBrowsersLabel = "Other"

// Metric and dimension identifiers sent to the executor.
const (
	metricVisitors  = "totalUsers"
	metricPageViews = "screenPageViews"
	metricSessions  = "sessions"

	dimReferrer = "pageReferrer"
	dimBrowser  = "browser"
	dimPagePath = "pagePath"
)

const timeSeriesMetrics = metricVisitors + "," + metricPageViews

// Builder produces typed traffic reports for one site. Every report is a
// single executor query followed by a pure row-to-record mapping step; the
// executor's own failures propagate to the caller unchanged.
//
// A Builder holds a mutable site identifier. Swapping it with SetSiteID is
// not safe concurrently with report calls; callers fanning out over several
// sites should construct one Builder per site instead of sharing one.
type Builder struct {
	executor query.Executor
	siteID   string
	now      func() time.Time
}

// NewBuilder returns a Builder issuing queries for siteID through executor.
func NewBuilder(executor query.Executor, siteID string) *Builder {
	return &Builder{
		executor: executor,
		siteID:   siteID,
		now:      time.Now,
	}
}

// SetSiteID swaps the site subsequent reports are built for. The value is
// not validated; an unknown identifier surfaces as an executor failure.
func (b *Builder) SetSiteID(id string) {
	b.siteID = id
}

// SiteID returns the current site identifier.
func (b *Builder) SiteID() string {
	return b.siteID
}

// VisitorsAndPageViews reports the visitors and page views series for the
// last days days, bucketed by groupBy. Non-positive days defaults to a year,
// empty groupBy to daily buckets.
func (b *Builder) VisitorsAndPageViews(ctx context.Context, days int, groupBy Grouping) ([]domain.TimeSeriesPoint, error) {
	return b.VisitorsAndPageViewsForPeriod(ctx, b.lastDays(days), groupBy)
}

// VisitorsAndPageViewsForPeriod reports the visitors and page views series
// for an explicit period.
func (b *Builder) VisitorsAndPageViewsForPeriod(ctx context.Context, period domain.Period, groupBy Grouping) ([]domain.TimeSeriesPoint, error) {
	if groupBy == "" {
		groupBy = GroupingDate
	}

	result, err := b.Query(ctx, period, timeSeriesMetrics, map[string]string{
		query.OptDimensions: string(groupBy),
	})
	if err != nil {
		return nil, err
	}

	return transformTimeSeries(result, bucketLayout(groupBy))
}

// TopReferrers reports the referrers with the most page views over the last
// days days, capped at max entries by the executor.
func (b *Builder) TopReferrers(ctx context.Context, days, max int) ([]domain.ReferrerStat, error) {
	return b.TopReferrersForPeriod(ctx, b.lastDays(days), max)
}

// TopReferrersForPeriod reports the top referrers for an explicit period.
func (b *Builder) TopReferrersForPeriod(ctx context.Context, period domain.Period, max int) ([]domain.ReferrerStat, error) {
	if max <= 0 {
		max = DefaultReferrerLimit
	}

	result, err := b.Query(ctx, period, metricPageViews, map[string]string{
		query.OptDimensions: dimReferrer,
		query.OptSort:       "-" + metricPageViews,
		query.OptMaxResults: strconv.Itoa(max),
	})
	if err != nil {
		return nil, err
	}

	return transformReferrers(result)
}

// TopBrowsers reports browser session counts over the last days days. The
// full descending-sessions list is fetched without a server-side cap; when
// it is longer than max, the tail beyond the first max-1 entries is folded
// into a single "Other" row, so the result never exceeds max entries.
func (b *Builder) TopBrowsers(ctx context.Context, days, max int) ([]domain.BrowserStat, error) {
	return b.TopBrowsersForPeriod(ctx, b.lastDays(days), max)
}

// TopBrowsersForPeriod reports browser session counts for an explicit period.
func (b *Builder) TopBrowsersForPeriod(ctx context.Context, period domain.Period, max int) ([]domain.BrowserStat, error) {
	if max <= 0 {
		max = DefaultBrowserLimit
	}

	result, err := b.Query(ctx, period, metricSessions, map[string]string{
		query.OptDimensions: dimBrowser,
		query.OptSort:       "-" + metricSessions,
	})
	if err != nil {
		return nil, err
	}

	browsers, err := transformBrowsers(result)
	if err != nil {
		return nil, err
	}

	return foldBrowserTail(browsers, max), nil
}

// MostVisitedPages reports the page paths with the most page views over the
// last days days, capped at max entries by the executor.
func (b *Builder) MostVisitedPages(ctx context.Context, days, max int) ([]domain.PageStat, error) {
	return b.MostVisitedPagesForPeriod(ctx, b.lastDays(days), max)
}

// MostVisitedPagesForPeriod reports the most visited pages for an explicit
// period.
func (b *Builder) MostVisitedPagesForPeriod(ctx context.Context, period domain.Period, max int) ([]domain.PageStat, error) {
	if max <= 0 {
		max = DefaultPageLimit
	}

	result, err := b.Query(ctx, period, metricPageViews, map[string]string{
		query.OptDimensions: dimPagePath,
		query.OptSort:       "-" + metricPageViews,
		query.OptMaxResults: strconv.Itoa(max),
	})
	if err != nil {
		return nil, err
	}

	return transformPages(result)
}

// Query forwards a raw metrics query for the current site, formatting the
// period bounds as yyyy-MM-dd strings. The executor result is returned
// untouched; every other report operation is built on top of this seam.
func (b *Builder) Query(ctx context.Context, period domain.Period, metrics string, opts map[string]string) (*query.Result, error) {
	startDate, endDate := period.Format()
	return b.executor.Execute(ctx, b.siteID, startDate, endDate, metrics, opts)
}

// Summary assembles the traffic series, top referrers, browsers and most
// visited pages for the last year into a single report.
func (b *Builder) Summary(ctx context.Context) (*domain.Report, error) {
	return b.SummaryForPeriod(ctx, b.lastDays(DefaultDays))
}

// SummaryForPeriod assembles the full traffic report for an explicit period.
func (b *Builder) SummaryForPeriod(ctx context.Context, period domain.Period) (*domain.Report, error) {
	points, err := b.VisitorsAndPageViewsForPeriod(ctx, period, GroupingDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get visitors and page views: %w", err)
	}

	referrers, err := b.TopReferrersForPeriod(ctx, period, DefaultReferrerLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top referrers: %w", err)
	}

	browsers, err := b.TopBrowsersForPeriod(ctx, period, DefaultBrowserLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top browsers: %w", err)
	}

	pages, err := b.MostVisitedPagesForPeriod(ctx, period, DefaultPageLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get most visited pages: %w", err)
	}

	var totalVisitors, totalPageViews int
	for _, p := range points {
		totalVisitors += p.Visitors
		totalPageViews += p.PageViews
	}

	startDate, endDate := period.Format()
	return &domain.Report{
		Title:  fmt.Sprintf("Traffic report %s - %s", startDate, endDate),
		SiteID: b.siteID,
		Period: period,
		Sections: []domain.ReportSection{
			{
				Title: "Traffic",
				Summary: map[string]interface{}{
					"visitors":  totalVisitors,
					"pageViews": totalPageViews,
					"days":      period.Days(),
				},
			},
			{Title: "Top referrers", Details: referrerDetails(referrers)},
			{Title: "Browsers", Details: browserDetails(browsers)},
			{Title: "Most visited pages", Details: pageDetails(pages)},
		},
	}, nil
}

func (b *Builder) lastDays(days int) domain.Period {
	if days <= 0 {
		days = DefaultDays
	}
	return domain.LastDays(days, b.now())
}

func bucketLayout(groupBy Grouping) string {
	if groupBy == GroupingYearMonth {
		return "200601"
	}
	return "20060102"
}

// transformTimeSeries converts [bucket, visitors, pageViews] rows into
// domain TimeSeriesPoint models. Malformed bucket or count cells surface as
// failures rather than being dropped.
func transformTimeSeries(result *query.Result, layout string) ([]domain.TimeSeriesPoint, error) {
	points := make([]domain.TimeSeriesPoint, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("malformed time series row: expected 3 cells, got %d", len(row))
		}

		date, err := time.Parse(layout, row[0])
		if err != nil {
			return nil, fmt.Errorf("failed to parse bucket %q: %w", row[0], err)
		}
		visitors, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("failed to parse visitors %q: %w", row[1], err)
		}
		pageViews, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("failed to parse page views %q: %w", row[2], err)
		}

		points = append(points, domain.TimeSeriesPoint{
			Date:      date,
			Visitors:  visitors,
			PageViews: pageViews,
		})
	}
	return points, nil
}

// transformReferrers converts [url, pageViews] rows into domain ReferrerStat
// models.
func transformReferrers(result *query.Result) ([]domain.ReferrerStat, error) {
	stats := make([]domain.ReferrerStat, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("malformed referrer row: expected 2 cells, got %d", len(row))
		}

		pageViews, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("failed to parse page views %q: %w", row[1], err)
		}

		stats = append(stats, domain.ReferrerStat{URL: row[0], PageViews: pageViews})
	}
	return stats, nil
}

// transformBrowsers converts [browser, sessions] rows into domain
// BrowserStat models.
func transformBrowsers(result *query.Result) ([]domain.BrowserStat, error) {
	stats := make([]domain.BrowserStat, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("malformed browser row: expected 2 cells, got %d", len(row))
		}

		sessions, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("failed to parse sessions %q: %w", row[1], err)
		}

		stats = append(stats, domain.BrowserStat{Browser: row[0], Sessions: sessions})
	}
	return stats, nil
}

// transformPages converts [url, pageViews] rows into domain PageStat models.
func transformPages(result *query.Result) ([]domain.PageStat, error) {
	stats := make([]domain.PageStat, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("malformed page row: expected 2 cells, got %d", len(row))
		}

		pageViews, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("failed to parse page views %q: %w", row[1], err)
		}

		stats = append(stats, domain.PageStat{URL: row[0], PageViews: pageViews})
	}
	return stats, nil
}

// foldBrowserTail keeps the first max-1 entries of a descending-sessions
// list and collapses the remainder into a single "Other" row, so the result
// is never longer than max. Lists already within max are returned unchanged.
func foldBrowserTail(browsers []domain.BrowserStat, max int) []domain.BrowserStat {
	if len(browsers) <= max {
		return browsers
	}

	folded := make([]domain.BrowserStat, 0, max)
	folded = append(folded, browsers[:max-1]...)

	other := domain.BrowserStat{Browser: OtherBrowsersLabel}
	for _, stat := range browsers[max-1:] {
		other.Sessions += stat.Sessions
	}

	return append(folded, other)
}

func referrerDetails(stats []domain.ReferrerStat) []domain.ReportDetail {
	details := make([]domain.ReportDetail, 0, len(stats))
	for _, s := range stats {
		details = append(details, domain.ReportDetail{Name: s.URL, Value: s.PageViews, Unit: "page views"})
	}
	return details
}

func browserDetails(stats []domain.BrowserStat) []domain.ReportDetail {
	details := make([]domain.ReportDetail, 0, len(stats))
	for _, s := range stats {
		details = append(details, domain.ReportDetail{Name: s.Browser, Value: s.Sessions, Unit: "sessions"})
	}
	return details
}

func pageDetails(stats []domain.PageStat) []domain.ReportDetail {
	details := make([]domain.ReportDetail, 0, len(stats))
	for _, s := range stats {
		details = append(details, domain.ReportDetail{Name: s.URL, Value: s.PageViews, Unit: "page views"})
	}
	return details
}
