package domain

import "time"

// TimeSeriesPoint represents one bucket of the visitors and page views
// series. Date carries the bucket start: the calendar day, or the first
// day of the month when the series is grouped by month.
type TimeSeriesPoint struct {
	Date      time.Time
	Visitors  int
	PageViews int
}

// ReferrerStat represents page views attributed to one referrer URL
type ReferrerStat struct {
	URL       string
	PageViews int
}

// BrowserStat represents sessions attributed to one browser
type BrowserStat struct {
	Browser  string
	Sessions int
}

// PageStat represents page views counted for one page path
type PageStat struct {
	URL       string
	PageViews int
}

// Report represents a complete traffic report for one site
type Report struct {
	Title    string
	SiteID   string
	Period   Period
	Sections []ReportSection
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents detailed information within a section
type ReportDetail struct {
	Name  string
	Value interface{}
	Unit  string
}
