package api

import "time"

type Site struct {
	Name string `json:"name"`
}

type TimePeriod struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration int       `json:"duration_days"`
}

type TimeSeriesPoint struct {
	Date      string `json:"date"`
	Visitors  int    `json:"visitors"`
	PageViews int    `json:"page_views"`
}

type ReferrerStat struct {
	URL       string `json:"url"`
	PageViews int    `json:"page_views"`
}

type BrowserStat struct {
	Browser  string `json:"browser"`
	Sessions int    `json:"sessions"`
}

type PageStat struct {
	URL       string `json:"url"`
	PageViews int    `json:"page_views"`
}

type ReportDetail struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
	Unit  string      `json:"unit"`
}

type ReportSection struct {
	Title   string                 `json:"title"`
	Summary map[string]interface{} `json:"summary,omitempty"`
	Details []ReportDetail         `json:"details,omitempty"`
}

type Report struct {
	Title    string          `json:"title"`
	Site     string          `json:"site"`
	Period   TimePeriod      `json:"period"`
	Sections []ReportSection `json:"sections"`
}
