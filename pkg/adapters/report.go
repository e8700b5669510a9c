package adapters

import (
	"github.com/de-tools/traffic-atlas/pkg/models/api"
	"github.com/de-tools/traffic-atlas/pkg/models/domain"
)

func MapSiteDomainToApi(site domain.Site) api.Site {
	return api.Site{Name: site.Name}
}

func MapPeriodDomainToApi(period domain.Period) api.TimePeriod {
	return api.TimePeriod{
		Start:    period.Start,
		End:      period.End,
		Duration: period.Days(),
	}
}

func MapTimeSeriesDomainToApi(points []domain.TimeSeriesPoint) []api.TimeSeriesPoint {
	mapped := make([]api.TimeSeriesPoint, 0, len(points))
	for _, p := range points {
		mapped = append(mapped, api.TimeSeriesPoint{
			Date:      p.Date.Format(domain.DateLayout),
			Visitors:  p.Visitors,
			PageViews: p.PageViews,
		})
	}
	return mapped
}

func MapReferrerStatsDomainToApi(stats []domain.ReferrerStat) []api.ReferrerStat {
	mapped := make([]api.ReferrerStat, 0, len(stats))
	for _, s := range stats {
		mapped = append(mapped, api.ReferrerStat{URL: s.URL, PageViews: s.PageViews})
	}
	return mapped
}

func MapBrowserStatsDomainToApi(stats []domain.BrowserStat) []api.BrowserStat {
	mapped := make([]api.BrowserStat, 0, len(stats))
	for _, s := range stats {
		mapped = append(mapped, api.BrowserStat{Browser: s.Browser, Sessions: s.Sessions})
	}
	return mapped
}

func MapPageStatsDomainToApi(stats []domain.PageStat) []api.PageStat {
	mapped := make([]api.PageStat, 0, len(stats))
	for _, s := range stats {
		mapped = append(mapped, api.PageStat{URL: s.URL, PageViews: s.PageViews})
	}
	return mapped
}

func MapReportDomainToApi(report *domain.Report) api.Report {
	apiReport := api.Report{
		Title:    report.Title,
		Site:     report.SiteID,
		Period:   MapPeriodDomainToApi(report.Period),
		Sections: []api.ReportSection{},
	}

	for _, s := range report.Sections {
		section := api.ReportSection{
			Title:   s.Title,
			Summary: s.Summary,
		}
		for _, d := range s.Details {
			section.Details = append(section.Details, api.ReportDetail{
				Name:  d.Name,
				Value: d.Value,
				Unit:  d.Unit,
			})
		}
		apiReport.Sections = append(apiReport.Sections, section)
	}

	return apiReport
}
