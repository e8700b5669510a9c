package sites

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/de-tools/traffic-atlas/pkg/adapters"
	"github.com/de-tools/traffic-atlas/pkg/models/api"
	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/services/reports"
	"github.com/de-tools/traffic-atlas/pkg/services/site"
)

type Handler struct {
	sites site.Explorer
}

func NewHandler(sites site.Explorer) *Handler {
	return &Handler{sites: sites}
}

func (h *Handler) ListSites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	siteList, err := h.sites.ListSites(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list sites")
		http.Error(w, "failed to list sites", http.StatusInternalServerError)
		return
	}

	response := make([]api.Site, 0, len(siteList))
	for _, s := range siteList {
		response = append(response, adapters.MapSiteDomainToApi(s))
	}

	writeJSON(w, logger, response)
}

func (h *Handler) GetPageViews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	siteName := chi.URLParam(r, "site")
	q := r.URL.Query()

	builder, err := h.sites.GetReportBuilder(ctx, domain.Site{Name: siteName})
	if err != nil {
		logger.Error().Err(err).Str("site", siteName).Msg("failed to resolve site")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	groupBy := reports.Grouping(q.Get("group_by"))

	period, explicit, err := requestPeriod(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var points []domain.TimeSeriesPoint
	if explicit {
		points, err = builder.VisitorsAndPageViewsForPeriod(ctx, period, groupBy)
	} else {
		days, derr := intParam(q, "days")
		if derr != nil {
			http.Error(w, derr.Error(), http.StatusBadRequest)
			return
		}
		points, err = builder.VisitorsAndPageViews(ctx, days, groupBy)
	}
	if err != nil {
		logger.Error().Err(err).Str("site", siteName).Msg("failed to get visitors and page views")
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, logger, adapters.MapTimeSeriesDomainToApi(points))
}

func (h *Handler) GetReferrers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	siteName := chi.URLParam(r, "site")
	q := r.URL.Query()

	builder, err := h.sites.GetReportBuilder(ctx, domain.Site{Name: siteName})
	if err != nil {
		logger.Error().Err(err).Str("site", siteName).Msg("failed to resolve site")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	max, err := intParam(q, "max")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	period, explicit, err := requestPeriod(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var referrers []domain.ReferrerStat
	if explicit {
		referrers, err = builder.TopReferrersForPeriod(ctx, period, max)
	} else {
		days, derr := intParam(q, "days")
		if derr != nil {
			http.Error(w, derr.Error(), http.StatusBadRequest)
			return
		}
		referrers, err = builder.TopReferrers(ctx, days, max)
	}
	if err != nil {
		logger.Error().Err(err).Str("site", siteName).Msg("failed to get top referrers")
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, logger, adapters.MapReferrerStatsDomainToApi(referrers))
}

func (h *Handler) GetBrowsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	siteName := chi.URLParam(r, "site")
	q := r.URL.Query()

	builder, err := h.sites.GetReportBuilder(ctx, domain.Site{Name: siteName})
	if err != nil {
		logger.Error().Err(err).Str("site", siteName).Msg("failed to resolve site")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	max, err := intParam(q, "max")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	period, explicit, err := requestPeriod(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var browsers []domain.BrowserStat
	if explicit {
		browsers, err = builder.TopBrowsersForPeriod(ctx, period, max)
	} else {
		days, derr := intParam(q, "days")
		if derr != nil {
			http.Error(w, derr.Error(), http.StatusBadRequest)
			return
		}
		browsers, err = builder.TopBrowsers(ctx, days, max)
	}
	if err != nil {
		logger.Error().Err(err).Str("site", siteName).Msg("failed to get top browsers")
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, logger, adapters.MapBrowserStatsDomainToApi(browsers))
}

func (h *Handler) GetPages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	siteName := chi.URLParam(r, "site")
	q := r.URL.Query()

	builder, err := h.sites.GetReportBuilder(ctx, domain.Site{Name: siteName})
	if err != nil {
		logger.Error().Err(err).Str("site", siteName).Msg("failed to resolve site")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	max, err := intParam(q, "max")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	period, explicit, err := requestPeriod(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var pages []domain.PageStat
	if explicit {
		pages, err = builder.MostVisitedPagesForPeriod(ctx, period, max)
	} else {
		days, derr := intParam(q, "days")
		if derr != nil {
			http.Error(w, derr.Error(), http.StatusBadRequest)
			return
		}
		pages, err = builder.MostVisitedPages(ctx, days, max)
	}
	if err != nil {
		logger.Error().Err(err).Str("site", siteName).Msg("failed to get most visited pages")
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, logger, adapters.MapPageStatsDomainToApi(pages))
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	siteName := chi.URLParam(r, "site")
	q := r.URL.Query()

	builder, err := h.sites.GetReportBuilder(ctx, domain.Site{Name: siteName})
	if err != nil {
		logger.Error().Err(err).Str("site", siteName).Msg("failed to resolve site")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	period, explicit, err := requestPeriod(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var report *domain.Report
	if explicit {
		report, err = builder.SummaryForPeriod(ctx, period)
	} else {
		report, err = builder.Summary(ctx)
	}
	if err != nil {
		logger.Error().Err(err).Str("site", siteName).Msg("failed to build summary")
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, logger, adapters.MapReportDomainToApi(report))
}

// requestPeriod resolves the from/to query parameters into an explicit
// period. The second return is false when neither parameter is present and
// the caller should fall back to the days parameter.
func requestPeriod(q url.Values) (domain.Period, bool, error) {
	fromStr := q.Get("from")
	toStr := q.Get("to")
	if fromStr == "" && toStr == "" {
		return domain.Period{}, false, nil
	}

	var from, to time.Time
	var err error

	if fromStr != "" {
		from, err = time.Parse(domain.DateLayout, fromStr)
		if err != nil {
			return domain.Period{}, false, errors.New("invalid 'from' date format. Expected format: YYYY-MM-DD")
		}
	}
	if toStr != "" {
		to, err = time.Parse(domain.DateLayout, toStr)
		if err != nil {
			return domain.Period{}, false, errors.New("invalid 'to' date format. Expected format: YYYY-MM-DD")
		}
	}
	if fromStr == "" || toStr == "" {
		return domain.Period{}, false, errors.New("both 'from' and 'to' are required for an explicit period")
	}

	period, err := domain.NewPeriod(from, to)
	if err != nil {
		return domain.Period{}, false, err
	}
	return period, true, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid '%s' value: expected an integer", name)
	}
	return value, nil
}

func writeJSON(w http.ResponseWriter, logger *zerolog.Logger, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}
