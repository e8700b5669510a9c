package sites

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/traffic-atlas/pkg/models/api"
	"github.com/de-tools/traffic-atlas/pkg/models/domain"
	"github.com/de-tools/traffic-atlas/pkg/services/query"
	"github.com/de-tools/traffic-atlas/pkg/services/reports"
)

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) ListSites(ctx context.Context) ([]domain.Site, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Site), args.Error(1)
}

func (m *mockExplorer) GetReportBuilder(ctx context.Context, s domain.Site) (*reports.Builder, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reports.Builder), args.Error(1)
}

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(
	ctx context.Context,
	siteID string,
	startDate, endDate string,
	metrics string,
	opts map[string]string,
) (*query.Result, error) {
	args := m.Called(ctx, siteID, startDate, endDate, metrics, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.Result), args.Error(1)
}

func siteRequest(path, siteName string) *http.Request {
	req := httptest.NewRequest("GET", path, nil)

	// Set up chi context with URL parameters
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("site", siteName)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func TestListSites(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*mockExplorer)
		expectedStatus int
		expectedBody   []api.Site
	}{
		{
			name: "successful response",
			setupMock: func(m *mockExplorer) {
				m.On("ListSites", mock.Anything).Return(
					[]domain.Site{{Name: "blog"}, {Name: "shop"}},
					nil,
				)
			},
			expectedStatus: http.StatusOK,
			expectedBody: []api.Site{
				{Name: "blog"},
				{Name: "shop"},
			},
		},
		{
			name: "empty site list",
			setupMock: func(m *mockExplorer) {
				m.On("ListSites", mock.Anything).Return([]domain.Site{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []api.Site{},
		},
		{
			name: "registry failure",
			setupMock: func(m *mockExplorer) {
				m.On("ListSites", mock.Anything).Return(nil, errors.New("registry unreadable"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explorer := new(mockExplorer)
			tt.setupMock(explorer)
			handler := NewHandler(explorer)

			req := httptest.NewRequest("GET", "/sites", nil)
			rec := httptest.NewRecorder()

			handler.ListSites(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var response []api.Site
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
				assert.Equal(t, tt.expectedBody, response)
			}
			explorer.AssertExpectations(t)
		})
	}
}

func TestGetPageViews(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*mockExplorer, *mockExecutor)
		expectedStatus int
		expectedBody   []api.TimeSeriesPoint
	}{
		{
			name: "explicit period with daily buckets",
			path: "/sites/blog/pageviews?from=2026-01-01&to=2026-01-31",
			setupMock: func(me *mockExplorer, ex *mockExecutor) {
				me.On("GetReportBuilder", mock.Anything, domain.Site{Name: "blog"}).
					Return(reports.NewBuilder(ex, "123456"), nil)
				ex.On("Execute", mock.Anything, "123456", "2026-01-01", "2026-01-31",
					"totalUsers,screenPageViews", map[string]string{"dimensions": "date"}).
					Return(&query.Result{
						Rows:     [][]string{{"20260115", "120", "400"}},
						RowCount: 1,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: []api.TimeSeriesPoint{
				{Date: "2026-01-15", Visitors: 120, PageViews: 400},
			},
		},
		{
			name: "monthly grouping",
			path: "/sites/blog/pageviews?from=2026-01-01&to=2026-03-31&group_by=yearMonth",
			setupMock: func(me *mockExplorer, ex *mockExecutor) {
				me.On("GetReportBuilder", mock.Anything, domain.Site{Name: "blog"}).
					Return(reports.NewBuilder(ex, "123456"), nil)
				ex.On("Execute", mock.Anything, "123456", "2026-01-01", "2026-03-31",
					"totalUsers,screenPageViews", map[string]string{"dimensions": "yearMonth"}).
					Return(&query.Result{
						Rows:     [][]string{{"202601", "1200", "4000"}},
						RowCount: 1,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: []api.TimeSeriesPoint{
				{Date: "2026-01-01", Visitors: 1200, PageViews: 4000},
			},
		},
		{
			name: "invalid from date",
			path: "/sites/blog/pageviews?from=invalid-date",
			setupMock: func(me *mockExplorer, ex *mockExecutor) {
				me.On("GetReportBuilder", mock.Anything, domain.Site{Name: "blog"}).
					Return(reports.NewBuilder(ex, "123456"), nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid days value",
			path: "/sites/blog/pageviews?days=soon",
			setupMock: func(me *mockExplorer, ex *mockExecutor) {
				me.On("GetReportBuilder", mock.Anything, domain.Site{Name: "blog"}).
					Return(reports.NewBuilder(ex, "123456"), nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown site",
			path: "/sites/blog/pageviews",
			setupMock: func(me *mockExplorer, ex *mockExecutor) {
				me.On("GetReportBuilder", mock.Anything, domain.Site{Name: "blog"}).
					Return(nil, errors.New("site blog not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "executor failure",
			path: "/sites/blog/pageviews?from=2026-01-01&to=2026-01-31",
			setupMock: func(me *mockExplorer, ex *mockExecutor) {
				me.On("GetReportBuilder", mock.Anything, domain.Site{Name: "blog"}).
					Return(reports.NewBuilder(ex, "123456"), nil)
				ex.On("Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
					mock.Anything, mock.Anything).
					Return(nil, errors.New("quota exceeded"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explorer := new(mockExplorer)
			executor := new(mockExecutor)
			tt.setupMock(explorer, executor)
			handler := NewHandler(explorer)

			rec := httptest.NewRecorder()
			handler.GetPageViews(rec, siteRequest(tt.path, "blog"))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var response []api.TimeSeriesPoint
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
				assert.Equal(t, tt.expectedBody, response)
			}
			explorer.AssertExpectations(t)
			executor.AssertExpectations(t)
		})
	}
}

func TestGetReferrers(t *testing.T) {
	explorer := new(mockExplorer)
	executor := new(mockExecutor)
	explorer.On("GetReportBuilder", mock.Anything, domain.Site{Name: "blog"}).
		Return(reports.NewBuilder(executor, "123456"), nil)
	executor.On("Execute", mock.Anything, "123456", mock.Anything, mock.Anything,
		"screenPageViews", map[string]string{
			"dimensions":  "pageReferrer",
			"sort":        "-screenPageViews",
			"max-results": "5",
		}).
		Return(&query.Result{
			Rows:     [][]string{{"https://news.ycombinator.com/", "1200"}},
			RowCount: 1,
		}, nil)

	handler := NewHandler(explorer)
	rec := httptest.NewRecorder()
	handler.GetReferrers(rec, siteRequest("/sites/blog/referrers?days=30&max=5", "blog"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []api.ReferrerStat
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, []api.ReferrerStat{
		{URL: "https://news.ycombinator.com/", PageViews: 1200},
	}, response)
	executor.AssertExpectations(t)
}

func TestGetBrowsers_FoldsTail(t *testing.T) {
	rows := [][]string{
		{"Chrome", "1000"},
		{"Safari", "800"},
		{"Firefox", "600"},
		{"Edge", "400"},
		{"Opera", "200"},
		{"Brave", "100"},
		{"Vivaldi", "50"},
		{"Lynx", "25"},
	}

	explorer := new(mockExplorer)
	executor := new(mockExecutor)
	explorer.On("GetReportBuilder", mock.Anything, domain.Site{Name: "blog"}).
		Return(reports.NewBuilder(executor, "123456"), nil)
	executor.On("Execute", mock.Anything, "123456", mock.Anything, mock.Anything,
		"sessions", map[string]string{
			"dimensions": "browser",
			"sort":       "-sessions",
		}).
		Return(&query.Result{Rows: rows, RowCount: int64(len(rows))}, nil)

	handler := NewHandler(explorer)
	rec := httptest.NewRecorder()
	handler.GetBrowsers(rec, siteRequest("/sites/blog/browsers?days=30&max=6", "blog"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []api.BrowserStat
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response, 6)
	assert.Equal(t, api.BrowserStat{Browser: "Other", Sessions: 175}, response[5])
}

func TestGetPages(t *testing.T) {
	explorer := new(mockExplorer)
	executor := new(mockExecutor)
	explorer.On("GetReportBuilder", mock.Anything, domain.Site{Name: "blog"}).
		Return(reports.NewBuilder(executor, "123456"), nil)
	executor.On("Execute", mock.Anything, "123456", "2026-01-01", "2026-01-31",
		"screenPageViews", map[string]string{
			"dimensions":  "pagePath",
			"sort":        "-screenPageViews",
			"max-results": "20",
		}).
		Return(&query.Result{
			Rows:     [][]string{{"/blog/hello-world", "700"}, {"/", "500"}},
			RowCount: 2,
		}, nil)

	handler := NewHandler(explorer)
	rec := httptest.NewRecorder()
	handler.GetPages(rec, siteRequest("/sites/blog/pages?from=2026-01-01&to=2026-01-31", "blog"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []api.PageStat
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, []api.PageStat{
		{URL: "/blog/hello-world", PageViews: 700},
		{URL: "/", PageViews: 500},
	}, response)
}

func TestGetSummary(t *testing.T) {
	explorer := new(mockExplorer)
	executor := new(mockExecutor)
	explorer.On("GetReportBuilder", mock.Anything, domain.Site{Name: "blog"}).
		Return(reports.NewBuilder(executor, "123456"), nil)
	executor.On("Execute", mock.Anything, "123456", "2026-08-01", "2026-08-23",
		"totalUsers,screenPageViews", mock.Anything).
		Return(&query.Result{Rows: [][]string{{"20260801", "10", "30"}}, RowCount: 1}, nil)
	executor.On("Execute", mock.Anything, "123456", "2026-08-01", "2026-08-23",
		"screenPageViews", map[string]string{
			"dimensions":  "pageReferrer",
			"sort":        "-screenPageViews",
			"max-results": "20",
		}).
		Return(&query.Result{Rows: [][]string{{"https://duckduckgo.com/", "5"}}, RowCount: 1}, nil)
	executor.On("Execute", mock.Anything, "123456", "2026-08-01", "2026-08-23",
		"sessions", mock.Anything).
		Return(&query.Result{Rows: [][]string{{"Chrome", "9"}}, RowCount: 1}, nil)
	executor.On("Execute", mock.Anything, "123456", "2026-08-01", "2026-08-23",
		"screenPageViews", map[string]string{
			"dimensions":  "pagePath",
			"sort":        "-screenPageViews",
			"max-results": "20",
		}).
		Return(&query.Result{Rows: [][]string{{"/blog", "12"}}, RowCount: 1}, nil)

	handler := NewHandler(explorer)
	rec := httptest.NewRecorder()
	handler.GetSummary(rec, siteRequest("/sites/blog/summary?from=2026-08-01&to=2026-08-23", "blog"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response api.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "Traffic report 2026-08-01 - 2026-08-23", response.Title)
	assert.Equal(t, "123456", response.Site)
	require.Len(t, response.Sections, 4)
	assert.Equal(t, "Traffic", response.Sections[0].Title)
}

func TestRequestPeriod(t *testing.T) {
	tests := []struct {
		name        string
		rawQuery    string
		expectOk    bool
		expectError string
		expected    domain.Period
	}{
		{
			name:     "no period parameters",
			rawQuery: "days=30",
			expectOk: false,
		},
		{
			name:     "valid explicit period",
			rawQuery: "from=2026-01-01&to=2026-01-31",
			expectOk: true,
			expected: domain.Period{
				Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:        "invalid from date",
			rawQuery:    "from=01-07-2026&to=2026-01-31",
			expectError: "invalid 'from' date format. Expected format: YYYY-MM-DD",
		},
		{
			name:        "invalid to date",
			rawQuery:    "from=2026-01-01&to=tomorrow",
			expectError: "invalid 'to' date format. Expected format: YYYY-MM-DD",
		},
		{
			name:        "missing to",
			rawQuery:    "from=2026-01-01",
			expectError: "both 'from' and 'to' are required",
		},
		{
			name:        "start after end",
			rawQuery:    "from=2026-01-31&to=2026-01-01",
			expectError: "must not be after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.rawQuery)
			require.NoError(t, err)

			period, ok, err := requestPeriod(q)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectOk, ok)
			if tt.expectOk {
				assert.Equal(t, tt.expected, period)
			}
		})
	}
}
