package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/statreport/pkg/models/api"
	"github.com/de-tools/statreport/pkg/models/domain"
	"github.com/de-tools/statreport/pkg/services/document"
	"github.com/de-tools/statreport/pkg/services/stats"
)

type mockStats struct {
	mock.Mock
}

func (m *mockStats) List(ctx context.Context, filter domain.StatFilter) ([]domain.ReportRow, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ReportRow), args.Error(1)
}

func (m *mockStats) Search(ctx context.Context, text string) ([]domain.ReportRow, error) {
	args := m.Called(ctx, text)
	return args.Get(0).([]domain.ReportRow), args.Error(1)
}

func (m *mockStats) Get(ctx context.Context, id string) (domain.ReportRow, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ReportRow), args.Error(1)
}

func (m *mockStats) GetMany(ctx context.Context, ids []string) ([]domain.ReportRow, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.ReportRow), args.Error(1)
}

func (m *mockStats) ByCode(ctx context.Context, code string) ([]domain.ReportRow, error) {
	args := m.Called(ctx, code)
	return args.Get(0).([]domain.ReportRow), args.Error(1)
}

func (m *mockStats) Codes(ctx context.Context) ([]domain.StatCode, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.StatCode), args.Error(1)
}

func (m *mockStats) Totals(ctx context.Context) (domain.StatTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StatTotals), args.Error(1)
}

type mockDocuments struct {
	mock.Mock
}

func (m *mockDocuments) Summary(ctx context.Context, filter domain.StatFilter) (*domain.Document, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockDocuments) ByCode(ctx context.Context, code string) (*domain.Document, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockDocuments) Detail(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockDocuments) Details(ctx context.Context, ids []string) (*domain.Document, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	mockSvc := new(mockStats)
	mockDocs := new(mockDocuments)

	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	row := domain.ReportRow{
		ID:        "7d0c",
		Code:      "47.11",
		Label:     "Retail sale in non-specialised stores",
		CreatedAt: created,
		UpdatedAt: created,
	}
	pdfDoc := &domain.Document{Name: "stat-47.11.pdf", ContentType: document.ContentTypePDF, Data: []byte("%PDF-1.3")}

	router := ConfigureRouter(&logger, Dependencies{Stats: mockSvc, Documents: mockDocs})
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func(*http.Response, []byte) (interface{}, error)
	}{
		{
			name:   "ListStats",
			method: http.MethodGet,
			path:   "/api/v1/stats?label=retail",
			setupMocks: func() {
				mockSvc.On("List", mock.Anything, domain.StatFilter{Label: "retail"}).
					Return([]domain.ReportRow{row}, nil)
			},
			expectedStatus: http.StatusOK,
			expected: []api.StatRecord{{
				ID:        "7d0c",
				Code:      "47.11",
				Label:     "Retail sale in non-specialised stores",
				CreatedAt: created,
				UpdatedAt: created,
			}},
			parseResponse: unmarshalResponse[[]api.StatRecord](),
		},
		{
			name:   "SearchStats",
			method: http.MethodGet,
			path:   "/api/v1/stats/search/47",
			setupMocks: func() {
				mockSvc.On("Search", mock.Anything, "47").Return([]domain.ReportRow{}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       []api.StatRecord{},
			parseResponse:  unmarshalResponse[[]api.StatRecord](),
		},
		{
			name:   "GetStat_NotFound",
			method: http.MethodGet,
			path:   "/api/v1/stats/nope",
			setupMocks: func() {
				mockSvc.On("Get", mock.Anything, "nope").Return(domain.ReportRow{}, stats.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expected:       "stat record not found",
			parseResponse: func(_ *http.Response, data []byte) (interface{}, error) {
				var resp api.ErrorResponse
				err := json.Unmarshal(data, &resp)
				return resp.Message, err
			},
		},
		{
			name:   "ListCodes",
			method: http.MethodGet,
			path:   "/api/v1/stats/codes",
			setupMocks: func() {
				mockSvc.On("Codes", mock.Anything).Return([]domain.StatCode{{Code: "47.11", Label: "Retail"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       []api.StatCode{{Code: "47.11", Label: "Retail"}},
			parseResponse:  unmarshalResponse[[]api.StatCode](),
		},
		{
			name:   "Totals",
			method: http.MethodGet,
			path:   "/api/v1/stats/totals",
			setupMocks: func() {
				mockSvc.On("Totals", mock.Anything).Return(domain.StatTotals{Records: 1, Taxpayers: 4}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       api.StatTotals{Records: 1, Taxpayers: 4},
			parseResponse:  unmarshalResponse[api.StatTotals](),
		},
		{
			name:   "StatsByCode",
			method: http.MethodGet,
			path:   "/api/v1/stats/code/47.11",
			setupMocks: func() {
				mockSvc.On("ByCode", mock.Anything, "47.11").Return([]domain.ReportRow{row}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       1,
			parseResponse: func(_ *http.Response, data []byte) (interface{}, error) {
				var resp []api.StatRecord
				err := json.Unmarshal(data, &resp)
				return len(resp), err
			},
		},
		{
			name:   "SummaryReport",
			method: http.MethodGet,
			path:   "/api/v1/reports/summary.pdf?code=47&headcount_max=50",
			setupMocks: func() {
				mockDocs.On("Summary", mock.Anything, mock.MatchedBy(func(f domain.StatFilter) bool {
					return f.Code == "47" && f.HeadcountMax != nil && *f.HeadcountMax == 50
				})).Return(pdfDoc, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       "application/pdf %PDF-1.3",
			parseResponse: func(resp *http.Response, data []byte) (interface{}, error) {
				return resp.Header.Get("Content-Type") + " " + string(data), nil
			},
		},
		{
			name:   "CodeReport",
			method: http.MethodGet,
			path:   "/api/v1/reports/code/47.11",
			setupMocks: func() {
				mockDocs.On("ByCode", mock.Anything, "47.11").Return(pdfDoc, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       "application/pdf %PDF-1.3",
			parseResponse: func(resp *http.Response, data []byte) (interface{}, error) {
				return resp.Header.Get("Content-Type") + " " + string(data), nil
			},
		},
		{
			name:   "StatReport",
			method: http.MethodGet,
			path:   "/api/v1/reports/stats/7d0c.pdf",
			setupMocks: func() {
				mockDocs.On("Detail", mock.Anything, "7d0c").Return(pdfDoc, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       "application/pdf %PDF-1.3",
			parseResponse: func(resp *http.Response, data []byte) (interface{}, error) {
				return resp.Header.Get("Content-Type") + " " + string(data), nil
			},
		},
		{
			name:   "DetailsReport",
			method: http.MethodPost,
			path:   "/api/v1/reports/details.pdf",
			body:   `{"ids":["7d0c"]}`,
			setupMocks: func() {
				mockDocs.On("Details", mock.Anything, []string{"7d0c"}).Return(pdfDoc, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       `attachment; filename="stat-47.11.pdf"`,
			parseResponse: func(resp *http.Response, _ []byte) (interface{}, error) {
				return resp.Header.Get("Content-Disposition"), nil
			},
		},
		{
			name:           "UnknownRoute",
			method:         http.MethodGet,
			path:           "/api/v1/workspaces",
			setupMocks:     func() {},
			expectedStatus: http.StatusNotFound,
			expected:       "404 page not found\n",
			parseResponse: func(_ *http.Response, data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			req, err := http.NewRequest(tc.method, testServer.URL+tc.path, bytes.NewBufferString(tc.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(resp, body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}

	mockSvc.AssertExpectations(t)
	mockDocs.AssertExpectations(t)
}

func TestNewWebAPI_DefaultShutdownTimeout(t *testing.T) {
	web := NewWebAPI(zerolog.Nop(), Config{Addr: ":0"})
	assert.Equal(t, defaultShutdownTimeout, web.shutdownTimeout)
	assert.Equal(t, ":0", web.server.Addr)
}

func unmarshalResponse[T any]() func(*http.Response, []byte) (interface{}, error) {
	return func(_ *http.Response, data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
