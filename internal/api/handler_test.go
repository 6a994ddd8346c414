package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/repo-vetter/internal/engine"
	apperrors "github.com/Kamar-Folarin/repo-vetter/internal/errors"
	"github.com/Kamar-Folarin/repo-vetter/internal/metrics"
	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// MockAnalyzer is a mock implementation of Analyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req engine.Request) (*models.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockAnalyzer) AnalyzeBatch(ctx context.Context, req engine.BatchRequest) ([]models.BatchItem, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BatchItem), args.Error(1)
}

func setupTestRouter() (*gin.Engine, *MockAnalyzer) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	analyzer := new(MockAnalyzer)
	handler := NewHandler(analyzer, logger, time.Minute)
	return SetupRouter(handler, metrics.NewRecorder()), analyzer
}

func sampleReport() *models.Report {
	return &models.Report{
		Repository:      models.RepoSummary{FullName: "acme/chain", Stars: 12, Language: "Go"},
		Modules:         []string{models.ModuleSecurity},
		Security:        models.Succeeded(&models.SecurityResult{SecurityScore: 80}),
		InnovationScore: 64,
		ScoringStrategy: "weighted",
		RedFlags:        []models.RedFlag{},
		Recommendations: []string{},
	}
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyze(t *testing.T) {
	router, analyzer := setupTestRouter()

	expected := engine.Request{Repo: "acme/chain", Modules: []string{"security"}, Scoring: "weighted"}
	analyzer.On("Analyze", mock.Anything, expected).Return(sampleReport(), nil)

	w := doJSON(router, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{Repo: "acme/chain", Modules: []string{"security"}, Scoring: "weighted"})

	assert.Equal(t, http.StatusOK, w.Code)
	var report models.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 64, report.InnovationScore)
	assert.Equal(t, "acme/chain", report.Repository.FullName)
	analyzer.AssertExpectations(t)
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedType   string
	}{
		{"validation", apperrors.NewValidationError("unknown module \"tarot\"", nil), http.StatusBadRequest, "INVALID_INPUT"},
		{"unauthorized", apperrors.NewUnauthorizedError("GitHub API rejected the credentials", nil), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not found", apperrors.NewRepositoryNotFoundError("acme", "ghost"), http.StatusNotFound, "NOT_FOUND"},
		{"rate limit", apperrors.NewRateLimitError("GitHub API rate limit exhausted", nil), http.StatusTooManyRequests, "RATE_LIMIT"},
		{"upstream", apperrors.NewUpstreamError("failed to fetch acme/chain", errors.New("EOF")), http.StatusBadGateway, "UPSTREAM"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, analyzer := setupTestRouter()
			analyzer.On("Analyze", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := doJSON(router, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{Repo: "acme/chain"})

			assert.Equal(t, tt.expectedStatus, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedType, resp.Type)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAnalyzeInvalidBody(t *testing.T) {
	router, analyzer := setupTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/analyze", map[string]string{"scoring": "weighted"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestAnalyzeBatch(t *testing.T) {
	router, analyzer := setupTestRouter()

	items := []models.BatchItem{
		{Repo: "acme/chain", Report: sampleReport()},
		{Repo: "acme/ghost", Error: "NOT_FOUND: repository not found: acme/ghost"},
	}
	analyzer.On("AnalyzeBatch", mock.Anything, engine.BatchRequest{Repos: []string{"acme/chain", "acme/ghost"}}).Return(items, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/analyze/batch", BatchAnalyzeRequest{Repos: []string{"acme/chain", "acme/ghost"}})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []models.BatchItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.NotNil(t, resp[0].Report)
	assert.Nil(t, resp[1].Report)
	assert.Contains(t, resp[1].Error, "acme/ghost")
}

func TestAnalyzeBatchTooLarge(t *testing.T) {
	router, analyzer := setupTestRouter()
	analyzer.On("AnalyzeBatch", mock.Anything, mock.Anything).Return(nil, apperrors.NewBatchTooLargeError(11, 10))

	repos := make([]string, 11)
	for i := range repos {
		repos[i] = "acme/chain"
	}
	w := doJSON(router, http.MethodPost, "/api/v1/analyze/batch", BatchAnalyzeRequest{Repos: repos})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds the maximum of 10")
}

func TestGetReport(t *testing.T) {
	router, analyzer := setupTestRouter()
	expected := engine.Request{Repo: "acme/chain", Modules: []string{"pow", "security"}, Scoring: "pow-scan"}
	analyzer.On("Analyze", mock.Anything, expected).Return(sampleReport(), nil)

	w := doJSON(router, http.MethodGet, "/api/v1/repos/acme/chain/report?modules=pow,%20security&scoring=pow-scan", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"innovation_score":64`)
	analyzer.AssertExpectations(t)
}

func TestGetReportCSV(t *testing.T) {
	router, analyzer := setupTestRouter()
	analyzer.On("Analyze", mock.Anything, engine.Request{Repo: "acme/chain"}).Return(sampleReport(), nil)

	w := doJSON(router, http.MethodGet, "/api/v1/repos/acme/chain/report?format=csv", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "repository,stars,forks"))
	assert.Equal(t, "acme/chain,12,0,Go,64,false,,,80,,0", lines[1])
}

func TestGetReportInvalidFormat(t *testing.T) {
	router, analyzer := setupTestRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/repos/acme/chain/report?format=xml", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestCatalogEndpoints(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/signatures", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sigs SignaturesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sigs))
	assert.NotEmpty(t, sigs.Algorithms)
	assert.NotEmpty(t, sigs.TemplateMarkers)

	w = doJSON(router, http.MethodGet, "/api/v1/strategies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var strategies StrategiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &strategies))
	assert.Equal(t, []string{"pow-scan", "weighted"}, strategies.Strategies)
	assert.Equal(t, "weighted", strategies.Default)
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = doJSON(router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
