package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-vetter/internal/aggregate"
	"github.com/Kamar-Folarin/repo-vetter/internal/engine"
	apperrors "github.com/Kamar-Folarin/repo-vetter/internal/errors"
	"github.com/Kamar-Folarin/repo-vetter/internal/export"
	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// Analyzer is the part of the engine the handlers depend on
type Analyzer interface {
	Analyze(ctx context.Context, req engine.Request) (*models.Report, error)
	AnalyzeBatch(ctx context.Context, req engine.BatchRequest) ([]models.BatchItem, error)
}

type Handler struct {
	analyzer Analyzer
	logger   *logrus.Logger
	timeout  time.Duration
}

func NewHandler(analyzer Analyzer, logger *logrus.Logger, timeout time.Duration) *Handler {
	return &Handler{
		analyzer: analyzer,
		logger:   logger,
		timeout:  timeout,
	}
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// Analyze handles POST /api/v1/analyze
// @Summary Analyze a repository
// @Description Runs the selected analyzers against one repository and returns its report
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "Analysis request"
// @Success 200 {object} models.Report
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error(), Type: string(apperrors.ErrInvalidInput)})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	report, err := h.analyzer.Analyze(ctx, engine.Request{Repo: req.Repo, Modules: req.Modules, Scoring: req.Scoring})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyzeBatch handles POST /api/v1/analyze/batch
// @Summary Analyze several repositories
// @Description Analyzes up to the configured number of repositories; per-repository failures are reported inline
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body BatchAnalyzeRequest true "Batch request"
// @Success 200 {array} models.BatchItem
// @Failure 400 {object} ErrorResponse
// @Router /analyze/batch [post]
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	var req BatchAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error(), Type: string(apperrors.ErrInvalidInput)})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	items, err := h.analyzer.AnalyzeBatch(ctx, engine.BatchRequest{Repos: req.Repos, Modules: req.Modules, Scoring: req.Scoring})
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetReport handles GET /api/v1/repos/:owner/:repo/report
// @Summary Get a repository report
// @Description Analyzes owner/repo and returns the report as JSON or as a single CSV row
// @Tags analysis
// @Produce json,text/csv
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Param modules query string false "Comma separated module list" example("pow,security")
// @Param scoring query string false "Scoring strategy" example("weighted")
// @Param format query string false "Response format" Enums(json,csv) default(json)
// @Success 200 {object} models.Report
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /repos/{owner}/{repo}/report [get]
func (h *Handler) GetReport(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid format parameter (use json or csv)", Type: string(apperrors.ErrInvalidInput)})
		return
	}

	req := engine.Request{
		Repo:    c.Param("owner") + "/" + c.Param("repo"),
		Modules: splitList(c.Query("modules")),
		Scoring: c.Query("scoring"),
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	report, err := h.analyzer.Analyze(ctx, req)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	if format == "csv" {
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, []*models.Report{report}); err != nil {
			h.respondWithError(c, apperrors.NewInternalError("Failed to encode report", err))
			return
		}
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListSignatures handles GET /api/v1/signatures
// @Summary List proof-of-work signatures
// @Tags catalog
// @Produce json
// @Success 200 {object} SignaturesResponse
// @Router /signatures [get]
func (h *Handler) ListSignatures(c *gin.Context) {
	c.JSON(http.StatusOK, summarizeCatalog())
}

// ListStrategies handles GET /api/v1/strategies
// @Summary List scoring strategies
// @Tags catalog
// @Produce json
// @Success 200 {object} StrategiesResponse
// @Router /strategies [get]
func (h *Handler) ListStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, StrategiesResponse{
		Strategies: aggregate.StrategyNames(),
		Default:    aggregate.DefaultStrategy,
	})
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) respondWithError(c *gin.Context, err error) {
	status := statusFor(err)
	entry := h.logger.WithFields(logrus.Fields{
		"path":   c.FullPath(),
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.JSON(status, ErrorResponse{Error: errorMessage(err), Type: string(apperrors.TypeOf(err))})
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrRateLimit:
		return http.StatusTooManyRequests
	case apperrors.ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
