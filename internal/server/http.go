package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/export"
	"github.com/fineprint/contract-analyzer/internal/repository"
)

// HealthFunc reports whether a dependency is reachable.
type HealthFunc func(ctx context.Context) error

type HTTPHandler struct {
	svc      *AnalysisService
	exporter *export.Service // optional
	health   HealthFunc      // optional
	logger   *slog.Logger
}

// NewRouter builds the gin engine serving the REST API.
func NewRouter(svc *AnalysisService, exporter *export.Service, health HealthFunc, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	h := &HTTPHandler{svc: svc, exporter: exporter, health: health, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	r.GET("/health", h.Health)
	v1 := r.Group("/v1")
	{
		v1.POST("/analyze", h.Analyze)
		v1.POST("/extract", h.Extract)
		v1.GET("/reports", h.ListReports)
		v1.GET("/reports/export.xlsx", h.ExportXLSX)
		v1.GET("/reports/:id", h.GetReport)
		v1.GET("/reports/:id/export.csv", h.ExportCSV)
	}
	return r
}

func (h *HTTPHandler) Health(c *gin.Context) {
	if h.health != nil {
		if err := h.health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTPHandler) Analyze(c *gin.Context) {
	var req AnalyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	rep, err := h.svc.analyze(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, AnalyzeTextResponse{Report: rep})
}

func (h *HTTPHandler) Extract(c *gin.Context) {
	var req ExtractTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	terms := h.svc.analyzer.ExtractTerms(c.Request.Context(), req.Text, req.Source)
	c.JSON(http.StatusOK, ExtractTermsResponse{Terms: terms})
}

func (h *HTTPHandler) GetReport(c *gin.Context) {
	rep, err := h.svc.report(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, GetReportResponse{Report: rep})
}

func (h *HTTPHandler) ListReports(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	reports, err := h.svc.list(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *HTTPHandler) ExportCSV(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report storage is not configured"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}
	out, err := h.exporter.ExportReportCSV(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+id.String()+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
}

func (h *HTTPHandler) ExportXLSX(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report storage is not configured"})
		return
	}
	opts, err := listOptions(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	out, err := h.exporter.ExportReportsXLSX(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="contracts.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
}

func listOptions(c *gin.Context) (repository.ListOptions, error) {
	var opts repository.ListOptions
	if lvl := c.Query("level"); lvl != "" {
		l, ok := constants.ParseRiskLevel(lvl)
		if !ok {
			return opts, common.NewAppError("INVALID_INPUT", "level must be low, medium or high", common.ErrInvalidInput)
		}
		opts.RiskLevel = l
	}
	if lim := c.Query("limit"); lim != "" {
		n, err := strconv.Atoi(lim)
		if err != nil || n <= 0 {
			return opts, common.NewAppError("INVALID_INPUT", "limit must be a positive integer", common.ErrInvalidInput)
		}
		opts.Limit = n
	}
	return opts, nil
}

// HTTPStatus maps application errors onto response codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrNoContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *HTTPHandler) fail(c *gin.Context, err error) {
	status := HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		common.LoggerFromContext(c.Request.Context(), h.logger).Error("server.http.failed", "error", err)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
