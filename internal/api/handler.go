package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"DevInsights/internal/domain"
	apperrors "DevInsights/internal/errors"
	"DevInsights/internal/export"
	"DevInsights/internal/logging"
	"DevInsights/internal/usecase"
)

// MaxPages bounds the pages query parameter.
const MaxPages = 10

// Collector runs one collection for a query.
type Collector interface {
	Run(ctx context.Context, q usecase.Query) ([]domain.Profile, error)
	DefaultTerm() string
}

const (
	formatJSON = "json"
	formatXLSX = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handler handles API requests
type Handler struct {
	collector Collector
	logger    *slog.Logger
}

// NewHandler creates a new API handler
func NewHandler(collector Collector, logger *slog.Logger) *Handler {
	return &Handler{
		collector: collector,
		logger:    logging.OrDiscard(logger),
	}
}

// GetGithubUsers searches, scrapes and analyzes developers for a term.
// GET /github-users?searchTerm=<term>&pages=<n>&format=json|xlsx
func (h *Handler) GetGithubUsers(c *gin.Context) {
	pages, err := parsePages(c.Query("pages"))
	if err != nil {
		respondError(c, err)
		return
	}

	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", formatJSON)))
	if format != formatJSON && format != formatXLSX {
		respondError(c, apperrors.NewBadRequestError("format must be json or xlsx"))
		return
	}

	query := usecase.Query{
		SearchTerm: strings.TrimSpace(c.Query("searchTerm")),
		Pages:      pages,
	}
	if query.SearchTerm == "" {
		query.SearchTerm = h.collector.DefaultTerm()
		h.logger.Info("search term defaulted", "term", query.SearchTerm)
	}

	profiles, err := h.collector.Run(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("collect user insights", "term", query.SearchTerm, "error", err)
		respondError(c, err)
		return
	}

	if format == formatXLSX {
		h.writeWorkbook(c, profiles)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profiles,
	})
}

func (h *Handler) writeWorkbook(c *gin.Context, profiles []domain.Profile) {
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, profiles); err != nil {
		h.logger.Error("render workbook", "error", err)
		respondError(c, apperrors.NewInternalError("failed to render workbook", err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="github-users.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// parsePages returns 0 (use default) for an empty value.
func parsePages(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	pages, err := strconv.Atoi(raw)
	if err != nil || pages < 1 || pages > MaxPages {
		return 0, apperrors.NewBadRequestError("pages must be an integer between 1 and " + strconv.Itoa(MaxPages))
	}
	return pages, nil
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNoResults:
		return http.StatusNotFound
	case apperrors.KindBadRequest:
		return http.StatusBadRequest
	case apperrors.KindPageLoad, apperrors.KindExtraction, apperrors.KindAIRequest, apperrors.KindAIParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, errorEnvelope("Internal server error", nil))
		return
	}

	details := appErr.Errors
	if len(details) == 0 && appErr.Err != nil {
		details = []string{appErr.Err.Error()}
	}
	c.JSON(StatusFor(appErr.Kind), errorEnvelope(appErr.Message, details))
}

func errorEnvelope(message string, details []string) gin.H {
	if details == nil {
		details = []string{}
	}
	return gin.H{
		"success": false,
		"message": message,
		"errors":  details,
		"data":    nil,
	}
}
