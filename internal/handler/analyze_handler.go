package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simon4657/stockcal-api/internal/analysis"
	"github.com/simon4657/stockcal-api/pkg/llm"
)

// Analyzer produces on-demand commentary for stored records.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
	Regenerate(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

type AnalyzeHandler struct {
	gateway Analyzer
}

func NewAnalyzeHandler(gateway Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{gateway: gateway}
}

// Analyze serves GET /:id/analyze for the given record kind. A caller can
// pass ?format=raw to get the generator output without extraction, and an
// X-API-Key header to use their own credential.
func (h *AnalyzeHandler) Analyze(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := analysis.Request{
			Kind:   kind,
			ID:     c.Param("id"),
			APIKey: c.GetHeader("X-API-Key"),
			Raw:    c.Query("format") == "raw",
		}

		result, err := h.gateway.Analyze(c.Request.Context(), req)
		if err != nil {
			h.writeError(c, kind, req.ID, err)
			return
		}

		c.JSON(http.StatusOK, analyzeResponse(result))
	}
}

// Regenerate serves POST /:id/regenerate for the given record kind. The
// optional JSON body carries a feedback instruction; the revised record is
// returned without being persisted.
func (h *AnalyzeHandler) Regenerate(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body RegenerateRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
				return
			}
		}

		req := analysis.Request{
			Kind:     kind,
			ID:       c.Param("id"),
			APIKey:   c.GetHeader("X-API-Key"),
			Feedback: body.Feedback,
		}

		result, err := h.gateway.Regenerate(c.Request.Context(), req)
		if err != nil {
			h.writeError(c, kind, req.ID, err)
			return
		}

		c.JSON(http.StatusOK, analyzeResponse(result))
	}
}

func (h *AnalyzeHandler) writeError(c *gin.Context, kind, id string, err error) {
	switch {
	case errors.Is(err, analysis.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, llm.ErrMissingCredential):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No API key configured; set one or pass X-API-Key"})
	default:
		slog.Error("analysis failed", "kind", kind, "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
	}
}

func analyzeResponse(result *analysis.Result) AnalyzeResponse {
	return AnalyzeResponse{
		Record:      result.Record,
		Analysis:    result.Analysis,
		GeneratedAt: result.GeneratedAt.UTC().Format(time.RFC3339),
	}
}
