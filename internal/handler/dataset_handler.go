package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simon4657/stockcal-api/internal/model"
)

// DatasetStore reads persisted dataset blobs. A nil payload means nothing
// has been generated yet.
type DatasetStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

type DatasetHandler struct {
	store DatasetStore
}

func NewDatasetHandler(store DatasetStore) *DatasetHandler {
	return &DatasetHandler{store: store}
}

func (h *DatasetHandler) GetEvents(c *gin.Context) {
	h.serveDataset(c, model.DatasetEvents)
}

func (h *DatasetHandler) GetHotTrends(c *gin.Context) {
	h.serveDataset(c, model.DatasetHotTrends)
}

func (h *DatasetHandler) GetStrategies(c *gin.Context) {
	h.serveDataset(c, model.DatasetStrategies)
}

// serveDataset returns the stored blob verbatim. The updater already
// persists valid, sorted JSON, so the read path never re-encodes it.
func (h *DatasetHandler) serveDataset(c *gin.Context, name string) {
	payload, err := h.store.Load(c.Request.Context(), name)
	if err != nil {
		slog.Error("error loading dataset", "dataset", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	if len(payload) == 0 {
		payload = []byte("[]")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (h *DatasetHandler) GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "stockcal-api",
		"endpoints": []string{
			"/api/events",
			"/api/hot-trends",
			"/api/strategies",
			"/health",
		},
	})
}

func (h *DatasetHandler) GetHealth(c *gin.Context) {
	_, err := h.store.Load(c.Request.Context(), model.DatasetEvents)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"storage": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"storage":   "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
