package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cv-backend/internal/artifacts"
	"cv-backend/internal/shared/server/respond"
)

// StorageChecker probes the artifact store's remote tier.
type StorageChecker interface {
	CheckConnection(ctx context.Context) artifacts.ConnectionStatus
}

// Handler serves liveness and storage health endpoints.
type Handler struct {
	Storage StorageChecker
}

// NewHandler creates a Handler.
func NewHandler(storage StorageChecker) *Handler {
	return &Handler{Storage: storage}
}

// Register mounts the routes on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/health", h.Live)
	rg.GET("/health/storage", h.StorageStatus)
}

// Live reports process liveness. It touches no dependencies.
func (h *Handler) Live(c *gin.Context) {
	respond.OK(c, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// StorageStatus reports remote object store reachability. A missing remote
// tier is a valid configuration and answers 200; only a failed probe is 500.
func (h *Handler) StorageStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := h.Storage.CheckConnection(ctx)
	code := http.StatusOK
	if status.Status == artifacts.StatusError {
		code = http.StatusInternalServerError
	}
	respond.JSON(c, code, status)
}
