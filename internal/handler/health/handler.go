package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler manages health check endpoints
type Handler struct {
	loaded func() bool
}

// NewHandler creates a new health check handler. loaded reports whether the
// dataset has been loaded; nil means always ready.
func NewHandler(loaded func() bool) *Handler {
	return &Handler{loaded: loaded}
}

// Health is the liveness probe endpoint
// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready reports 503 until a LOAD has succeeded
// GET /ready
func (h *Handler) Ready(c *gin.Context) {
	if h.loaded != nil && !h.loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "dataset not loaded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
