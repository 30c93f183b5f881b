package command

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Executor runs one protocol line and returns its response line.
type Executor interface {
	Execute(ctx context.Context, line string) string
}

// CommandRequest represents the JSON body for a protocol command.
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}

// CommandResponse represents the JSON response for a protocol command.
type CommandResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Handler manages the protocol command endpoint.
type Handler struct {
	exec Executor
}

// NewHandler creates a new command handler with the given Executor.
func NewHandler(exec Executor) *Handler {
	return &Handler{exec: exec}
}

// Command handles POST /api/v1/command
func (h *Handler) Command(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, CommandResponse{
			Error: "invalid request: " + err.Error(),
		})
		return
	}

	slog.Debug("command request received", "command", req.Command)

	// Queries are not cancelled when the client goes away.
	resp := h.exec.Execute(context.WithoutCancel(c.Request.Context()), req.Command)

	c.JSON(http.StatusOK, CommandResponse{Response: resp})
}
