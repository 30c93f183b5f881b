package grpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Executor runs one protocol line and returns its response line.
type Executor interface {
	Execute(ctx context.Context, line string) string
}

// Handler implements CommandServer.
type Handler struct {
	exec Executor
}

// NewHandler creates a new gRPC handler with the given Executor.
func NewHandler(exec Executor) *Handler {
	return &Handler{exec: exec}
}

// Execute runs the protocol line in req. Protocol failures are answered with
// the ERR line, not a gRPC status.
func (h *Handler) Execute(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	slog.Debug("command request received", "command", req.GetValue())

	resp := h.exec.Execute(context.WithoutCancel(ctx), req.GetValue())
	return wrapperspb.String(resp), nil
}
