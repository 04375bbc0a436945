package tools

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gyazo-mcp-server/internal/gyazo"
	"gyazo-mcp-server/internal/mcp"
)

const (
	serverName      = "gyazo-mcp-server"
	serverVersion   = "0.1.0"
	protocolVersion = "2024-11-05"
)

// Handler processes MCP requests and maps them to Gyazo API calls.
type Handler struct {
	client  gyazo.API
	timeout time.Duration
	logger  *slog.Logger
}

// NewHandler creates a new request handler bound to a Gyazo client.
func NewHandler(client gyazo.API, timeoutSec int, logger *slog.Logger) *Handler {
	return &Handler{
		client:  client,
		timeout: time.Duration(timeoutSec) * time.Second,
		logger:  logger,
	}
}

// HandleRequest routes incoming MCP requests to the appropriate handler
// method. It returns nil for notifications, which expect no response.
func (h *Handler) HandleRequest(request mcp.JSONRPCRequest) *mcp.JSONRPCResponse {
	if strings.HasPrefix(request.Method, "notifications/") {
		h.logger.Debug("Ignoring notification", "method", request.Method)
		return nil
	}
	h.logger.Debug("Handling request", "method", request.Method, "id", request.ID)

	var response mcp.JSONRPCResponse
	switch request.Method {
	case "initialize":
		response = h.handleInitialize(request)
	case "resources/list":
		response = h.handleListResources(request)
	case "resources/read":
		response = h.handleReadResource(request)
	case "tools/list":
		response = h.handleListTools(request)
	case "tools/call":
		response = h.handleCallTool(request)
	default:
		response = mcp.NewErrorResponse(request.ID, mcp.CodeMethodNotFound, "Method not found", request.Method)
	}
	return &response
}

func (h *Handler) handleInitialize(request mcp.JSONRPCRequest) mcp.JSONRPCResponse {
	h.logger.Info("Handling initialize request", "id", request.ID)
	return mcp.NewResultResponse(request.ID, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"serverInfo": map[string]interface{}{
			"name":    serverName,
			"version": serverVersion,
		},
		"capabilities": map[string]interface{}{
			"resources": map[string]interface{}{},
			"tools":     map[string]interface{}{},
		},
	})
}

// callContext derives the per-call deadline for an upstream request.
func (h *Handler) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}
