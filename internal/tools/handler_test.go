package tools

import (
	"log/slog"
	"os"
	"testing"

	"gyazo-mcp-server/internal/gyazo"
	"gyazo-mcp-server/internal/mcp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestHandler creates a Handler backed by a manual mock client. Mock
// methods without an assigned function panic, so tests catch upstream calls
// that must not happen.
func setupTestHandler(t *testing.T) (*Handler, *gyazo.MockAPI) {
	t.Helper()
	mockClient := &gyazo.MockAPI{}
	discardLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(100)}))
	return NewHandler(mockClient, 5, discardLogger), mockClient
}

func TestHandleRequestRouting(t *testing.T) {
	t.Run("Unknown method", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		response := handler.HandleRequest(mcp.JSONRPCRequest{
			JSONRPC: "2.0",
			ID:      1,
			Method:  "prompts/list",
		})

		require.NotNil(t, response)
		require.NotNil(t, response.Error)
		assert.Equal(t, mcp.CodeMethodNotFound, response.Error.Code)
	})

	t.Run("Notifications produce no response", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		response := handler.HandleRequest(mcp.JSONRPCRequest{
			JSONRPC: "2.0",
			Method:  "notifications/initialized",
		})

		assert.Nil(t, response)
	})
}

func TestHandleInitialize(t *testing.T) {
	handler, _ := setupTestHandler(t)

	response := handler.HandleRequest(mcp.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	})

	require.NotNil(t, response)
	require.Nil(t, response.Error)
	result, ok := response.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, protocolVersion, result["protocolVersion"])

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, serverName, serverInfo["name"])

	capabilities, ok := result["capabilities"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, capabilities, "resources")
	assert.Contains(t, capabilities, "tools")
}

func TestHandleListTools(t *testing.T) {
	handler, _ := setupTestHandler(t)

	response := handler.HandleRequest(mcp.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      2,
		Method:  "tools/list",
	})

	require.NotNil(t, response)
	require.Nil(t, response.Error)
	result, ok := response.Result.(mcp.ListToolsResult)
	require.True(t, ok)
	require.Len(t, result.Tools, 3)

	assert.Equal(t, ToolLatestImage, result.Tools[0].Name)
	assert.Equal(t, ToolSearch, result.Tools[1].Name)
	assert.Equal(t, ToolUpload, result.Tools[2].Name)

	for _, tool := range result.Tools {
		assert.NotEmpty(t, tool.Description)
		assert.Equal(t, "object", tool.InputSchema["type"])
	}
}
