package mcp

// JSONRPCRequest represents a JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      interface{}   `json:"id"`
	Method  string        `json:"method"`
	Params  RequestParams `json:"params"`
}

// RequestParams holds the parameters for the MCP methods this server handles.
type RequestParams struct {
	// initialize params
	ProtocolVersion string                 `json:"protocolVersion,omitempty"`
	ClientInfo      map[string]interface{} `json:"clientInfo,omitempty"`
	Capabilities    map[string]interface{} `json:"capabilities,omitempty"`

	// tools/call params
	Name      string                 `json:"name,omitempty"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`

	// resources/read params
	URI string `json:"uri,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error object.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC error codes used by this server. The -326xx codes are the
// standard JSON-RPC ones; the -320xx range carries the server-specific
// failure conditions.
const (
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32000
	CodeNotFound       = -32002
	CodeUploadFailed   = -32003
)

// NewErrorResponse creates a JSONRPCResponse populated with an error.
func NewErrorResponse(id interface{}, code int, message string, data interface{}) JSONRPCResponse {
	return JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// NewResultResponse creates a successful JSONRPCResponse wrapping a result.
func NewResultResponse(id interface{}, result interface{}) JSONRPCResponse {
	return JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

// Resource describes one listable resource.
type Resource struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Name     string `json:"name"`
}

// ResourceContents is one content unit of a resources/read result. Exactly
// one of Text or Blob is set; Blob carries base64-encoded binary data.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// Content is one content part of a tools/call result.
type Content struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// NewTextContent builds a text content part.
func NewTextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// NewImageContent builds an image content part from base64 data.
func NewImageContent(data, mimeType string) Content {
	return Content{Type: "image", Data: data, MimeType: mimeType}
}

// Tool describes one callable tool and its input schema.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ListResourcesResult is the result payload of resources/list.
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// ReadResourceResult is the result payload of resources/read.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// ListToolsResult is the result payload of tools/list.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolResult is the result payload of tools/call.
type CallToolResult struct {
	Content []Content `json:"content"`
}
