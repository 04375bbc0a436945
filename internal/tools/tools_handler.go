package tools

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gyazo-mcp-server/internal/gyazo"
	"gyazo-mcp-server/internal/mcp"
	"gyazo-mcp-server/internal/utils"

	"github.com/rs/xid"
)

// Wire names of the exposed tools.
const (
	ToolLatestImage = "gyazo_latest_image"
	ToolSearch      = "gyazo_search"
	ToolUpload      = "gyazo_upload"
)

// toolKind is the closed set of supported tools. Dispatching on the kind
// instead of the wire name keeps the switch exhaustive.
type toolKind int

const (
	kindLatestImage toolKind = iota
	kindSearch
	kindUpload
)

var toolKinds = map[string]toolKind{
	ToolLatestImage: kindLatestImage,
	ToolSearch:      kindSearch,
	ToolUpload:      kindUpload,
}

// toolDefinitions is the fixed, ordered tool catalog returned by tools/list.
var toolDefinitions = []mcp.Tool{
	{
		Name:        ToolLatestImage,
		Description: "Fetch the most recent image from Gyazo, including its content and metadata.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"random_string": map[string]interface{}{
					"type":        "string",
					"description": "Dummy parameter for no-parameter tools",
				},
			},
			"required": []string{"random_string"},
		},
	},
	{
		Name:        ToolSearch,
		Description: "Full-text search for captures uploaded by the user to Gyazo.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search keyword (max length: 200 characters). Supports title:, app:, url: and date filters (e.g. since:2024-01-01).",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number for pagination",
					"minimum":     1,
					"default":     1,
				},
				"per": map[string]interface{}{
					"type":        "integer",
					"description": "Number of results per page (max: 100)",
					"minimum":     1,
					"maximum":     100,
					"default":     20,
				},
			},
			"required": []string{"query"},
		},
	},
	{
		Name:        ToolUpload,
		Description: "Upload an image to Gyazo and return its permalink.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"imageData": map[string]interface{}{
					"type":        "string",
					"description": "Base64 encoded image data, optionally prefixed with a data URI header (data:image/png;base64,...)",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Optional: Title of the image",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Optional: Description of the image",
				},
				"refererUrl": map[string]interface{}{
					"type":        "string",
					"description": "Optional: Source URL of the image",
				},
				"app": map[string]interface{}{
					"type":        "string",
					"description": "Optional: Application name the image was captured from",
				},
			},
			"required": []string{"imageData"},
		},
	},
}

// searchResultItem is the flat projection of one search hit returned to the
// caller as JSON text.
type searchResultItem struct {
	URI          string `json:"uri"`
	MimeType     string `json:"mimeType"`
	PermalinkURL string `json:"permalink_url"`
	URL          string `json:"url"`
	ThumbURL     string `json:"thumb_url"`
	CreatedAt    string `json:"created_at"`
	AltText      string `json:"alt_text"`
}

func (h *Handler) handleListTools(request mcp.JSONRPCRequest) mcp.JSONRPCResponse {
	return mcp.NewResultResponse(request.ID, mcp.ListToolsResult{Tools: toolDefinitions})
}

func (h *Handler) handleCallTool(request mcp.JSONRPCRequest) mcp.JSONRPCResponse {
	h.logger.Info("Handling tools/call request", "tool_name", request.Params.Name, "id", request.ID)

	kind, ok := toolKinds[request.Params.Name]
	if !ok {
		return mcp.NewErrorResponse(request.ID, mcp.CodeMethodNotFound, "Tool not found: "+request.Params.Name, nil)
	}

	var result *mcp.CallToolResult
	var rpcErr *mcp.RPCError
	switch kind {
	case kindLatestImage:
		result, rpcErr = h.callLatestImage(request.Params.Arguments)
	case kindSearch:
		result, rpcErr = h.callSearch(request.Params.Arguments)
	case kindUpload:
		result, rpcErr = h.callUpload(request.Params.Arguments)
	}

	if rpcErr != nil {
		return mcp.NewErrorResponse(request.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
	}
	return mcp.NewResultResponse(request.ID, result)
}

// --- Tool Implementations ---

func (h *Handler) callLatestImage(_ map[string]interface{}) (*mcp.CallToolResult, *mcp.RPCError) {
	h.logger.Debug("Executing gyazo_latest_image tool")

	ctx, cancel := h.callContext()
	defer cancel()

	images, err := h.client.ListImages(ctx, 1, 1)
	if err != nil {
		h.logger.Error("Failed to list images", "error", err)
		return nil, &mcp.RPCError{Code: mcp.CodeInternalError, Message: err.Error()}
	}
	if len(images) == 0 {
		return nil, &mcp.RPCError{Code: mcp.CodeNotFound, Message: "No images found"}
	}

	image := &images[0]
	data, err := h.client.Download(ctx, image.URL)
	if err != nil {
		h.logger.Error("Failed to download image content", "image_id", image.ImageID, "error", err)
		return nil, &mcp.RPCError{Code: mcp.CodeInternalError, Message: err.Error()}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewImageContent(base64.StdEncoding.EncodeToString(data), "image/"+image.Type),
			mcp.NewTextContent(utils.FormatImageMetadata(image)),
		},
	}, nil
}

func (h *Handler) callSearch(args map[string]interface{}) (*mcp.CallToolResult, *mcp.RPCError) {
	h.logger.Debug("Executing gyazo_search tool")

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, &mcp.RPCError{Code: mcp.CodeInvalidParams, Message: "Invalid params: missing or invalid 'query'"}
	}

	page, per := 1, 20
	if v, ok := args["page"].(float64); ok {
		page = int(v)
	}
	if v, ok := args["per"].(float64); ok {
		per = int(v)
	}

	ctx, cancel := h.callContext()
	defer cancel()

	results, err := h.client.Search(ctx, query, page, per)
	if err != nil {
		h.logger.Error("Search failed", "query", query, "error", err)
		return nil, &mcp.RPCError{Code: mcp.CodeInternalError, Message: err.Error()}
	}

	if len(results) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("No images found")},
		}, nil
	}

	items := make([]searchResultItem, 0, len(results))
	for _, r := range results {
		items = append(items, searchResultItem{
			URI:          ResourceURIPrefix + r.ImageID,
			MimeType:     "image/" + r.Type,
			PermalinkURL: r.PermalinkURL,
			URL:          r.URL,
			ThumbURL:     r.ThumbURL,
			CreatedAt:    r.CreatedAt,
			AltText:      r.AltText,
		})
	}
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		h.logger.Error("Failed to marshal search results", "error", err)
		return nil, &mcp.RPCError{Code: mcp.CodeInternalError, Message: err.Error()}
	}

	h.logger.Info("Search completed", "query", query, "count", len(items))
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(payload))},
	}, nil
}

func (h *Handler) callUpload(args map[string]interface{}) (*mcp.CallToolResult, *mcp.RPCError) {
	h.logger.Debug("Executing gyazo_upload tool")

	imageData, ok := args["imageData"].(string)
	if !ok || imageData == "" {
		return nil, &mcp.RPCError{Code: mcp.CodeInvalidParams, Message: "Invalid params: missing or invalid 'imageData'"}
	}
	title, _ := args["title"].(string)
	description, _ := args["description"].(string)
	refererURL, _ := args["refererUrl"].(string)
	app, _ := args["app"].(string)

	imageType, data, err := utils.DecodeImageData(imageData)
	if err != nil {
		return nil, h.uploadError(err)
	}

	ctx, cancel := h.callContext()
	defer cancel()

	result, err := h.client.Upload(ctx, gyazo.UploadRequest{
		ImageData:  data,
		ImageType:  imageType,
		Filename:   uploadFilename(imageType),
		Title:      title,
		Desc:       description,
		RefererURL: refererURL,
		App:        app,
	})
	if err != nil {
		return nil, h.uploadError(err)
	}

	h.logger.Info("Upload succeeded", "image_id", result.ImageID)
	summary := fmt.Sprintf("Image uploaded successfully!\nID: %s\nPermalink: %s\nDirect URL: %s",
		result.ImageID, result.PermalinkURL, result.URL)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(summary)},
	}, nil
}

// uploadFilename synthesizes a unique multipart filename carrying the image
// type; the timestamp plus xid suffix avoids collisions on the upstream side.
func uploadFilename(imageType string) string {
	return fmt.Sprintf("mcp-upload-%d-%s.%s", time.Now().Unix(), xid.New().String(), imageType)
}

func (h *Handler) uploadError(err error) *mcp.RPCError {
	h.logger.Error("Upload failed", "error", err)
	var httpErr *gyazo.HTTPError
	if errors.As(err, &httpErr) {
		return &mcp.RPCError{
			Code:    mcp.CodeUploadFailed,
			Message: fmt.Sprintf("Upload failed with status %d", httpErr.StatusCode),
			Data:    map[string]interface{}{"status_code": httpErr.StatusCode},
		}
	}
	return &mcp.RPCError{Code: mcp.CodeUploadFailed, Message: err.Error()}
}
