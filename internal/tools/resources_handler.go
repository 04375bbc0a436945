package tools

import (
	"encoding/base64"
	"errors"
	"strings"

	"gyazo-mcp-server/internal/gyazo"
	"gyazo-mcp-server/internal/mcp"
	"gyazo-mcp-server/internal/utils"
)

// ResourceURIPrefix is the fixed scheme prefix prepended to an image ID to
// form its resource URI.
const ResourceURIPrefix = "gyazo-mcp:///"

// handleListResources maps the first page of the user's images to resource
// descriptors, preserving upstream order.
func (h *Handler) handleListResources(request mcp.JSONRPCRequest) mcp.JSONRPCResponse {
	h.logger.Debug("Handling resources/list request", "id", request.ID)

	ctx, cancel := h.callContext()
	defer cancel()

	images, err := h.client.ListImages(ctx, 1, 10)
	if err != nil {
		h.logger.Error("Failed to list images", "error", err)
		return mcp.NewErrorResponse(request.ID, mcp.CodeInternalError, err.Error(), nil)
	}

	resources := make([]mcp.Resource, 0, len(images))
	for _, image := range images {
		name := image.Metadata.Title
		if name == "" {
			name = image.ImageID
		}
		resources = append(resources, mcp.Resource{
			URI:      ResourceURIPrefix + image.ImageID,
			MimeType: "image/" + image.Type,
			Name:     name,
		})
	}

	h.logger.Debug("Listed resources", "count", len(resources))
	return mcp.NewResultResponse(request.ID, mcp.ListResourcesResult{Resources: resources})
}

// handleReadResource fetches one image's metadata, then its raw content, and
// returns both as contents tagged with the request URI. The byte fetch only
// happens once the metadata fetch has succeeded.
func (h *Handler) handleReadResource(request mcp.JSONRPCRequest) mcp.JSONRPCResponse {
	h.logger.Debug("Handling resources/read request", "id", request.ID, "uri", request.Params.URI)

	uri := request.Params.URI
	if uri == "" {
		return mcp.NewErrorResponse(request.ID, mcp.CodeInvalidParams, "Missing required 'uri' parameter", nil)
	}
	if !strings.HasPrefix(uri, ResourceURIPrefix) {
		return mcp.NewErrorResponse(request.ID, mcp.CodeInvalidParams, "Invalid URI format. Expected "+ResourceURIPrefix+"...", nil)
	}
	imageID := strings.TrimPrefix(uri, ResourceURIPrefix)

	ctx, cancel := h.callContext()
	defer cancel()

	image, err := h.client.GetImage(ctx, imageID)
	if err != nil {
		if errors.Is(err, gyazo.ErrImageNotFound) {
			return mcp.NewErrorResponse(request.ID, mcp.CodeNotFound, "Image not found: "+imageID, nil)
		}
		h.logger.Error("Failed to fetch image", "image_id", imageID, "error", err)
		return mcp.NewErrorResponse(request.ID, mcp.CodeInternalError, err.Error(), nil)
	}

	data, err := h.client.Download(ctx, image.URL)
	if err != nil {
		h.logger.Error("Failed to download image content", "image_id", imageID, "error", err)
		return mcp.NewErrorResponse(request.ID, mcp.CodeInternalError, err.Error(), nil)
	}

	contents := []mcp.ResourceContents{
		{
			URI:      uri,
			MimeType: "image/" + image.Type,
			Blob:     base64.StdEncoding.EncodeToString(data),
		},
		{
			URI:      uri,
			MimeType: "text/markdown",
			Text:     utils.FormatImageMetadata(image),
		},
	}

	h.logger.Debug("Read resource", "uri", uri, "size_bytes", len(data))
	return mcp.NewResultResponse(request.ID, mcp.ReadResourceResult{Contents: contents})
}
