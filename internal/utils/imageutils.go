package utils

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"gyazo-mcp-server/internal/gyazo"
)

// DefaultImageType is assumed when upload input carries no data URI prefix.
const DefaultImageType = "png"

var dataURIPattern = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+);base64,`)

// DecodeImageData decodes a base64 image payload, optionally prefixed with a
// data URI header. When a header is present its subtype becomes the image
// type; otherwise the type defaults to png and the whole input is treated as
// raw base64.
func DecodeImageData(input string) (imageType string, data []byte, err error) {
	imageType = DefaultImageType
	payload := strings.TrimSpace(input)

	if match := dataURIPattern.FindStringSubmatch(payload); match != nil {
		imageType = match[1]
		payload = payload[len(match[0]):]
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding base64 image data: %w", err)
	}
	return imageType, data, nil
}

// FormatImageMetadata renders an image's metadata and OCR text as a Markdown
// block. Sections appear in a fixed order and empty fields are omitted
// entirely.
func FormatImageMetadata(image *gyazo.Image) string {
	var b strings.Builder
	writeSection(&b, "Title", image.Metadata.Title)
	writeSection(&b, "Description", image.Metadata.Desc)
	writeSection(&b, "App", image.Metadata.App)
	writeSection(&b, "URL", image.Metadata.URL)
	if image.OCR != nil {
		writeSection(&b, "OCR Text", image.OCR.Description)
		writeSection(&b, "OCR Locale", image.OCR.Locale)
	}
	return b.String()
}

func writeSection(b *strings.Builder, heading, value string) {
	if value == "" {
		return
	}
	b.WriteString("### ")
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(value)
	b.WriteString("\n\n")
}
