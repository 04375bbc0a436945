package utils

import (
	"strings"
	"testing"

	"gyazo-mcp-server/internal/gyazo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImageData(t *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectedType string
		expectedData string
		expectError  bool
	}{
		{
			name:         "Data URI with jpeg subtype",
			input:        "data:image/jpeg;base64,QUJD",
			expectedType: "jpeg",
			expectedData: "ABC",
		},
		{
			name:         "Plain base64 defaults to png",
			input:        "QUJD",
			expectedType: "png",
			expectedData: "ABC",
		},
		{
			name:         "Data URI with png subtype",
			input:        "data:image/png;base64,ZmFrZS1ieXRlcw==",
			expectedType: "png",
			expectedData: "fake-bytes",
		},
		{
			name:         "Surrounding whitespace is tolerated",
			input:        "  QUJD\n",
			expectedType: "png",
			expectedData: "ABC",
		},
		{
			name:        "Invalid base64 payload",
			input:       "data:image/png;base64,not-base64!!!",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			imageType, data, err := DecodeImageData(tc.input)
			if tc.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedType, imageType)
			assert.Equal(t, tc.expectedData, string(data))
		})
	}
}

func TestFormatImageMetadata(t *testing.T) {
	t.Run("All fields present in fixed order", func(t *testing.T) {
		image := &gyazo.Image{
			Metadata: gyazo.ImageMetadata{
				App:   "Screenshot App",
				Title: "My Title",
				URL:   "https://example.com/source",
				Desc:  "A description",
			},
			OCR: &gyazo.ImageOCR{
				Locale:      "en",
				Description: "extracted text",
			},
		}

		got := FormatImageMetadata(image)
		want := "### Title\nMy Title\n\n" +
			"### Description\nA description\n\n" +
			"### App\nScreenshot App\n\n" +
			"### URL\nhttps://example.com/source\n\n" +
			"### OCR Text\nextracted text\n\n" +
			"### OCR Locale\nen\n\n"
		assert.Equal(t, want, got)
	})

	t.Run("Empty fields are omitted", func(t *testing.T) {
		image := &gyazo.Image{
			Metadata: gyazo.ImageMetadata{Title: "Only Title"},
		}

		got := FormatImageMetadata(image)
		assert.Equal(t, "### Title\nOnly Title\n\n", got)
		assert.Equal(t, 1, strings.Count(got, "###"))
	})

	t.Run("No metadata at all yields empty block", func(t *testing.T) {
		assert.Empty(t, FormatImageMetadata(&gyazo.Image{}))
	})

	t.Run("OCR without metadata", func(t *testing.T) {
		image := &gyazo.Image{
			OCR: &gyazo.ImageOCR{Locale: "ja", Description: "テキスト"},
		}

		got := FormatImageMetadata(image)
		assert.Equal(t, "### OCR Text\nテキスト\n\n### OCR Locale\nja\n\n", got)
	})

	t.Run("Two records never interleave sections", func(t *testing.T) {
		first := &gyazo.Image{Metadata: gyazo.ImageMetadata{Title: "First", Desc: "first desc"}}
		second := &gyazo.Image{Metadata: gyazo.ImageMetadata{Title: "Second", App: "app"}}

		got := FormatImageMetadata(first) + FormatImageMetadata(second)
		want := "### Title\nFirst\n\n### Description\nfirst desc\n\n" +
			"### Title\nSecond\n\n### App\napp\n\n"
		assert.Equal(t, want, got)
	})
}
