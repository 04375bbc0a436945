package gyazo

// ImageMetadata holds the optional user-supplied metadata of an image.
// Every field may be empty.
type ImageMetadata struct {
	App   string `json:"app"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Desc  string `json:"desc"`
}

// ImageOCR holds the text the upstream extracted from an image.
type ImageOCR struct {
	Locale      string `json:"locale"`
	Description string `json:"description"`
}

// Image is one image record as returned by the list and get endpoints.
// All fields are passed through verbatim from the upstream JSON;
// CreatedAt keeps the upstream formatting.
type Image struct {
	ImageID      string        `json:"image_id"`
	PermalinkURL string        `json:"permalink_url"`
	URL          string        `json:"url"`
	ThumbURL     string        `json:"thumb_url"`
	Type         string        `json:"type"`
	CreatedAt    string        `json:"created_at"`
	Metadata     ImageMetadata `json:"metadata"`
	OCR          *ImageOCR     `json:"ocr,omitempty"`
}

// SearchResult is the reduced image projection returned by the search
// endpoint. AccessPolicy is nullable upstream.
type SearchResult struct {
	ImageID      string  `json:"image_id"`
	PermalinkURL string  `json:"permalink_url"`
	URL          string  `json:"url"`
	AccessPolicy *string `json:"access_policy"`
	Type         string  `json:"type"`
	ThumbURL     string  `json:"thumb_url"`
	CreatedAt    string  `json:"created_at"`
	AltText      string  `json:"alt_text"`
}

// UploadRequest carries everything needed for one upload call. ImageData
// holds the decoded (raw, not base64) bytes; Filename is the synthesized
// multipart filename.
type UploadRequest struct {
	ImageData  []byte
	ImageType  string
	Filename   string
	Title      string
	Desc       string
	RefererURL string
	App        string
}

// UploadResult is the upstream response to a successful upload.
type UploadResult struct {
	ImageID      string `json:"image_id"`
	PermalinkURL string `json:"permalink_url"`
	ThumbURL     string `json:"thumb_url"`
	URL          string `json:"url"`
	Type         string `json:"type"`
}
