package gyazo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Default upstream endpoints. The upload endpoint lives on a separate host.
const (
	DefaultAPIBaseURL    = "https://api.gyazo.com"
	DefaultUploadBaseURL = "https://upload.gyazo.com"
)

// ErrImageNotFound indicates the upstream has no image for the requested ID.
var ErrImageNotFound = errors.New("image not found")

// HTTPError represents a non-success HTTP status from the upstream API.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected HTTP status: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// API defines the subset of Gyazo API operations used by this server.
// It exists so handlers can be tested against a mock.
type API interface {
	ListImages(ctx context.Context, page, perPage int) ([]Image, error)
	GetImage(ctx context.Context, imageID string) (*Image, error)
	Search(ctx context.Context, query string, page, per int) ([]SearchResult, error)
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

// Client talks to the Gyazo HTTP API. The access token is fixed at
// construction; the client holds no other state.
type Client struct {
	httpClient    *http.Client
	apiBaseURL    string
	uploadBaseURL string
	accessToken   string
	logger        *slog.Logger
}

var _ API = (*Client)(nil)

// NewClient creates a Gyazo API client bound to the given endpoints and
// access token. Empty base URLs fall back to the public endpoints.
func NewClient(apiBaseURL, uploadBaseURL, accessToken string, logger *slog.Logger) *Client {
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}
	if uploadBaseURL == "" {
		uploadBaseURL = DefaultUploadBaseURL
	}
	return &Client{
		httpClient:    newHTTPClient(),
		apiBaseURL:    apiBaseURL,
		uploadBaseURL: uploadBaseURL,
		accessToken:   accessToken,
		logger:        logger,
	}
}

func newHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = 7 * time.Second
	transport.ResponseHeaderTimeout = 15 * time.Second
	transport.MaxIdleConnsPerHost = 20
	transport.IdleConnTimeout = 5 * time.Minute

	return &http.Client{Transport: transport}
}

// ListImages fetches one page of the user's images in upstream order.
func (c *Client) ListImages(ctx context.Context, page, perPage int) ([]Image, error) {
	query := url.Values{}
	query.Set("access_token", c.accessToken)
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var images []Image
	if err := c.getJSON(ctx, c.apiBaseURL+"/api/images?"+query.Encode(), &images); err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	c.logger.Debug("Listed images", "page", page, "per_page", perPage, "count", len(images))
	return images, nil
}

// GetImage fetches a single image record by ID. Returns ErrImageNotFound
// when the upstream has no record for the ID.
func (c *Client) GetImage(ctx context.Context, imageID string) (*Image, error) {
	query := url.Values{}
	query.Set("access_token", c.accessToken)

	var image Image
	err := c.getJSON(ctx, c.apiBaseURL+"/api/images/"+url.PathEscape(imageID)+"?"+query.Encode(), &image)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("fetching image %s: %w", imageID, err)
	}
	// The upstream answers an unknown ID with an empty body instead of 404.
	if image.ImageID == "" {
		return nil, ErrImageNotFound
	}
	return &image, nil
}

// Search queries the user's images and returns the reduced search projection
// in upstream order.
func (c *Client) Search(ctx context.Context, searchQuery string, page, per int) ([]SearchResult, error) {
	query := url.Values{}
	query.Set("access_token", c.accessToken)
	query.Set("query", searchQuery)
	query.Set("page", strconv.Itoa(page))
	query.Set("per", strconv.Itoa(per))

	var results []SearchResult
	if err := c.getJSON(ctx, c.apiBaseURL+"/api/search?"+query.Encode(), &results); err != nil {
		return nil, fmt.Errorf("searching images: %w", err)
	}
	c.logger.Debug("Searched images", "query", searchQuery, "count", len(results))
	return results, nil
}

// Upload sends raw image bytes plus optional metadata as a multipart form to
// the upload endpoint.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"access_token": c.accessToken,
		"title":        req.Title,
		"desc":         req.Desc,
		"referer_url":  req.RefererURL,
		"app":          req.App,
	}
	for name, value := range fields {
		if name != "access_token" && value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("writing form field %s: %w", name, err)
		}
	}

	fileWriter, err := writer.CreateFormFile("imagedata", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(fileWriter, bytes.NewReader(req.ImageData)); err != nil {
		return nil, fmt.Errorf("writing image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadBaseURL+"/api/upload", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Debug("Uploading image", "filename", req.Filename, "size_bytes", len(req.ImageData))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload response: %w", err)
	}
	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	c.logger.Info("Uploaded image", "image_id", result.ImageID)
	return &result, nil
}

// Download fetches raw bytes from a direct image-content URL. No auth is
// sent; direct-content URLs are publicly addressable.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading image content: %w", err)
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading image content: %w", err)
	}
	c.logger.Debug("Downloaded image content", "url", rawURL, "size_bytes", len(data))
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, result)
}

func (c *Client) closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		c.logger.Warn("Failed to close response body", "error", err)
	}
}
