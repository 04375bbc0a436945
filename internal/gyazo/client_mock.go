package gyazo

import "context"

// MockAPI is a manual mock of the API interface for testing. Unset function
// fields panic, so tests catch upstream calls that must not happen.
type MockAPI struct {
	ListImagesFunc func(ctx context.Context, page, perPage int) ([]Image, error)
	GetImageFunc   func(ctx context.Context, imageID string) (*Image, error)
	SearchFunc     func(ctx context.Context, query string, page, per int) ([]SearchResult, error)
	UploadFunc     func(ctx context.Context, req UploadRequest) (*UploadResult, error)
	DownloadFunc   func(ctx context.Context, rawURL string) ([]byte, error)
}

var _ API = (*MockAPI)(nil)

func (m *MockAPI) ListImages(ctx context.Context, page, perPage int) ([]Image, error) {
	if m.ListImagesFunc == nil {
		panic("ListImages should not have been called")
	}
	return m.ListImagesFunc(ctx, page, perPage)
}

func (m *MockAPI) GetImage(ctx context.Context, imageID string) (*Image, error) {
	if m.GetImageFunc == nil {
		panic("GetImage should not have been called")
	}
	return m.GetImageFunc(ctx, imageID)
}

func (m *MockAPI) Search(ctx context.Context, query string, page, per int) ([]SearchResult, error) {
	if m.SearchFunc == nil {
		panic("Search should not have been called")
	}
	return m.SearchFunc(ctx, query, page, per)
}

func (m *MockAPI) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if m.UploadFunc == nil {
		panic("Upload should not have been called")
	}
	return m.UploadFunc(ctx, req)
}

func (m *MockAPI) Download(ctx context.Context, rawURL string) ([]byte, error) {
	if m.DownloadFunc == nil {
		panic("Download should not have been called")
	}
	return m.DownloadFunc(ctx, rawURL)
}
