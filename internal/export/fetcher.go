package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var errEmptyImageURL = errors.New("export: empty image url")

// maxImageBytes caps a single embedded asset.
const maxImageBytes = 16 << 20

// ImageFetcher resolves an image URL to its raw bytes. Export layout code
// calls it strictly sequentially, one round trip at a time.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches image assets over HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a fetcher backed by the provided client, or a
// default client with a conservative timeout.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPFetcher{client: client}
}

// Fetch downloads one image. Any non-success status is an error; the caller
// substitutes a placeholder and keeps going.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errEmptyImageURL
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	response, err := f.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export: image fetch returned status %d", response.StatusCode)
	}
	return io.ReadAll(io.LimitReader(response.Body, maxImageBytes))
}
