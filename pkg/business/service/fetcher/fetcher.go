package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher определяет интерфейс для получения данных по адресу (URL или путь к файлу)
type Fetcher interface {
	Fetch(ctx context.Context, location string) (io.ReadCloser, error)
}

type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}
	return resp.Body, nil
}

// FileFetcher reads catalogs from disk, relative paths resolved against BaseDir.
type FileFetcher struct {
	BaseDir string
}

func NewFileFetcher(baseDir string) *FileFetcher {
	return &FileFetcher{BaseDir: baseDir}
}

func (f *FileFetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) && f.BaseDir != "" {
		path = filepath.Join(f.BaseDir, path)
	}
	return os.Open(path)
}

// RoutingFetcher sends http(s) locations to HTTP and everything else to Files.
type RoutingFetcher struct {
	HTTP  Fetcher
	Files Fetcher
}

func NewRoutingFetcher(baseDir string) *RoutingFetcher {
	return &RoutingFetcher{
		HTTP:  NewHTTPFetcher(),
		Files: NewFileFetcher(baseDir),
	}
}

func (f *RoutingFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return f.HTTP.Fetch(ctx, location)
	}
	return f.Files.Fetch(ctx, location)
}
