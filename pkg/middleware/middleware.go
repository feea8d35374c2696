package middleware

import (
	"context"
	"io"
	"time"

	"gomercuriale/pkg/business/service/fetcher"
	"gomercuriale/pkg/logger"
)

// Middleware wraps a catalog fetcher.
type Middleware func(next fetcher.Fetcher) fetcher.Fetcher

// FetcherFunc adapts a function to fetcher.Fetcher.
type FetcherFunc func(ctx context.Context, location string) (io.ReadCloser, error)

func (f FetcherFunc) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	return f(ctx, location)
}

// Chain applies middlewares so the first one is the outermost.
func Chain(f fetcher.Fetcher, mws ...Middleware) fetcher.Fetcher {
	for i := len(mws) - 1; i >= 0; i-- {
		f = mws[i](f)
	}
	return f
}

// Logging записывает длительность и результат каждой загрузки.
func Logging(log logger.Logger) Middleware {
	return func(next fetcher.Fetcher) fetcher.Fetcher {
		return FetcherFunc(func(ctx context.Context, location string) (io.ReadCloser, error) {
			start := time.Now()
			body, err := next.Fetch(ctx, location)
			if err != nil {
				log.Error("Fetch %s failed after %s: %v", location, time.Since(start), err)
				return nil, err
			}
			log.Log("Fetched %s in %s", location, time.Since(start))
			return body, nil
		})
	}
}

// Timeout bounds each fetch. The deadline also covers reading the body.
func Timeout(d time.Duration) Middleware {
	return func(next fetcher.Fetcher) fetcher.Fetcher {
		return FetcherFunc(func(ctx context.Context, location string) (io.ReadCloser, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			body, err := next.Fetch(ctx, location)
			if err != nil {
				cancel()
				return nil, err
			}
			return &cancelOnClose{ReadCloser: body, cancel: cancel}, nil
		})
	}
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
