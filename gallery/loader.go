package gallery

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"
)

// ErrLoaderClosed is reported for loads requested after Close.
var ErrLoaderClosed = errors.New("gallery: loader closed")

// LoadResult is one finished image load.
type LoadResult struct {
	Source string
	Image  image.Image
	Err    error
}

// Loader decodes images in the background. Finished results are collected
// by Drain on the frame thread, so textures are only ever touched there.
type Loader struct {
	ctx    context.Context
	cancel context.CancelFunc
	sem    *semaphore.Weighted
	client *http.Client
	wg     sync.WaitGroup

	mu     sync.Mutex
	done   []LoadResult
	closed bool
}

// NewLoader creates a loader running at most workers decodes at once.
func NewLoader(ctx context.Context, workers int) *Loader {
	if workers <= 0 {
		workers = 4
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Loader{
		ctx:    ctx,
		cancel: cancel,
		sem:    semaphore.NewWeighted(int64(workers)),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Load starts fetching and decoding src, a file path or http(s) URL.
func (l *Loader) Load(src string) {
	l.mu.Lock()
	if l.closed {
		l.done = append(l.done, LoadResult{Source: src, Err: ErrLoaderClosed})
		l.mu.Unlock()
		return
	}
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		if err := l.sem.Acquire(l.ctx, 1); err != nil {
			l.finish(LoadResult{Source: src, Err: err})
			return
		}
		defer l.sem.Release(1)
		img, err := l.fetch(src)
		l.finish(LoadResult{Source: src, Image: img, Err: err})
	}()
}

func (l *Loader) finish(r LoadResult) {
	l.mu.Lock()
	l.done = append(l.done, r)
	l.mu.Unlock()
}

func (l *Loader) fetch(src string) (image.Image, error) {
	rc, err := l.open(src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src, err)
	}
	return img, nil
}

func (l *Loader) open(src string) (io.ReadCloser, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(l.ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", src, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: %s", src, resp.Status)
		}
		return resp.Body, nil
	}
	f, err := os.Open(strings.TrimPrefix(src, "file://"))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Drain returns every result finished since the previous call. It never
// blocks on in-flight loads.
func (l *Loader) Drain() []LoadResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.done
	l.done = nil
	return out
}

// Wait blocks until every started load has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close cancels in-flight loads and waits for the workers to exit. Safe to
// call more than once.
func (l *Loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.cancel()
	l.wg.Wait()
	l.client.CloseIdleConnections()

	l.mu.Lock()
	l.done = nil
	l.mu.Unlock()
}
