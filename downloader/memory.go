package downloader

import (
	"context"
	"sync"
	"time"
)

// Caches downloaded files in memory.
type MemoryDownloader struct {
	mutex   sync.Mutex
	entries map[string]memoryEntry

	TimeNow func() time.Time
}

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

func NewMemory() *MemoryDownloader {
	return &MemoryDownloader{
		entries: map[string]memoryEntry{},
		TimeNow: time.Now,
	}
}

func (d *MemoryDownloader) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {
	if !options.Cache {
		return HTTPGet(ctx, url, headers, options)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if entry, ok := d.entries[url]; ok && d.TimeNow().Before(entry.expiresAt) {
		return entry.body, nil
	}

	body, err := HTTPGet(ctx, url, headers, options)
	if err != nil {
		return nil, err
	}

	d.entries[url] = memoryEntry{
		body:      body,
		expiresAt: d.TimeNow().Add(options.CacheTTL),
	}

	return body, nil
}
