package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Caches downloaded files in a JSON file on disk, so repeated scrape
// runs against the same stations don't hammer the API.
type Filesystem struct {
	Path string

	mutex   sync.Mutex
	entries map[string]fsEntry
}

// json encodes the body as base64 and the timestamp as RFC3339.
type fsEntry struct {
	Body        []byte    `json:"body"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

func NewFilesystem(path string) (*Filesystem, error) {
	f := &Filesystem{
		Path:    path,
		entries: map[string]fsEntry{},
	}

	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	if err := json.Unmarshal(buf, &f.entries); err != nil {
		return nil, fmt.Errorf("decoding cache: %w", err)
	}

	return f, nil
}

func (f *Filesystem) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {
	if !options.Cache {
		return HTTPGet(ctx, url, headers, options)
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if entry, ok := f.entries[url]; ok {
		if entry.RetrievedAt.Add(options.CacheTTL).After(time.Now()) {
			return entry.Body, nil
		}
	}

	body, err := HTTPGet(ctx, url, headers, options)
	if err != nil {
		return nil, err
	}

	f.entries[url] = fsEntry{
		Body:        body,
		RetrievedAt: time.Now().UTC(),
	}
	if err := f.save(); err != nil {
		return nil, fmt.Errorf("saving cache: %w", err)
	}

	return body, nil
}

func (f *Filesystem) save() error {
	buf, err := json.Marshal(f.entries)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	if err := os.WriteFile(f.Path, buf, 0644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}

	return nil
}
