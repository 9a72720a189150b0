package testutil

import (
	"context"
	"errors"
	"sync"
)

// ErrNotPublished is returned by FakeSource.Fetch for unknown URLs.
var ErrNotPublished = errors.New("not published")

// FakeSource is a scripted in-memory cdn.Source that records every call.
type FakeSource struct {
	mu       sync.Mutex
	files    map[string][]byte
	failures map[string]error
	heads    []string
	fetches  []string
}

// NewFakeSource returns an empty FakeSource.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		files:    make(map[string][]byte),
		failures: make(map[string]error),
	}
}

// Put publishes data at url.
func (f *FakeSource) Put(url string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[url] = data
}

// FailFetch makes url exist but fail to download with err.
func (f *FakeSource) FailFetch(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[url]; !ok {
		f.files[url] = nil
	}
	f.failures[url] = err
}

// Exists implements cdn.Source.
func (f *FakeSource) Exists(ctx context.Context, url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heads = append(f.heads, url)
	_, ok := f.files[url]
	return ok
}

// Fetch implements cdn.Source.
func (f *FakeSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, url)
	if err, ok := f.failures[url]; ok {
		return nil, err
	}
	data, ok := f.files[url]
	if !ok {
		return nil, ErrNotPublished
	}
	return data, nil
}

// HeadCalls returns the URLs probed so far, in call order.
func (f *FakeSource) HeadCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.heads...)
}

// FetchCalls returns the URLs downloaded so far, in call order.
func (f *FakeSource) FetchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetches...)
}

// Calls returns the total number of network calls made.
func (f *FakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.heads) + len(f.fetches)
}
