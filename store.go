package stageload

import (
	"sort"
	"sync"
)

// Store maps asset URLs to loaded resources. Writes for the same URL
// overwrite each other, so the last fetch to complete wins.
// Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	resources map[string]Resource
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{resources: make(map[string]Resource)}
}

// Put records r under its source URL.
func (s *Store) Put(r Resource) {
	if r == nil {
		return
	}
	s.set(r.Source(), r)
}

// set records r under the URL it was requested by.
func (s *Store) set(url string, r Resource) {
	s.mu.Lock()
	s.resources[url] = r
	s.mu.Unlock()
}

// Get returns the resource stored for url, whatever its kind.
func (s *Store) Get(url string) (Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[url]
	return r, ok
}

// Image returns the image stored for url. The second result is false when
// nothing is stored or the stored resource is not an image.
func (s *Store) Image(url string) (*Image, bool) {
	r, ok := s.Get(url)
	if !ok {
		return nil, false
	}
	img, ok := r.(*Image)
	return img, ok
}

// Text returns the text body stored for url. The second result is false when
// nothing is stored or the stored resource is not text.
func (s *Store) Text(url string) (string, bool) {
	r, ok := s.Get(url)
	if !ok {
		return "", false
	}
	txt, ok := r.(*Text)
	if !ok {
		return "", false
	}
	return txt.Body, true
}

// Len returns the number of distinct URLs stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.resources)
}

// URLs returns the stored URLs in sorted order.
func (s *Store) URLs() []string {
	s.mu.RLock()
	urls := make([]string, 0, len(s.resources))
	for u := range s.resources {
		urls = append(urls, u)
	}
	s.mu.RUnlock()
	sort.Strings(urls)
	return urls
}
