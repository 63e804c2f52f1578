package cache

import (
	"bytes"
	"context"
	"time"
)

// Store is an in-memory byte store keyed by string with per-key TTL.
type Store struct {
	lru *LRUCache[string, []byte]
}

// New creates a store holding at most capacity entries.
func New(capacity int) *Store {
	return &Store{lru: NewLRUCache[string, []byte](capacity)}
}

// Get returns the stored value, or nil when the key is missing or expired.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := s.lru.Get(key)
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

// Set stores value under key. Zero ttl means no expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.lru.Put(key, bytes.Clone(value), ttl)
	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.lru.Remove(key)
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return s.lru.Len()
}
