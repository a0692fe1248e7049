package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	v1 "github.com/rentlab/rentalytics/internal/api/v1"
	"github.com/rentlab/rentalytics/internal/core/summary"
)

// Store is an in-memory implementation of storage.Store.
// Useful for testing and development. The mutex is held across every
// check-then-act so the bucket upsert has the same atomicity as the
// Postgres ON CONFLICT statement.
type Store struct {
	mu      sync.RWMutex
	details []*v1.DetailRecord
	buckets map[string]summary.Bucket
	nextSeq int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		buckets: make(map[string]summary.Bucket),
		nextSeq: 1,
	}
}

func (s *Store) InsertDetail(ctx context.Context, rec *v1.DetailRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendLocked(rec)
	return nil
}

func (s *Store) BulkInsertDetails(ctx context.Context, recs []*v1.DetailRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range recs {
		s.appendLocked(rec)
	}
	return nil
}

func (s *Store) appendLocked(rec *v1.DetailRecord) {
	rec.DetailSeq = s.nextSeq
	s.nextSeq++

	// Store a copy to prevent external modification
	cp := *rec
	s.details = append(s.details, &cp)
}

func (s *Store) ListDetails(ctx context.Context) ([]*v1.DetailRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*v1.DetailRecord, 0, len(s.details))
	for _, rec := range s.details {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) CountDetails(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.details)), nil
}

func (s *Store) UpsertBucket(ctx context.Context, key string, rec *v1.DetailRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if cur, ok := s.buckets[key]; ok {
		s.buckets[key] = summary.Apply(cur, rec.Amount, now)
	} else {
		s.buckets[key] = summary.Initial(key, rec.Amount, now)
	}
	return nil
}

func (s *Store) ReplaceAllBuckets(ctx context.Context, buckets []summary.Bucket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buckets = make(map[string]summary.Bucket, len(buckets))
	for _, b := range buckets {
		s.buckets[b.MonthKey] = b
	}
	return nil
}

func (s *Store) ListBuckets(ctx context.Context) ([]summary.Bucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]summary.Bucket, 0, len(s.buckets))
	for _, b := range s.buckets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MonthKey < out[j].MonthKey
	})
	return out, nil
}

func (s *Store) TruncateAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.details = nil
	s.buckets = make(map[string]summary.Bucket)
	s.nextSeq = 1
	return nil
}
