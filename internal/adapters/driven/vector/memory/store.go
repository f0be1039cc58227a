// Package memory provides a process-local vector store.
// Records are lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store keeps vectors in memory and ranks them by cosine similarity.
type Store struct {
	mu      sync.RWMutex
	order   []string
	records map[string]domain.VectorRecord
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]domain.VectorRecord)}
}

// Upsert stores copies of the records, replacing any with the same ID.
func (s *Store) Upsert(_ context.Context, records []domain.VectorRecord) error {
	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("memory: record ID is required")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if _, ok := s.records[r.ID]; !ok {
			s.order = append(s.order, r.ID)
		}
		r.Values = append([]float32(nil), r.Values...)
		s.records[r.ID] = r
	}
	return nil
}

// Search returns up to k records most similar to query.
// Ties keep insertion order.
func (s *Store) Search(_ context.Context, query []float32, k int) ([]domain.Passage, error) {
	if k <= 0 {
		return []domain.Passage{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		record domain.VectorRecord
		score  float64
	}
	candidates := make([]scored, 0, len(s.order))
	for _, id := range s.order {
		r := s.records[id]
		if len(r.Values) != len(query) {
			continue
		}
		candidates = append(candidates, scored{record: r, score: cosine(query, r.Values)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	passages := make([]domain.Passage, len(candidates))
	for i, c := range candidates {
		passages[i] = domain.Passage{
			PageContent: c.record.Text,
			Metadata:    c.record.Metadata,
			Score:       c.score,
		}
	}
	return passages, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
