package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ahui21/PokerNow-Analyzer/internal/parser"
)

// MemoryRepository is the in-memory fallback store. It mirrors the
// SQLite repository's semantics, including duplicate-import rejection.
type MemoryRepository struct {
	mu      sync.RWMutex
	imports map[string]ImportRecord
	order   []string
	hands   map[string][]*parser.Hand
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		imports: make(map[string]ImportRecord),
		hands:   make(map[string][]*parser.Hand),
	}
}

func (r *MemoryRepository) HasImport(_ context.Context, fileID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.imports[fileID]
	return ok, nil
}

func (r *MemoryRepository) SaveImport(_ context.Context, rec ImportRecord, hands []*parser.Hand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.imports[rec.FileID]; ok {
		return fmt.Errorf("file %s already imported", rec.FileID)
	}
	stored := make([]*parser.Hand, 0, len(hands))
	for _, h := range hands {
		stored = append(stored, h.Clone())
	}
	r.imports[rec.FileID] = rec
	r.order = append(r.order, rec.FileID)
	r.hands[rec.FileID] = stored
	return nil
}

func (r *MemoryRepository) ListImports(_ context.Context) ([]ImportRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ImportRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.imports[id])
	}
	return out, nil
}

func (r *MemoryRepository) LoadHands(_ context.Context) ([]*parser.Hand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*parser.Hand
	for _, id := range r.order {
		for _, h := range r.hands[id] {
			out = append(out, h.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
