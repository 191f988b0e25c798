// Package selection tracks which historical results are picked for a report.
package selection

import (
	"fmt"
	"sync"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/Lenin1999/app-proyecto-pulmones/internal/model"
)

// Store holds the loaded records of one results-screen session and the ids
// selected among them. Selection order is insertion order.
type Store struct {
	index    map[model.RecordID]int
	selected map[model.RecordID]struct{}
	records  []model.ClassificationRecord
	order    []model.RecordID
	mu       sync.RWMutex
}

// New creates an empty store.
func New() *Store {
	return &Store{
		index:    make(map[model.RecordID]int),
		selected: make(map[model.RecordID]struct{}),
	}
}

// Load replaces the loaded records. Selected ids that are no longer present
// are dropped; the rest keep their order.
func (s *Store) Load(records []model.ClassificationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]model.ClassificationRecord(nil), records...)
	s.index = make(map[model.RecordID]int, len(records))
	for i, r := range s.records {
		if _, dup := s.index[r.ID]; !dup {
			s.index[r.ID] = i
		}
	}

	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.index[id]; ok {
			kept = append(kept, id)
			continue
		}
		delete(s.selected, id)
	}
	s.order = kept
}

// Toggle removes id if selected and adds it otherwise. It returns whether
// id is selected afterwards. Unknown ids are rejected.
func (s *Store) Toggle(id model.RecordID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false, nil
	}

	if _, ok := s.index[id]; !ok {
		return false, fmt.Errorf("%w: %s", common.ErrUnknownRecord, id)
	}

	s.selected[id] = struct{}{}
	s.order = append(s.order, id)
	return true, nil
}

// IsSelected reports whether id is in the selection.
func (s *Store) IsSelected(id model.RecordID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

// Current returns a snapshot of the selected ids in insertion order.
func (s *Store) Current() []model.RecordID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.RecordID{}, s.order...)
}

// Records returns a copy of the loaded records in listing order.
func (s *Store) Records() []model.ClassificationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ClassificationRecord{}, s.records...)
}

// SelectedRecords resolves the selection against the loaded records,
// in selection order.
func (s *Store) SelectedRecords() []model.ClassificationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ClassificationRecord, 0, len(s.order))
	for _, id := range s.order {
		if i, ok := s.index[id]; ok {
			out = append(out, s.records[i])
		}
	}
	return out
}

// Len returns the number of selected ids.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Clear empties the selection. Loaded records are kept.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[model.RecordID]struct{})
	s.order = nil
}
