// Package queue owns the in-memory work item collection and the controller
// that drives items through their extraction lifecycle.
//
// The Store is the single source of truth for queue semantics: every status
// transition goes through one of its operations, and every mutation replaces
// the backing slice wholesale so snapshots handed to callers are never
// invalidated by later writes.
package queue

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"labelscan/internal/domain"
)

// Store holds the session's work items. Transition operations on IDs that are
// no longer present return domain.ErrNotFound; callers racing a user deletion
// treat that as a harmless discard.
type Store struct {
	mu      sync.Mutex
	items   []domain.Item
	changes chan struct{}
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		changes: make(chan struct{}, 1),
		now:     time.Now,
	}
}

// Changes returns a signal channel that receives after every mutation.
// Signals coalesce: a slow consumer sees at least one signal per burst of
// mutations, not one per mutation.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// Enqueue adds a new item in queued state and returns its snapshot.
func (s *Store) Enqueue(fileName, mimeType string, imageData []byte) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	item := domain.Item{
		ID:        uuid.NewString(),
		FileName:  fileName,
		MIMEType:  mimeType,
		ImageData: imageData,
		Status:    domain.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	next := make([]domain.Item, 0, len(s.items)+1)
	next = append(next, s.items...)
	next = append(next, item)
	s.items = next
	s.notifyLocked()
	return item.Clone()
}

// MarkLoading transitions a queued item to loading.
func (s *Store) MarkLoading(id string) error {
	return s.transition(id, func(it *domain.Item) {
		it.Status = domain.StatusLoading
	}, domain.StatusQueued)
}

// MarkDone attaches extracted fields and transitions the item to done.
func (s *Store) MarkDone(id string, fields *domain.ExtractedFields) error {
	return s.transition(id, func(it *domain.Item) {
		it.Status = domain.StatusDone
		it.Fields = fields.Clone()
		it.ErrorMessage = ""
	}, domain.StatusLoading)
}

// MarkError records a failure message and transitions the item to error.
func (s *Store) MarkError(id, message string) error {
	return s.transition(id, func(it *domain.Item) {
		it.Status = domain.StatusError
		it.ErrorMessage = message
	}, domain.StatusLoading)
}

// Delete removes an item from the collection. An extraction already in
// flight for the item is not cancelled; its eventual MarkDone/MarkError will
// miss and be discarded.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.ErrNotFound
	}
	next := make([]domain.Item, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	s.items = next
	s.notifyLocked()
	return nil
}

// Get returns a snapshot of a single item.
func (s *Store) Get(id string) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Item{}, domain.ErrNotFound
	}
	return s.items[idx].Clone(), nil
}

// Snapshot returns an independent copy of the collection in intake order.
func (s *Store) Snapshot() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

// CountByStatus reports how many items currently hold the given status.
func (s *Store) CountByStatus(status domain.Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, it := range s.items {
		if it.Status == status {
			n++
		}
	}
	return n
}

func (s *Store) transition(id string, mutate func(*domain.Item), from domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.ErrNotFound
	}
	if s.items[idx].Status != from {
		return domain.ErrNotFound
	}

	next := make([]domain.Item, len(s.items))
	copy(next, s.items)
	item := next[idx].Clone()
	mutate(&item)
	item.UpdatedAt = s.now()
	next[idx] = item
	s.items = next
	s.notifyLocked()
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notifyLocked() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
