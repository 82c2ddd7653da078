package auth

import (
	"context"
	"sync"
)

// MemoryUserStore keeps the record set in process memory. It honors the
// full UserStore contract (single-writer appends, consistent snapshots) and
// backs the test suites plus ephemeral deployments.
type MemoryUserStore struct {
	mu      sync.RWMutex
	records []*User
}

// NewMemoryUserStore returns an empty in-memory store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

// NewMemoryUserStoreWith seeds the store, e.g. to model a reloaded record
// set. Seeded ids are respected: the next append continues from the max.
func NewMemoryUserStoreWith(records ...*User) *MemoryUserStore {
	s := &MemoryUserStore{}
	for _, r := range records {
		s.records = append(s.records, r.Clone())
	}
	return s
}

func (s *MemoryUserStore) List(ctx context.Context) ([]*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewStorageError(err, "list aborted")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*User, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *MemoryUserStore) Exists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, NewStorageError(err, "lookup aborted")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findLocked(email) != nil, nil
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewStorageError(err, "lookup aborted")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if record := s.findLocked(email); record != nil {
		return record.Clone(), nil
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) Append(ctx context.Context, record *User) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewStorageError(err, "append aborted")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Exists-then-append re-check: two racing signups with the same email
	// serialize here and the loser conflicts.
	if s.findLocked(record.Email) != nil {
		return nil, ErrEmailTaken
	}

	stored := record.Clone().EnsureDefaults()
	stored.ID = nextUserID(s.records)
	s.records = append(s.records, stored)

	return stored.Clone(), nil
}

// findLocked must be called with at least a read lock held.
func (s *MemoryUserStore) findLocked(email string) *User {
	needle := NormalizeEmail(email)
	for _, r := range s.records {
		if NormalizeEmail(r.Email) == needle {
			return r
		}
	}
	return nil
}

var _ UserStore = (*MemoryUserStore)(nil)
