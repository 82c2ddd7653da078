package auth

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileUserStore persists the record set as a single JSON document. The whole
// set is the unit of durability: every append rewrites the full file, and
// the rewrite goes through a temp file + rename so readers (and crashes)
// never observe a half-written store.
//
// The file layout matches the original data/user.json: an array of user
// objects, password hash included. That on-disk encoding is private to this
// store; User itself never serializes the hash.
type FileUserStore struct {
	path    string
	mu      sync.RWMutex
	records []*User
	logger  Logger
}

// storedUser is the on-disk encoding. It exists so the hash can be written
// to the store file while staying out of every caller-facing serialization.
type storedUser struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstname"`
	LastName     string    `json:"lastname"`
	Password     string    `json:"password"`
	Birthday     time.Time `json:"birthday"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// NewFileUserStore opens (or creates) the store file and loads the current
// record set. Ids continue from the max id found, so reloading never reuses
// an id.
func NewFileUserStore(path string) (*FileUserStore, error) {
	s := &FileUserStore{
		path:   path,
		logger: defLogger{},
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// WithLogger overrides the store logger.
func (s *FileUserStore) WithLogger(l Logger) *FileUserStore {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *FileUserStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return NewStorageError(err, "failed to read user store file")
	}

	if len(raw) == 0 {
		return nil
	}

	var stored []storedUser
	if err := json.Unmarshal(raw, &stored); err != nil {
		return NewStorageError(err, "user store file is corrupt")
	}

	s.records = make([]*User, 0, len(stored))
	for _, su := range stored {
		s.records = append(s.records, su.toUser())
	}

	return nil
}

func (s *FileUserStore) List(ctx context.Context) ([]*User, error) {
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

func (s *FileUserStore) Exists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, NewStorageError(err, "lookup aborted")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findLocked(email) != nil, nil
}

func (s *FileUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
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

func (s *FileUserStore) Append(ctx context.Context, record *User) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewStorageError(err, "append aborted")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(record.Email) != nil {
		return nil, ErrEmailTaken
	}

	stored := record.Clone().EnsureDefaults()
	stored.ID = nextUserID(s.records)

	next := append(append([]*User(nil), s.records...), stored)
	if err := s.rewrite(next); err != nil {
		// The failed record must not be treated as registered.
		return nil, err
	}

	s.records = next
	return stored.Clone(), nil
}

// rewrite persists the full record set atomically: marshal, write to a temp
// file in the same directory, fsync, then rename over the store file.
func (s *FileUserStore) rewrite(records []*User) error {
	stored := make([]storedUser, 0, len(records))
	for _, r := range records {
		stored = append(stored, toStoredUser(r))
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return NewStorageError(err, "failed to encode user store")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return NewStorageError(err, "failed to create temp store file")
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			s.logger.Error("failed to remove temp store file %s: %s", tmpName, err)
		}
	}

	if _, err := tmp.Write(raw); err != nil {
		cleanup()
		return NewStorageError(err, "failed to write user store")
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return NewStorageError(err, "failed to sync user store")
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return NewStorageError(err, "failed to close temp store file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return NewStorageError(err, "failed to replace user store file")
	}

	return nil
}

// findLocked must be called with at least a read lock held.
func (s *FileUserStore) findLocked(email string) *User {
	needle := NormalizeEmail(email)
	for _, r := range s.records {
		if NormalizeEmail(r.Email) == needle {
			return r
		}
	}
	return nil
}

func toStoredUser(u *User) storedUser {
	return storedUser{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Password:     u.PasswordHash,
		Birthday:     u.Birthday,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}

func (su storedUser) toUser() *User {
	return &User{
		ID:           su.ID,
		Email:        su.Email,
		FirstName:    su.FirstName,
		LastName:     su.LastName,
		PasswordHash: su.Password,
		Birthday:     su.Birthday,
		ProfileImage: su.ProfileImage,
		CreatedAt:    su.CreatedAt,
	}
}

var _ UserStore = (*FileUserStore)(nil)
