package auth

import (
	"context"
	"strings"
)

// UserStore is the durable record of registered users.
//
// Email comparison policy: uniqueness and lookups are case-insensitive.
// Implementations compare NormalizeEmail(email) values while records keep
// the email exactly as the user typed it.
//
// Write semantics: Append assigns the next id (max existing id + 1, or 1 on
// an empty store), re-checks email uniqueness under its own write lock, and
// persists the whole record durably before returning. A duplicate email
// returns ErrEmailTaken; any persistence fault returns a storage error and
// the record must not be observable afterwards. Ids are never reused, even
// after a store is reloaded from persisted state.
//
// Read semantics: List and FindByEmail return copies and always observe a
// consistent snapshot, never a record mid-write.
type UserStore interface {
	List(ctx context.Context) ([]*User, error)
	Exists(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Append(ctx context.Context, record *User) (*User, error)
}

// NormalizeEmail applies the store comparison policy: surrounding
// whitespace is ignored and comparison is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// nextUserID implements the id invariant shared by the in-memory and
// flat-file stores: max(existing ids) + 1, or 1 when empty.
func nextUserID(records []*User) int64 {
	var max int64
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}
