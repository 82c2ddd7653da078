package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// BunUserStore persists users through Bun. The unique index on the
// normalized email enforces the uniqueness invariant at the database level,
// so two racing appends with the same email resolve to exactly one success
// regardless of process count.
type BunUserStore struct {
	db     *bun.DB
	logger Logger
}

// bunUser is the table encoding. The normalized email is materialized as
// its own indexed column so the case-insensitive comparison policy holds in
// SQL without dialect-specific collations.
type bunUser struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64     `bun:"id,pk"`
	Email         string    `bun:"email,notnull"`
	EmailKey      string    `bun:"email_key,notnull,unique"`
	FirstName     string    `bun:"firstname,notnull"`
	LastName      string    `bun:"lastname,notnull"`
	PasswordHash  string    `bun:"password_hash,notnull"`
	Birthday      time.Time `bun:"birthday,notnull"`
	ProfileImage  string    `bun:"profile_image"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// NewBunUserStore wraps an existing bun.DB.
func NewBunUserStore(db *bun.DB) *BunUserStore {
	return &BunUserStore{
		db:     db,
		logger: defLogger{},
	}
}

// OpenSQLiteUserStore opens (or creates) an embedded SQLite store at path.
// Use ":memory:" for an ephemeral database.
func OpenSQLiteUserStore(ctx context.Context, path string) (*BunUserStore, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, NewStorageError(err, "failed to open sqlite store")
	}

	// A pooled handle over an in-memory database would give every
	// connection its own empty database.
	if strings.Contains(path, ":memory:") {
		sqldb.SetMaxOpenConns(1)
	}

	store := NewBunUserStore(bun.NewDB(sqldb, sqlitedialect.New()))
	if err := store.CreateSchema(ctx); err != nil {
		sqldb.Close()
		return nil, err
	}

	return store, nil
}

// WithLogger overrides the store logger.
func (s *BunUserStore) WithLogger(l Logger) *BunUserStore {
	if l != nil {
		s.logger = l
	}
	return s
}

// CreateSchema creates the users table when it does not exist yet.
func (s *BunUserStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*bunUser)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return NewStorageError(err, "failed to create users table")
	}
	return nil
}

// Close releases the underlying database handle.
func (s *BunUserStore) Close() error {
	return s.db.Close()
}

func (s *BunUserStore) List(ctx context.Context) ([]*User, error) {
	var rows []bunUser
	if err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("id ASC").
		Scan(ctx); err != nil {
		return nil, NewStorageError(err, "failed to list users")
	}

	out := make([]*User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toUser())
	}
	return out, nil
}

func (s *BunUserStore) Exists(ctx context.Context, email string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*bunUser)(nil)).
		Where("email_key = ?", NormalizeEmail(email)).
		Exists(ctx)
	if err != nil {
		return false, NewStorageError(err, "failed to check email")
	}
	return exists, nil
}

func (s *BunUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := &bunUser{}
	err := s.db.NewSelect().
		Model(row).
		Where("email_key = ?", NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, NewStorageError(err, "failed to find user")
	}

	return row.toUser(), nil
}

func (s *BunUserStore) Append(ctx context.Context, record *User) (*User, error) {
	stored := record.Clone().EnsureDefaults()

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var maxID int64
		if err := tx.NewSelect().
			Model((*bunUser)(nil)).
			ColumnExpr("COALESCE(MAX(id), 0)").
			Scan(ctx, &maxID); err != nil {
			return err
		}

		stored.ID = maxID + 1

		_, err := tx.NewInsert().Model(toBunUser(stored)).Exec(ctx)
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, NewStorageError(err, "failed to append user")
	}

	return stored.Clone(), nil
}

// isUniqueViolation detects duplicate-email failures across the sqlite
// drivers the shim may select. Only the email_key constraint maps to a
// conflict; any other constraint (the id primary key included) is an
// infrastructure fault the caller may retry.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") && strings.Contains(msg, "users.email_key")
}

func toBunUser(u *User) *bunUser {
	return &bunUser{
		ID:           u.ID,
		Email:        u.Email,
		EmailKey:     NormalizeEmail(u.Email),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Birthday:     u.Birthday,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}

func (r *bunUser) toUser() *User {
	return &User{
		ID:           r.ID,
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PasswordHash: r.PasswordHash,
		Birthday:     r.Birthday,
		ProfileImage: r.ProfileImage,
		CreatedAt:    r.CreatedAt,
	}
}

var _ UserStore = (*BunUserStore)(nil)
