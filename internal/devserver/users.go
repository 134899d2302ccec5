package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formclient/pkg/model"
)

// ErrUserNotFound is returned when no user has the requested roll number.
var ErrUserNotFound = errors.New("devserver: user not found")

// UserStore persists registered users keyed by roll number.
type UserStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserStore wraps an open database prepared by OpenDB.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db, now: time.Now}
}

// Upsert registers user, replacing the name when the roll number exists.
func (s *UserStore) Upsert(ctx context.Context, user model.User) error {
	ts := s.now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (roll_number, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (roll_number) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		user.RollNumber, user.Name, ts, ts)
	if err != nil {
		return fmt.Errorf("devserver: upsert user %q: %w", user.RollNumber, err)
	}
	return nil
}

// Get returns the user registered under rollNumber.
func (s *UserStore) Get(ctx context.Context, rollNumber string) (model.User, error) {
	var user model.User
	err := s.db.QueryRowContext(ctx, `SELECT roll_number, name FROM users WHERE roll_number=$1`, rollNumber).
		Scan(&user.RollNumber, &user.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("devserver: get user %q: %w", rollNumber, err)
	}
	return user, nil
}

// Count reports the number of registered users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("devserver: count users: %w", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *UserStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
