package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pathcrm/pkg/platform/sentinel"
)

type Store interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	// CreateIfAbsent inserts the account unless the email is taken; the
	// second return reports whether a row was created.
	CreateIfAbsent(ctx context.Context, a *Admin) (bool, error)
}

// InMemoryStore keeps admins in a map, keyed by lowercased email.
type InMemoryStore struct {
	mu     sync.RWMutex
	admins map[string]*Admin
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{admins: make(map[string]*Admin)}
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.admins[normalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (s *InMemoryStore) CreateIfAbsent(_ context.Context, a *Admin) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(a.Email)
	if _, ok := s.admins[email]; ok {
		return false, nil
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.Email = email
	clone := *a
	s.admins[email] = &clone
	return true, nil
}

// PostgresStore persists admins in the admins table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	query := `SELECT id, email, password, created_at FROM admins WHERE email = $1`
	var a Admin
	err := s.db.QueryRowContext(ctx, query, normalizeEmail(email)).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) CreateIfAbsent(ctx context.Context, a *Admin) (bool, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	query := `
		INSERT INTO admins (id, email, password) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
		RETURNING created_at
	`
	err := s.db.QueryRowContext(ctx, query, a.ID, normalizeEmail(a.Email), a.PasswordHash).
		Scan(&a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	a.Email = normalizeEmail(a.Email)
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
