package contact

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pathcrm/internal/crm/models"
	"pathcrm/pkg/domain"
	"pathcrm/pkg/platform/sentinel"
)

// InMemoryStore keeps contacts in a map. Used by unit tests and as a
// fallback when no database is configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	contacts map[uuid.UUID]*models.Contact
	order    []uuid.UUID
	clock    Clock
}

// InMemoryOption configures an InMemoryStore.
type InMemoryOption func(*InMemoryStore)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) InMemoryOption {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		contacts: make(map[uuid.UUID]*models.Contact),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new submission. Zero ID, status, and creation time are
// filled in, mirroring the table defaults of the postgres store.
func (s *InMemoryStore) Create(_ context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = domain.StatusPending
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.clock()
	}

	clone := *c
	s.contacts[c.ID] = &clone
	s.order = append(s.order, c.ID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contacts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

// UpdateStatus overwrites the status unconditionally, keyed by id only.
// Concurrent writers on the same row race last-write-wins.
func (s *InMemoryStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c.Status = status
	clone := *c
	return &clone, nil
}

func (s *InMemoryStore) List(_ context.Context, opts ListOptions) ([]*models.Contact, int, error) {
	opts = opts.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matching := make([]*models.Contact, 0, len(s.order))
	for _, id := range s.order {
		c := s.contacts[id]
		if opts.Status != "" && c.Status != opts.Status {
			continue
		}
		clone := *c
		matching = append(matching, &clone)
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].CreatedAt.After(matching[j].CreatedAt)
	})

	total := len(matching)
	if opts.Offset >= total {
		return []*models.Contact{}, total, nil
	}
	end := opts.Offset + opts.Limit
	if end > total {
		end = total
	}
	return matching[opts.Offset:end], total, nil
}

// HasRecentByEmail reports whether the address submitted within the window.
// Backs the duplicate-submission guard.
func (s *InMemoryStore) HasRecentByEmail(_ context.Context, email string, within time.Duration) (bool, error) {
	cutoff := s.clock().Add(-within)
	email = strings.ToLower(email)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.contacts {
		if strings.ToLower(c.Email) == email && c.CreatedAt.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contacts[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.contacts, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
