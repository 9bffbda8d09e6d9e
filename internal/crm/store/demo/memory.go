package demo

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

// InMemoryStore keeps demo bookings in a map. Used by unit tests and as a
// fallback when no database is configured.
type InMemoryStore struct {
	mu    sync.RWMutex
	demos map[uuid.UUID]*models.Demo
	order []uuid.UUID
	clock Clock
}

type InMemoryOption func(*InMemoryStore)

func WithClock(clock Clock) InMemoryOption {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		demos: make(map[uuid.UUID]*models.Demo),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Create(_ context.Context, d *models.Demo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = domain.StatusPending
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.clock()
	}

	clone := *d
	s.demos[d.ID] = &clone
	s.order = append(s.order, d.ID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Demo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.demos[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *d
	return &clone, nil
}

// UpdateStatus overwrites the status unconditionally, keyed by id only.
func (s *InMemoryStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (*models.Demo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.demos[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	d.Status = status
	clone := *d
	return &clone, nil
}

func (s *InMemoryStore) List(_ context.Context, opts ListOptions) ([]*models.Demo, int, error) {
	opts = opts.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matching := make([]*models.Demo, 0, len(s.order))
	for _, id := range s.order {
		d := s.demos[id]
		if opts.Status != "" && d.Status != opts.Status {
			continue
		}
		clone := *d
		matching = append(matching, &clone)
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].CreatedAt.After(matching[j].CreatedAt)
	})

	total := len(matching)
	if opts.Offset >= total {
		return []*models.Demo{}, total, nil
	}
	end := opts.Offset + opts.Limit
	if end > total {
		end = total
	}
	return matching[opts.Offset:end], total, nil
}

func (s *InMemoryStore) HasRecentByEmail(_ context.Context, email string, within time.Duration) (bool, error) {
	cutoff := s.clock().Add(-within)
	email = strings.ToLower(email)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.demos {
		if strings.ToLower(d.Email) == email && d.CreatedAt.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.demos[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.demos, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
