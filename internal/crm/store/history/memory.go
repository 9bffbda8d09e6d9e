package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pathcrm/internal/crm/models"
	"pathcrm/pkg/domain"
)

// NameResolver looks up the current display name of the entity a record
// belongs to. The second return is false when the entity no longer exists.
type NameResolver interface {
	ResolveName(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (string, bool)
}

// UnknownName is substituted when a record's entity cannot be resolved,
// typically because the row was deleted after the transition.
const UnknownName = "Unknown"

// InMemoryStore keeps transition records in an append-only slice. Used by
// unit tests and as a fallback when no database is configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	records  []*models.TransitionRecord
	resolver NameResolver
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

// WithResolver sets the name resolver used by ListRecent. Without one every
// entry falls back to UnknownName.
func WithResolver(r NameResolver) InMemoryOption {
	return func(s *InMemoryStore) {
		s.resolver = r
	}
}

func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records one transition. Zero ID and timestamp are filled in.
func (s *InMemoryStore) Append(_ context.Context, rec *models.TransitionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *rec
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	if clone.UpdatedAt.IsZero() {
		clone.UpdatedAt = s.clock()
	}
	s.records = append(s.records, &clone)

	rec.ID = clone.ID
	rec.UpdatedAt = clone.UpdatedAt
	return nil
}

// ListRecent returns a page of the feed ordered newest-first, joined with the
// owning entity's display name, plus the total record count. Records with
// equal timestamps keep their append order relative to each other.
func (s *InMemoryStore) ListRecent(ctx context.Context, opts FeedOptions) ([]*models.ActivityEntry, int, error) {
	opts = opts.Normalize()

	s.mu.RLock()
	ordered := make([]*models.TransitionRecord, len(s.records))
	copy(ordered, s.records)
	s.mu.RUnlock()

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UpdatedAt.After(ordered[j].UpdatedAt)
	})

	total := len(ordered)
	if opts.Offset >= total {
		return []*models.ActivityEntry{}, total, nil
	}
	end := opts.Offset + opts.Limit
	if end > total {
		end = total
	}

	entries := make([]*models.ActivityEntry, 0, end-opts.Offset)
	for _, rec := range ordered[opts.Offset:end] {
		name := UnknownName
		if s.resolver != nil {
			if resolved, ok := s.resolver.ResolveName(ctx, rec.Kind, rec.EntityID); ok {
				name = resolved
			}
		}
		entries = append(entries, &models.ActivityEntry{
			TransitionRecord: *rec,
			FullName:         name,
		})
	}
	return entries, total, nil
}
