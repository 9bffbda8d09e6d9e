// Package activity serves the admin dashboard's recent-activity feed, read
// straight from the status-history audit trail.
package activity

import (
	"context"
	"fmt"

	"pathcrm/internal/crm/models"
	"pathcrm/internal/crm/store/history"
)

type FeedStore interface {
	ListRecent(ctx context.Context, opts history.FeedOptions) ([]*models.ActivityEntry, int, error)
}

// Service reads pages of the activity feed.
type Service struct {
	store FeedStore
}

func New(store FeedStore) *Service {
	return &Service{store: store}
}

// Feed returns one page of transitions, newest first, plus the total record
// count. Out-of-range paging inputs are clamped, never rejected.
func (s *Service) Feed(ctx context.Context, limit, offset int) ([]*models.ActivityEntry, int, error) {
	entries, total, err := s.store.ListRecent(ctx, history.FeedOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list activity: %w", err)
	}
	if entries == nil {
		entries = []*models.ActivityEntry{}
	}
	return entries, total, nil
}
