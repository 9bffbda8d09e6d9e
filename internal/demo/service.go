// Package demo owns the demo-booking slice of the API: public booking plus
// the admin list, delete, and status endpoints.
package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pathcrm/internal/crm/models"
	"pathcrm/internal/crm/store/demo"
	"pathcrm/internal/platform/metrics"
	"pathcrm/pkg/domain"
	dErrors "pathcrm/pkg/domain-errors"
	"pathcrm/pkg/platform/sentinel"
)

// DuplicateWindow is how long an email address must wait between bookings.
const DuplicateWindow = 60 * time.Second

type Store interface {
	Create(ctx context.Context, d *models.Demo) error
	List(ctx context.Context, opts demo.ListOptions) ([]*models.Demo, int, error)
	HasRecentByEmail(ctx context.Context, email string, within time.Duration) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// Engine is the transition engine surface this package needs.
type Engine interface {
	RecordCreation(ctx context.Context, snap *models.Snapshot)
	RequestTransition(ctx context.Context, kind domain.EntityKind, id uuid.UUID, requested string, actorID *uuid.UUID) (*models.TransitionOutcome, error)
}

// Service holds demo booking business logic.
type Service struct {
	store   Store
	engine  Engine
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, engine Engine, opts ...Option) *Service {
	s := &Service{store: store, engine: engine}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stores a normalized, validated booking. A repeat from the same
// address inside DuplicateWindow is rejected as rate-limited.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) error {
	dup, err := s.store.HasRecentByEmail(ctx, req.Email, DuplicateWindow)
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}
	if dup {
		return dErrors.New(dErrors.CodeRateLimited, "Please wait a moment before submitting again.")
	}

	demoDate, err := req.ParsedDemoDate()
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "Please provide a valid date/time for the demo.")
	}

	d := &models.Demo{
		FullName: req.FullName,
		Email:    req.Email,
		Company:  req.Company,
		DemoDate: demoDate,
		Service:  req.Service,
		Notes:    req.Notes,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return fmt.Errorf("create demo: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Submissions.WithLabelValues(string(domain.KindDemo)).Inc()
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "demo booking saved",
			slog.String("demo_id", d.ID.String()))
	}

	s.engine.RecordCreation(ctx, models.SnapshotOfDemo(d))
	return nil
}

// List returns one admin page of bookings, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Demo, int, error) {
	demos, total, err := s.store.List(ctx, demo.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list demos: %w", err)
	}
	if demos == nil {
		demos = []*models.Demo{}
	}
	return demos, total, nil
}

// Delete removes a booking. History records stay behind.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "Demo booking not found.")
		}
		return fmt.Errorf("delete demo: %w", err)
	}
	return nil
}

// UpdateStatus runs a transition through the engine on behalf of an admin.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string, actorID *uuid.UUID) (*models.TransitionOutcome, error) {
	return s.engine.RequestTransition(ctx, domain.KindDemo, id, status, actorID)
}
