// Package contact owns the contact-form slice of the API: public submission
// plus the admin list, delete, and status endpoints.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pathcrm/internal/crm/models"
	"pathcrm/internal/crm/store/contact"
	"pathcrm/internal/platform/metrics"
	"pathcrm/pkg/domain"
	dErrors "pathcrm/pkg/domain-errors"
	"pathcrm/pkg/platform/sentinel"
)

// DuplicateWindow is how long an email address must wait between submissions.
const DuplicateWindow = 60 * time.Second

type Store interface {
	Create(ctx context.Context, c *models.Contact) error
	List(ctx context.Context, opts contact.ListOptions) ([]*models.Contact, int, error)
	HasRecentByEmail(ctx context.Context, email string, within time.Duration) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// Engine is the transition engine surface this package needs.
type Engine interface {
	RecordCreation(ctx context.Context, snap *models.Snapshot)
	RequestTransition(ctx context.Context, kind domain.EntityKind, id uuid.UUID, requested string, actorID *uuid.UUID) (*models.TransitionOutcome, error)
}

// Service holds contact submission business logic.
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

// Submit stores a normalized, validated submission. A repeat from the same
// address inside DuplicateWindow is rejected as rate-limited.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) error {
	dup, err := s.store.HasRecentByEmail(ctx, req.Email, DuplicateWindow)
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}
	if dup {
		return dErrors.New(dErrors.CodeRateLimited, "Please wait a moment before submitting again.")
	}

	c := &models.Contact{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Message:  req.Message,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return fmt.Errorf("create contact: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Submissions.WithLabelValues(string(domain.KindContact)).Inc()
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "contact submission saved",
			slog.String("contact_id", c.ID.String()))
	}

	s.engine.RecordCreation(ctx, models.SnapshotOfContact(c))
	return nil
}

// List returns one admin page of submissions, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Contact, int, error) {
	contacts, total, err := s.store.List(ctx, contact.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	return contacts, total, nil
}

// Delete removes a submission. Its history records stay behind and surface in
// the activity feed with an unknown name.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "Contact not found.")
		}
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// UpdateStatus runs a transition through the engine on behalf of an admin.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string, actorID *uuid.UUID) (*models.TransitionOutcome, error) {
	return s.engine.RequestTransition(ctx, domain.KindContact, id, status, actorID)
}
