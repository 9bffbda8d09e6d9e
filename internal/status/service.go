// Package status is the transition engine: the single write path for entity
// status changes. Every change it accepts lands in the current-state store,
// the audit trail, and the notification fan-out, in that order.
package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"pathcrm/internal/crm/models"
	"pathcrm/internal/platform/metrics"
	"pathcrm/pkg/domain"
	dErrors "pathcrm/pkg/domain-errors"
	"pathcrm/pkg/platform/sentinel"
)

type EntityStore interface {
	FindByID(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (*models.Snapshot, error)
	UpdateStatus(ctx context.Context, kind domain.EntityKind, id uuid.UUID, status domain.Status) (*models.Snapshot, error)
}

type HistoryStore interface {
	Append(ctx context.Context, rec *models.TransitionRecord) error
}

// Notifier fans a committed change out to observers. Implementations absorb
// their own failures; these calls never error.
type Notifier interface {
	EntityCreated(ctx context.Context, snap *models.Snapshot)
	StatusChanged(ctx context.Context, outcome *models.TransitionOutcome)
}

// Service orchestrates status transitions across entity kinds.
type Service struct {
	entities EntityStore
	history  HistoryStore
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(entities EntityStore, history HistoryStore, opts ...Option) *Service {
	s := &Service{entities: entities, history: history}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordCreation writes the birth record for a freshly stored entity
// (old status null, no actor) and announces it to observers. Audit failure
// is logged but never blocks the submission.
func (s *Service) RecordCreation(ctx context.Context, snap *models.Snapshot) {
	rec := &models.TransitionRecord{
		Kind:      snap.Kind,
		EntityID:  snap.ID,
		NewStatus: snap.Status,
	}
	if err := s.history.Append(ctx, rec); err != nil {
		s.logAuditFailure(ctx, snap.Kind, snap.ID, err)
	}
	if s.notifier != nil {
		s.notifier.EntityCreated(ctx, snap)
	}
}

// RequestTransition validates and applies a status change. Validation happens
// before any write, so a rejected request leaves no trace. The store update is
// unconditional and keyed by id only; concurrent requests for the same entity
// race last-write-wins, each producing its own audit record.
func (s *Service) RequestTransition(ctx context.Context, kind domain.EntityKind, id uuid.UUID, requested string, actorID *uuid.UUID) (*models.TransitionOutcome, error) {
	before, err := s.entities.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("%s not found", kind))
		}
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}

	newStatus, err := domain.ParseStatus(kind, requested)
	if err != nil {
		return nil, err
	}

	after, err := s.entities.UpdateStatus(ctx, kind, id, newStatus)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("%s not found", kind))
		}
		return nil, fmt.Errorf("update %s status: %w", kind, err)
	}

	oldStatus := before.Status
	rec := &models.TransitionRecord{
		Kind:      kind,
		EntityID:  id,
		OldStatus: &oldStatus,
		NewStatus: newStatus,
		UpdatedBy: actorID,
	}
	if err := s.history.Append(ctx, rec); err != nil {
		s.logAuditFailure(ctx, kind, id, err)
	}

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(kind), string(newStatus)).Inc()
	}

	outcome := &models.TransitionOutcome{
		Kind:      kind,
		EntityID:  id,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		UpdatedBy: actorID,
		Snapshot:  after,
	}
	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, outcome)
	}
	return outcome, nil
}

func (s *Service) logAuditFailure(ctx context.Context, kind domain.EntityKind, id uuid.UUID, err error) {
	if s.metrics != nil {
		s.metrics.AuditWriteFailures.Inc()
	}
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "status history write failed",
			slog.String("entity_type", string(kind)),
			slog.String("entity_id", id.String()),
			slog.Any("error", err),
		)
	}
}
