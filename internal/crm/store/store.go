// Package store adapts the per-kind contact and demo stores into the single
// kind-dispatching view the transition engine and activity feed work with.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pathcrm/internal/crm/models"
	"pathcrm/pkg/domain"
)

// ContactStore is the subset of the contact store the adapter needs.
type ContactStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*models.Contact, error)
}

// DemoStore is the subset of the demo store the adapter needs.
type DemoStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Demo, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*models.Demo, error)
}

// Entities routes kind-agnostic reads and status writes to the store owning
// that kind.
type Entities struct {
	contacts ContactStore
	demos    DemoStore
}

func NewEntities(contacts ContactStore, demos DemoStore) *Entities {
	return &Entities{contacts: contacts, demos: demos}
}

func (e *Entities) FindByID(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (*models.Snapshot, error) {
	switch kind {
	case domain.KindContact:
		c, err := e.contacts.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return models.SnapshotOfContact(c), nil
	case domain.KindDemo:
		d, err := e.demos.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return models.SnapshotOfDemo(d), nil
	default:
		return nil, fmt.Errorf("unsupported entity kind %q", kind)
	}
}

func (e *Entities) UpdateStatus(ctx context.Context, kind domain.EntityKind, id uuid.UUID, status domain.Status) (*models.Snapshot, error) {
	switch kind {
	case domain.KindContact:
		c, err := e.contacts.UpdateStatus(ctx, id, status)
		if err != nil {
			return nil, err
		}
		return models.SnapshotOfContact(c), nil
	case domain.KindDemo:
		d, err := e.demos.UpdateStatus(ctx, id, status)
		if err != nil {
			return nil, err
		}
		return models.SnapshotOfDemo(d), nil
	default:
		return nil, fmt.Errorf("unsupported entity kind %q", kind)
	}
}

// ResolveName implements the history store's display-name lookup.
func (e *Entities) ResolveName(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	snap, err := e.FindByID(ctx, kind, id)
	if err != nil {
		return "", false
	}
	return snap.FullName, true
}
