// Package models holds the persisted CRM record types and the ephemeral
// shapes passed between the transition engine and its collaborators.
package models

import (
	"time"

	"github.com/google/uuid"

	"pathcrm/pkg/domain"
)

// Contact is a contact-form submission.
type Contact struct {
	ID        uuid.UUID     `json:"id"`
	FullName  string        `json:"full_name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Company   string        `json:"company,omitempty"`
	Message   string        `json:"message"`
	Status    domain.Status `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Demo is a demo-booking submission.
type Demo struct {
	ID        uuid.UUID     `json:"id"`
	FullName  string        `json:"full_name"`
	Email     string        `json:"email"`
	Company   string        `json:"company,omitempty"`
	DemoDate  time.Time     `json:"demo_date"`
	Service   string        `json:"service,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	Status    domain.Status `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Snapshot is the kind-agnostic view of an entity the transition engine and
// the notification dispatcher work with. Entity carries the full row and is
// what realtime observers receive.
type Snapshot struct {
	Kind     domain.EntityKind
	ID       uuid.UUID
	FullName string
	Email    string
	Status   domain.Status
	Entity   any
}

// SnapshotOfContact builds a Snapshot from a contact row.
func SnapshotOfContact(c *Contact) *Snapshot {
	return &Snapshot{
		Kind:     domain.KindContact,
		ID:       c.ID,
		FullName: c.FullName,
		Email:    c.Email,
		Status:   c.Status,
		Entity:   c,
	}
}

// SnapshotOfDemo builds a Snapshot from a demo row.
func SnapshotOfDemo(d *Demo) *Snapshot {
	return &Snapshot{
		Kind:     domain.KindDemo,
		ID:       d.ID,
		FullName: d.FullName,
		Email:    d.Email,
		Status:   d.Status,
		Entity:   d,
	}
}

// TransitionRecord is one immutable status-history entry. OldStatus is nil
// only for the creation event; UpdatedBy is nil for system-originated events.
// Records are never mutated or deleted.
type TransitionRecord struct {
	ID        uuid.UUID         `json:"id"`
	Kind      domain.EntityKind `json:"entity_type"`
	EntityID  uuid.UUID         `json:"entity_id"`
	OldStatus *domain.Status    `json:"old_status"`
	NewStatus domain.Status     `json:"new_status"`
	UpdatedBy *uuid.UUID        `json:"updated_by"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ActivityEntry is a TransitionRecord joined with the owning entity's display
// name for the activity feed. FullName is "Unknown" when the entity no longer
// resolves.
type ActivityEntry struct {
	TransitionRecord
	FullName string `json:"full_name"`
}

// TransitionOutcome is the result of an accepted status transition, carrying
// enough entity context for downstream notification decisions. It is never
// persisted.
type TransitionOutcome struct {
	Kind      domain.EntityKind
	EntityID  uuid.UUID
	OldStatus domain.Status
	NewStatus domain.Status
	UpdatedBy *uuid.UUID
	Snapshot  *Snapshot
}

// WantsThankYou reports whether this transition triggers the client-facing
// thank-you email: exactly Pending→Contacted with a deliverable address.
func (o *TransitionOutcome) WantsThankYou() bool {
	return o.OldStatus == domain.StatusPending &&
		o.NewStatus == domain.StatusContacted &&
		o.Snapshot != nil && o.Snapshot.Email != ""
}
