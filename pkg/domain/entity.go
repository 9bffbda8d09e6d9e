// Package domain holds the closed vocabularies shared across the CRM:
// entity kinds and their status sets. Construct values via the Parse
// functions at trust boundaries; direct casting bypasses validation.
package domain

import dErrors "pathcrm/pkg/domain-errors"

// EntityKind identifies which submission table a record lives in.
type EntityKind string

const (
	KindContact EntityKind = "contact"
	KindDemo    EntityKind = "demo"
)

// ParseEntityKind constructs an EntityKind from external input.
func ParseEntityKind(s string) (EntityKind, error) {
	switch EntityKind(s) {
	case KindContact, KindDemo:
		return EntityKind(s), nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown entity type: "+s)
	}
}

func (k EntityKind) String() string { return string(k) }

// Status is a lifecycle state drawn from the owning kind's vocabulary.
type Status string

// Shared across both kinds.
const (
	StatusPending Status = "Pending"
	StatusLead    Status = "Lead"
	StatusLost    Status = "Lost"
)

// Contact-only statuses.
const (
	StatusProcessing Status = "Processing"
	StatusContacted  Status = "Contacted"
	StatusQualified  Status = "Qualified"
)

// Demo-only statuses.
const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// contactStatuses and demoStatuses are the single source of truth for the
// per-kind vocabularies. Adding a status means touching these maps and the
// constants above, nothing else.
var (
	contactStatuses = map[Status]bool{
		StatusPending:    true,
		StatusProcessing: true,
		StatusContacted:  true,
		StatusQualified:  true,
		StatusLead:       true,
		StatusLost:       true,
	}
	demoStatuses = map[Status]bool{
		StatusPending:   true,
		StatusScheduled: true,
		StatusCompleted: true,
		StatusCancelled: true,
		StatusLead:      true,
		StatusLost:      true,
	}
)

// ParseStatus validates s against the vocabulary of the given kind.
//
// Errors: CodeInvalidStatus when the value is empty or outside the kind's
// vocabulary. Callers rely on this running before any mutation, so a failed
// parse is always a pure no-op.
func ParseStatus(kind EntityKind, s string) (Status, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidStatus, "status cannot be empty")
	}
	st := Status(s)
	if !st.ValidFor(kind) {
		return "", dErrors.New(dErrors.CodeInvalidStatus, "invalid status for "+string(kind)+": "+s)
	}
	return st, nil
}

// ValidFor reports whether the status belongs to the kind's vocabulary.
func (s Status) ValidFor(kind EntityKind) bool {
	switch kind {
	case KindContact:
		return contactStatuses[s]
	case KindDemo:
		return demoStatuses[s]
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }
