// Package demo persists demo-booking submissions.
package demo

import (
	"time"

	"pathcrm/pkg/domain"
)

const (
	MaxListLimit     = 500
	DefaultListLimit = 100
)

// ListOptions narrows and pages a listing. Status empty means all statuses.
type ListOptions struct {
	Limit  int
	Offset int
	Status domain.Status
}

// Normalize clamps the options into their supported ranges.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// Clock is injected into stores for testability; defaults to time.Now.
type Clock func() time.Time
