// Package views serves the merged cross-kind listings: leads and lost. These
// are reads over the contact and demo tables filtered by status; nothing is
// moved or deleted when a record becomes a lead.
package views

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pathcrm/internal/crm/models"
	"pathcrm/internal/crm/store/contact"
	"pathcrm/internal/crm/store/demo"
	"pathcrm/pkg/domain"
)

type ContactLister interface {
	List(ctx context.Context, opts contact.ListOptions) ([]*models.Contact, int, error)
}

type DemoLister interface {
	List(ctx context.Context, opts demo.ListOptions) ([]*models.Demo, int, error)
}

// Entry is one row of a merged listing: the union of contact and demo fields,
// tagged with the owning kind.
type Entry struct {
	ID         uuid.UUID         `json:"id"`
	EntityType domain.EntityKind `json:"entity_type"`
	FullName   string            `json:"full_name"`
	Email      string            `json:"email"`
	Company    string            `json:"company,omitempty"`
	Status     domain.Status     `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`

	Phone   string `json:"phone,omitempty"`
	Message string `json:"message,omitempty"`

	DemoDate *time.Time `json:"demo_date,omitempty"`
	Service  string     `json:"service,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// Result is one merged page plus per-kind totals.
type Result struct {
	Entries       []Entry
	Total         int
	ContactsTotal int
	DemosTotal    int
}

// Service reads merged status-filtered listings.
type Service struct {
	contacts ContactLister
	demos    DemoLister
}

func New(contacts ContactLister, demos DemoLister) *Service {
	return &Service{contacts: contacts, demos: demos}
}

// ByStatus returns one page of contacts and demos in the given status, merged
// and ordered newest-first. Both kinds are fetched concurrently; pagination
// applies to the merged sequence, so each kind is read up to its list cap.
func (s *Service) ByStatus(ctx context.Context, status domain.Status, limit, offset int) (*Result, error) {
	if limit <= 0 {
		limit = contact.DefaultListLimit
	}
	if limit > contact.MaxListLimit {
		limit = contact.MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var (
		contacts      []*models.Contact
		demos         []*models.Demo
		contactsTotal int
		demosTotal    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contacts, contactsTotal, err = s.contacts.List(gctx, contact.ListOptions{
			Limit:  contact.MaxListLimit,
			Status: status,
		})
		return err
	})
	g.Go(func() error {
		var err error
		demos, demosTotal, err = s.demos.List(gctx, demo.ListOptions{
			Limit:  demo.MaxListLimit,
			Status: status,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list %s entities: %w", status, err)
	}

	merged := make([]Entry, 0, len(contacts)+len(demos))
	for _, c := range contacts {
		merged = append(merged, contactEntry(c))
	}
	for _, d := range demos {
		merged = append(merged, demoEntry(d))
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	total := len(merged)
	if offset >= total {
		merged = []Entry{}
	} else {
		end := offset + limit
		if end > total {
			end = total
		}
		merged = merged[offset:end]
	}

	return &Result{
		Entries:       merged,
		Total:         total,
		ContactsTotal: contactsTotal,
		DemosTotal:    demosTotal,
	}, nil
}

func contactEntry(c *models.Contact) Entry {
	return Entry{
		ID:         c.ID,
		EntityType: domain.KindContact,
		FullName:   c.FullName,
		Email:      c.Email,
		Company:    c.Company,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt,
		Phone:      c.Phone,
		Message:    c.Message,
	}
}

func demoEntry(d *models.Demo) Entry {
	date := d.DemoDate
	return Entry{
		ID:         d.ID,
		EntityType: domain.KindDemo,
		FullName:   d.FullName,
		Email:      d.Email,
		Company:    d.Company,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		DemoDate:   &date,
		Service:    d.Service,
		Notes:      d.Notes,
	}
}
