package views

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pathcrm/internal/crm/models"
	contactstore "pathcrm/internal/crm/store/contact"
	demostore "pathcrm/internal/crm/store/demo"
	"pathcrm/pkg/domain"
)

type ViewsSuite struct {
	suite.Suite
	contacts *contactstore.InMemoryStore
	demos    *demostore.InMemoryStore
	service  *Service
	ctx      context.Context
	now      time.Time
}

func (s *ViewsSuite) SetupTest() {
	s.contacts = contactstore.NewInMemoryStore()
	s.demos = demostore.NewInMemoryStore()
	s.service = New(s.contacts, s.demos)
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestViewsSuite(t *testing.T) {
	suite.Run(t, new(ViewsSuite))
}

func (s *ViewsSuite) seedContact(status domain.Status, at time.Time) *models.Contact {
	c := &models.Contact{
		FullName:  "Contact " + string(status),
		Email:     "c@example.com",
		Message:   "hello there friend",
		Status:    status,
		CreatedAt: at,
	}
	s.Require().NoError(s.contacts.Create(s.ctx, c))
	return c
}

func (s *ViewsSuite) seedDemo(status domain.Status, at time.Time) *models.Demo {
	d := &models.Demo{
		FullName:  "Demo " + string(status),
		Email:     "d@example.com",
		DemoDate:  at.Add(72 * time.Hour),
		Status:    status,
		CreatedAt: at,
	}
	s.Require().NoError(s.demos.Create(s.ctx, d))
	return d
}

// TestByStatusMergesKinds verifies both kinds appear, tagged and ordered.
func (s *ViewsSuite) TestByStatusMergesKinds() {
	older := s.seedContact(domain.StatusLead, s.now.Add(-2*time.Hour))
	newer := s.seedDemo(domain.StatusLead, s.now)
	s.seedContact(domain.StatusPending, s.now.Add(-time.Hour))
	s.seedDemo(domain.StatusLost, s.now.Add(-time.Hour))

	result, err := s.service.ByStatus(s.ctx, domain.StatusLead, 0, 0)
	s.Require().NoError(err)

	s.Require().Len(result.Entries, 2)
	s.Equal(newer.ID, result.Entries[0].ID)
	s.Equal(domain.KindDemo, result.Entries[0].EntityType)
	s.Equal(older.ID, result.Entries[1].ID)
	s.Equal(domain.KindContact, result.Entries[1].EntityType)

	s.Equal(2, result.Total)
	s.Equal(1, result.ContactsTotal)
	s.Equal(1, result.DemosTotal)
}

// TestByStatusLost verifies the lost view uses the same machinery.
func (s *ViewsSuite) TestByStatusLost() {
	s.seedContact(domain.StatusLost, s.now)
	s.seedDemo(domain.StatusLead, s.now)

	result, err := s.service.ByStatus(s.ctx, domain.StatusLost, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(result.Entries, 1)
	s.Equal(domain.KindContact, result.Entries[0].EntityType)
}

// TestPagination verifies paging applies to the merged sequence.
func (s *ViewsSuite) TestPagination() {
	for i := 0; i < 3; i++ {
		s.seedContact(domain.StatusLead, s.now.Add(-time.Duration(i)*time.Minute))
		s.seedDemo(domain.StatusLead, s.now.Add(-time.Duration(i)*time.Minute-30*time.Second))
	}

	result, err := s.service.ByStatus(s.ctx, domain.StatusLead, 4, 4)
	s.Require().NoError(err)
	s.Len(result.Entries, 2)
	s.Equal(6, result.Total)

	past, err := s.service.ByStatus(s.ctx, domain.StatusLead, 10, 100)
	s.Require().NoError(err)
	s.Empty(past.Entries)
	s.Equal(6, past.Total)
}

// TestEntryFields verifies kind-specific fields survive the merge.
func (s *ViewsSuite) TestEntryFields() {
	s.seedContact(domain.StatusLead, s.now)
	d := s.seedDemo(domain.StatusLead, s.now.Add(-time.Minute))

	result, err := s.service.ByStatus(s.ctx, domain.StatusLead, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(result.Entries, 2)

	s.Equal("hello there friend", result.Entries[0].Message)
	s.Nil(result.Entries[0].DemoDate)

	s.Require().NotNil(result.Entries[1].DemoDate)
	s.Equal(d.DemoDate, *result.Entries[1].DemoDate)
	s.Empty(result.Entries[1].Message)
}
