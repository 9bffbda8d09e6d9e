//go:build integration

package contact_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pathcrm/internal/crm/models"
	"pathcrm/internal/crm/store/contact"
	"pathcrm/pkg/domain"
	"pathcrm/pkg/platform/sentinel"
	"pathcrm/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *contact.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = contact.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "contacts")
	s.Require().NoError(err)
}

func newContact(email string) *models.Contact {
	return &models.Contact{
		FullName: "Ada Lovelace",
		Email:    email,
		Message:  "Looking for a consultation.",
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()

	c := newContact("ada@example.com")
	s.Require().NoError(s.store.Create(ctx, c))
	s.NotEqual(uuid.Nil, c.ID)
	s.Equal(domain.StatusPending, c.Status)
	s.False(c.CreatedAt.IsZero())

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.Email, found.Email)
	s.Equal(c.Message, found.Message)
	s.Empty(found.Phone)
	s.Empty(found.Company)
}

func (s *PostgresStoreSuite) TestFindMissingReturnsNotFound() {
	_, err := s.store.FindByID(context.Background(), uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateStatusIsUnconditional() {
	ctx := context.Background()

	c := newContact("ada@example.com")
	s.Require().NoError(s.store.Create(ctx, c))

	updated, err := s.store.UpdateStatus(ctx, c.ID, domain.StatusContacted)
	s.Require().NoError(err)
	s.Equal(domain.StatusContacted, updated.Status)

	// A second writer overwrites without any precondition on the current value.
	updated, err = s.store.UpdateStatus(ctx, c.ID, domain.StatusLost)
	s.Require().NoError(err)
	s.Equal(domain.StatusLost, updated.Status)
}

func (s *PostgresStoreSuite) TestListFiltersByStatusAndCounts() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		c := newContact(uuid.NewString() + "@example.com")
		s.Require().NoError(s.store.Create(ctx, c))
	}
	lead := newContact("lead@example.com")
	s.Require().NoError(s.store.Create(ctx, lead))
	_, err := s.store.UpdateStatus(ctx, lead.ID, domain.StatusLead)
	s.Require().NoError(err)

	all, total, err := s.store.List(ctx, contact.ListOptions{})
	s.Require().NoError(err)
	s.Equal(4, total)
	s.Len(all, 4)

	leads, total, err := s.store.List(ctx, contact.ListOptions{Status: domain.StatusLead})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(leads, 1)
	s.Equal(lead.ID, leads[0].ID)
}

func (s *PostgresStoreSuite) TestHasRecentByEmail() {
	ctx := context.Background()

	c := newContact("ada@example.com")
	s.Require().NoError(s.store.Create(ctx, c))

	recent, err := s.store.HasRecentByEmail(ctx, "ada@example.com", time.Minute)
	s.Require().NoError(err)
	s.True(recent)

	recent, err = s.store.HasRecentByEmail(ctx, "someone-else@example.com", time.Minute)
	s.Require().NoError(err)
	s.False(recent)
}

func (s *PostgresStoreSuite) TestDeleteByID() {
	ctx := context.Background()

	c := newContact("ada@example.com")
	s.Require().NoError(s.store.Create(ctx, c))

	s.Require().NoError(s.store.DeleteByID(ctx, c.ID))

	_, err := s.store.FindByID(ctx, c.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = s.store.DeleteByID(ctx, c.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
