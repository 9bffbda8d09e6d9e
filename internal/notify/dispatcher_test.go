package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pathcrm/internal/crm/models"
	"pathcrm/internal/mail"
	"pathcrm/pkg/domain"
)

type recordedEvent struct {
	event   string
	payload any
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (b *fakeBroadcaster) Emit(event string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, recordedEvent{event: event, payload: payload})
	return nil
}

type fakeSender struct {
	mu       sync.Mutex
	messages []mail.Message
	err      error
}

func (s *fakeSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeSender) sent() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.messages...)
}

type DispatcherSuite struct {
	suite.Suite
	broadcaster *fakeBroadcaster
	sender      *fakeSender
	dispatcher  *Dispatcher
	ctx         context.Context
}

func (s *DispatcherSuite) SetupTest() {
	s.broadcaster = &fakeBroadcaster{}
	s.sender = &fakeSender{}
	s.dispatcher = NewDispatcher(s.broadcaster,
		WithMail(s.sender, "ops@example.com"),
		WithAwaitSend(true),
	)
	s.ctx = context.Background()
}

func (s *DispatcherSuite) SetupSubTest() {
	s.SetupTest()
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func contactSnapshot() *models.Snapshot {
	return models.SnapshotOfContact(&models.Contact{
		ID:       uuid.New(),
		FullName: "Grace Hopper",
		Email:    "grace@example.com",
		Message:  "Hello",
		Status:   domain.StatusPending,
	})
}

func outcome(from, to domain.Status, snap *models.Snapshot) *models.TransitionOutcome {
	return &models.TransitionOutcome{
		Kind:      snap.Kind,
		EntityID:  snap.ID,
		OldStatus: from,
		NewStatus: to,
		Snapshot:  snap,
	}
}

// TestEntityCreated covers the creation fan-out: dashboard event plus ops
// notification.
func (s *DispatcherSuite) TestEntityCreated() {
	s.Run("contact creation", func() {
		s.dispatcher.EntityCreated(s.ctx, contactSnapshot())

		s.Require().Len(s.broadcaster.events, 1)
		s.Equal(EventNewContact, s.broadcaster.events[0].event)

		msgs := s.sender.sent()
		s.Require().Len(msgs, 1)
		s.Equal("ops@example.com", msgs[0].To)
		s.Contains(msgs[0].Subject, "New contact: Grace Hopper")
	})

	s.Run("demo creation", func() {
		snap := models.SnapshotOfDemo(&models.Demo{
			ID:       uuid.New(),
			FullName: "Alan Kay",
			Email:    "alan@example.com",
			DemoDate: time.Now().Add(48 * time.Hour),
			Status:   domain.StatusPending,
		})
		s.dispatcher.EntityCreated(s.ctx, snap)

		last := s.broadcaster.events[len(s.broadcaster.events)-1]
		s.Equal(EventNewDemo, last.event)
		s.Contains(s.sender.sent()[len(s.sender.sent())-1].Subject, "Booked a demo")
	})
}

// TestStatusChanged covers the transition fan-out and the thank-you rule.
func (s *DispatcherSuite) TestStatusChanged() {
	s.Run("pending to contacted sends thank-you", func() {
		snap := contactSnapshot()
		snap.Status = domain.StatusContacted
		s.dispatcher.StatusChanged(s.ctx, outcome(domain.StatusPending, domain.StatusContacted, snap))

		s.Require().Len(s.broadcaster.events, 1)
		s.Equal(EventContactStatusUpdated, s.broadcaster.events[0].event)

		msgs := s.sender.sent()
		s.Require().Len(msgs, 1)
		s.Equal("grace@example.com", msgs[0].To)
		s.Equal("Thank you for contacting us", msgs[0].Subject)
	})

	s.Run("other transitions send nothing", func() {
		snap := contactSnapshot()
		s.dispatcher.StatusChanged(s.ctx, outcome(domain.StatusContacted, domain.StatusQualified, snap))
		s.dispatcher.StatusChanged(s.ctx, outcome(domain.StatusProcessing, domain.StatusContacted, snap))
		s.Empty(s.sender.sent())
	})

	s.Run("empty email suppresses thank-you", func() {
		snap := contactSnapshot()
		snap.Email = ""
		s.dispatcher.StatusChanged(s.ctx, outcome(domain.StatusPending, domain.StatusContacted, snap))
		s.Empty(s.sender.sent())
	})

	s.Run("demo transitions use the demo event", func() {
		snap := models.SnapshotOfDemo(&models.Demo{
			ID:       uuid.New(),
			FullName: "Alan Kay",
			Email:    "alan@example.com",
			Status:   domain.StatusScheduled,
		})
		s.dispatcher.StatusChanged(s.ctx, outcome(domain.StatusPending, domain.StatusScheduled, snap))

		last := s.broadcaster.events[len(s.broadcaster.events)-1]
		s.Equal(EventDemoStatusUpdated, last.event)
	})
}

// TestFailuresAreAbsorbed verifies broken observers never bubble up.
func (s *DispatcherSuite) TestFailuresAreAbsorbed() {
	s.Run("broadcast failure", func() {
		s.broadcaster.err = errors.New("hub down")
		s.NotPanics(func() {
			s.dispatcher.EntityCreated(s.ctx, contactSnapshot())
		})
	})

	s.Run("mail failure", func() {
		s.sender.err = errors.New("smtp down")
		snap := contactSnapshot()
		snap.Status = domain.StatusContacted
		s.NotPanics(func() {
			s.dispatcher.StatusChanged(s.ctx, outcome(domain.StatusPending, domain.StatusContacted, snap))
		})
	})

	s.Run("no sender configured", func() {
		bare := NewDispatcher(s.broadcaster)
		s.broadcaster.err = nil
		snap := contactSnapshot()
		snap.Status = domain.StatusContacted
		s.NotPanics(func() {
			bare.EntityCreated(s.ctx, snap)
			bare.StatusChanged(s.ctx, outcome(domain.StatusPending, domain.StatusContacted, snap))
		})
	})
}
