package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pathcrm/internal/crm/models"
	"pathcrm/internal/crm/store"
	contactstore "pathcrm/internal/crm/store/contact"
	demostore "pathcrm/internal/crm/store/demo"
	"pathcrm/internal/crm/store/history"
	"pathcrm/internal/status"
	"pathcrm/pkg/domain"
)

type ContactHandlerSuite struct {
	suite.Suite
	contacts *contactstore.InMemoryStore
	history  *history.InMemoryStore
	router   chi.Router
	ctx      context.Context
	now      time.Time
}

func (s *ContactHandlerSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.contacts = contactstore.NewInMemoryStore(
		contactstore.WithClock(func() time.Time { return s.now }),
	)
	s.history = history.NewInMemoryStore()
	entities := store.NewEntities(s.contacts, demostore.NewInMemoryStore())
	engine := status.New(entities, s.history)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(New(s.contacts, engine), logger)

	s.router = chi.NewRouter()
	s.router.Route("/api", func(r chi.Router) {
		handler.RegisterPublic(r)
		handler.RegisterAdmin(r)
	})
	s.ctx = context.Background()
}

func (s *ContactHandlerSuite) SetupSubTest() {
	s.SetupTest()
}

func TestContactHandlerSuite(t *testing.T) {
	suite.Run(t, new(ContactHandlerSuite))
}

func (s *ContactHandlerSuite) do(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validSubmission() map[string]any {
	return map[string]any{
		"full_name": "Grace Hopper",
		"email":     "Grace@Example.com",
		"message":   "I would like to learn more about your platform.",
	}
}

// TestSubmit covers the public form endpoint.
func (s *ContactHandlerSuite) TestSubmit() {
	s.Run("accepts a valid submission", func() {
		rec := s.do(http.MethodPost, "/api/contact", validSubmission())
		s.Require().Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), "Your message has been received")

		contacts, total, err := s.contacts.List(s.ctx, contactstore.ListOptions{})
		s.Require().NoError(err)
		s.Equal(1, total)
		s.Equal("grace@example.com", contacts[0].Email)
		s.Equal(domain.StatusPending, contacts[0].Status)

		// Creation lands in the audit trail with a null old status.
		entries, _, err := s.history.ListRecent(s.ctx, history.FeedOptions{})
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.Nil(entries[0].OldStatus)
	})

	s.Run("rejects missing fields with field errors", func() {
		rec := s.do(http.MethodPost, "/api/contact", map[string]any{"email": "x@example.com"})
		s.Require().Equal(http.StatusBadRequest, rec.Code)

		var resp struct {
			Success bool `json:"success"`
			Errors  []struct {
				Field string `json:"field"`
			} `json:"errors"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.False(resp.Success)
		fields := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			fields = append(fields, e.Field)
		}
		s.Contains(fields, "full_name")
		s.Contains(fields, "message")
	})

	s.Run("rejects malformed email", func() {
		body := validSubmission()
		body["email"] = "not-an-email"
		rec := s.do(http.MethodPost, "/api/contact", body)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("rejects short message", func() {
		body := validSubmission()
		body["message"] = "hi"
		rec := s.do(http.MethodPost, "/api/contact", body)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("rate limits repeat submissions inside the window", func() {
		s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/contact", validSubmission()).Code)
		rec := s.do(http.MethodPost, "/api/contact", validSubmission())
		s.Require().Equal(http.StatusTooManyRequests, rec.Code)
		s.Contains(rec.Body.String(), "Please wait a moment")
	})

	s.Run("allows resubmission after the window", func() {
		s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/contact", validSubmission()).Code)
		s.now = s.now.Add(DuplicateWindow + time.Second)
		s.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/contact", validSubmission()).Code)
	})
}

// TestList covers the admin listing endpoint.
func (s *ContactHandlerSuite) TestList() {
	for i := 0; i < 3; i++ {
		c := &models.Contact{FullName: "C", Email: "c@example.com", Message: "hello there friend"}
		c.CreatedAt = s.now.Add(-time.Duration(i) * time.Hour)
		s.Require().NoError(s.contacts.Create(s.ctx, c))
	}

	rec := s.do(http.MethodGet, "/api/contact?limit=2", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data  []models.Contact `json:"data"`
		Count int              `json:"count"`
		Total int              `json:"total"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Data, 2)
	s.Equal(2, resp.Count)
	s.Equal(3, resp.Total)
	s.True(resp.Data[0].CreatedAt.After(resp.Data[1].CreatedAt))
}

// TestDelete covers the admin delete endpoint.
func (s *ContactHandlerSuite) TestDelete() {
	s.Run("deletes an existing contact", func() {
		c := &models.Contact{FullName: "C", Email: "c@example.com", Message: "hello there friend"}
		s.Require().NoError(s.contacts.Create(s.ctx, c))

		rec := s.do(http.MethodDelete, "/api/contact/"+c.ID.String(), nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("unknown id is not found", func() {
		rec := s.do(http.MethodDelete, "/api/contact/"+uuid.NewString(), nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("malformed id is not found", func() {
		rec := s.do(http.MethodDelete, "/api/contact/not-a-uuid", nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

// TestUpdateStatus covers the admin transition endpoint.
func (s *ContactHandlerSuite) TestUpdateStatus() {
	seed := func() *models.Contact {
		c := &models.Contact{FullName: "C", Email: "c@example.com", Message: "hello there friend"}
		s.Require().NoError(s.contacts.Create(s.ctx, c))
		return c
	}

	s.Run("applies a valid transition", func() {
		c := seed()
		rec := s.do(http.MethodPatch, "/api/contact/"+c.ID.String()+"/status", map[string]string{"status": "Contacted"})
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp struct {
			Success bool           `json:"success"`
			Data    models.Contact `json:"data"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.True(resp.Success)
		s.Equal(domain.StatusContacted, resp.Data.Status)
	})

	s.Run("rejects a status outside the contact vocabulary", func() {
		c := seed()
		rec := s.do(http.MethodPatch, "/api/contact/"+c.ID.String()+"/status", map[string]string{"status": "Scheduled"})
		s.Require().Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "invalid_status")
	})

	s.Run("unknown id is not found", func() {
		rec := s.do(http.MethodPatch, "/api/contact/"+uuid.NewString()+"/status", map[string]string{"status": "Contacted"})
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
