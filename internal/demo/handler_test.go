package demo

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

type DemoHandlerSuite struct {
	suite.Suite
	demos   *demostore.InMemoryStore
	history *history.InMemoryStore
	router  chi.Router
	ctx     context.Context
}

func (s *DemoHandlerSuite) SetupTest() {
	s.demos = demostore.NewInMemoryStore()
	s.history = history.NewInMemoryStore()
	entities := store.NewEntities(contactstore.NewInMemoryStore(), s.demos)
	engine := status.New(entities, s.history)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(New(s.demos, engine), logger)

	s.router = chi.NewRouter()
	s.router.Route("/api", func(r chi.Router) {
		handler.RegisterPublic(r)
		handler.RegisterAdmin(r)
	})
	s.ctx = context.Background()
}

func TestDemoHandlerSuite(t *testing.T) {
	suite.Run(t, new(DemoHandlerSuite))
}

func (s *DemoHandlerSuite) do(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validBooking() map[string]any {
	return map[string]any{
		"full_name": "Alan Kay",
		"email":     "alan@example.com",
		"demo_date": "2025-07-04T15:00:00Z",
		"service":   "Platform walkthrough",
	}
}

// TestSubmit covers the public booking endpoint.
func (s *DemoHandlerSuite) TestSubmit() {
	s.Run("accepts a valid booking", func() {
		rec := s.do(http.MethodPost, "/api/demo", validBooking())
		s.Require().Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), "Demo requested successfully")

		demos, total, err := s.demos.List(s.ctx, demostore.ListOptions{})
		s.Require().NoError(err)
		s.Equal(1, total)
		s.Equal(domain.StatusPending, demos[0].Status)
		s.Equal(time.Date(2025, 7, 4, 15, 0, 0, 0, time.UTC), demos[0].DemoDate)
	})

	s.Run("accepts a date-only slot", func() {
		body := validBooking()
		body["email"] = "dateonly@example.com"
		body["demo_date"] = "2025-08-01"
		rec := s.do(http.MethodPost, "/api/demo", body)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("rejects a missing demo date", func() {
		body := validBooking()
		delete(body, "demo_date")
		rec := s.do(http.MethodPost, "/api/demo", body)
		s.Require().Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "demo_date")
	})

	s.Run("rejects an unparseable demo date", func() {
		body := validBooking()
		body["demo_date"] = "next tuesday"
		rec := s.do(http.MethodPost, "/api/demo", body)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("rate limits repeat bookings inside the window", func() {
		booking := validBooking()
		booking["email"] = "repeat@example.com"
		s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/demo", booking).Code)
		s.Equal(http.StatusTooManyRequests, s.do(http.MethodPost, "/api/demo", booking).Code)
	})
}

// TestList covers the admin listing endpoint.
func (s *DemoHandlerSuite) TestList() {
	for i := 0; i < 3; i++ {
		d := &models.Demo{FullName: "D", Email: "d@example.com", DemoDate: time.Now()}
		s.Require().NoError(s.demos.Create(s.ctx, d))
	}

	rec := s.do(http.MethodGet, "/api/demo?limit=2&offset=1", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Count int `json:"count"`
		Total int `json:"total"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(2, resp.Count)
	s.Equal(3, resp.Total)
}

// TestDelete covers the admin delete endpoint.
func (s *DemoHandlerSuite) TestDelete() {
	d := &models.Demo{FullName: "D", Email: "d@example.com", DemoDate: time.Now()}
	s.Require().NoError(s.demos.Create(s.ctx, d))

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/demo/"+d.ID.String(), nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/demo/"+uuid.NewString(), nil).Code)
}

// TestUpdateStatus covers the admin transition endpoint.
func (s *DemoHandlerSuite) TestUpdateStatus() {
	d := &models.Demo{FullName: "D", Email: "d@example.com", DemoDate: time.Now()}
	s.Require().NoError(s.demos.Create(s.ctx, d))

	s.Run("applies a demo-vocabulary status", func() {
		rec := s.do(http.MethodPatch, "/api/demo/"+d.ID.String()+"/status", map[string]string{"status": "Scheduled"})
		s.Require().Equal(http.StatusOK, rec.Code)

		stored, err := s.demos.FindByID(s.ctx, d.ID)
		s.Require().NoError(err)
		s.Equal(domain.StatusScheduled, stored.Status)
	})

	s.Run("rejects a contact-only status", func() {
		rec := s.do(http.MethodPatch, "/api/demo/"+d.ID.String()+"/status", map[string]string{"status": "Qualified"})
		s.Require().Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "invalid_status")
	})
}
