package realtime

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"pathcrm/internal/platform/metrics"
	"pathcrm/internal/platform/middleware"
)

// The server mounts /ws behind the same middleware chain as every other
// route, so the upgrade must work through the wrapped response writer, not
// just against a bare handler.
func TestUpgradeThroughMiddlewareStack(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Latency(m))
	r.Handle("/ws", NewHandler(hub, []string{"*"}, log))

	server := httptest.NewServer(r)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Emit("new_demo", map[string]string{"full_name": "Alan Kay"}))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(raw), "new_demo")
}
