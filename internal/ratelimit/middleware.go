package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	dErrors "pathcrm/pkg/domain-errors"
	"pathcrm/pkg/httputil"
)

// Budget is one named rate-limit policy.
type Budget struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Default budgets. Submissions are the abuse magnet; the authenticated API
// gets a broad ceiling.
var (
	BudgetAPI        = Budget{Name: "api", Limit: 100, Window: 15 * time.Minute}
	BudgetSubmission = Budget{Name: "submit", Limit: 5, Window: time.Minute}
	BudgetLogin      = Budget{Name: "login", Limit: 10, Window: 15 * time.Minute}
)

// Middleware enforces per-IP budgets in front of route groups.
type Middleware struct {
	store  Store
	logger *slog.Logger
}

func NewMiddleware(store Store, logger *slog.Logger) *Middleware {
	return &Middleware{store: store, logger: logger}
}

// Limit wraps a route group with the given budget. The limiter fails open: a
// broken store lets traffic through rather than taking the API down.
func (m *Middleware) Limit(budget Budget) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := budget.Name + ":" + clientIP(r)

			result, err := m.store.Allow(r.Context(), key, budget.Limit, budget.Window)
			if err != nil {
				if m.logger != nil {
					m.logger.WarnContext(r.Context(), "rate limit check failed, allowing request",
						"budget", budget.Name, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retryAfter := int(time.Until(result.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited,
					"Too many requests. Please try again later."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the socket
// address. The API sits behind a proxy in production.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
