// main wires the stores, the transition engine, and the HTTP surface, and
// keeps the server lifecycle small. Business logic lives in the internal
// service packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pathcrm/internal/activity"
	"pathcrm/internal/admin"
	contactsvc "pathcrm/internal/contact"
	"pathcrm/internal/crm/store"
	contactstore "pathcrm/internal/crm/store/contact"
	demostore "pathcrm/internal/crm/store/demo"
	"pathcrm/internal/crm/store/history"
	demosvc "pathcrm/internal/demo"
	"pathcrm/internal/jwttoken"
	"pathcrm/internal/mail"
	"pathcrm/internal/notify"
	"pathcrm/internal/platform/config"
	"pathcrm/internal/platform/httpserver"
	"pathcrm/internal/platform/logger"
	"pathcrm/internal/platform/metrics"
	"pathcrm/internal/platform/middleware"
	"pathcrm/internal/platform/postgres"
	"pathcrm/internal/platform/redis"
	"pathcrm/internal/ratelimit"
	"pathcrm/internal/realtime"
	"pathcrm/internal/status"
	"pathcrm/internal/views"
	"pathcrm/pkg/httputil"
)

type contactStore interface {
	contactsvc.Store
	store.ContactStore
}

type demoStore interface {
	demosvc.Store
	store.DemoStore
}

type historyStore interface {
	status.HistoryStore
	activity.FeedStore
}

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New(cfg.Env)
	m := metrics.New()
	ctx := context.Background()

	var db *sql.DB
	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores; data will not survive a restart")
	}

	var (
		contacts contactStore
		demos    demoStore
		admins   admin.Store
	)
	if db != nil {
		contacts = contactstore.NewPostgres(db)
		demos = demostore.NewPostgres(db)
		admins = admin.NewPostgres(db)
	} else {
		contacts = contactstore.NewInMemoryStore()
		demos = demostore.NewInMemoryStore()
		admins = admin.NewInMemoryStore()
	}
	entities := store.NewEntities(contacts, demos)

	var hist historyStore
	if db != nil {
		hist = history.NewPostgres(db)
	} else {
		hist = history.NewInMemoryStore(history.WithResolver(entities))
	}

	redisClient, err := redis.New(ctx, cfg.Redis.URL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	hub := realtime.NewHub(realtime.WithLogger(log), realtime.WithMetrics(m))
	defer hub.Close()

	dispatcherOpts := []notify.Option{
		notify.WithLogger(log),
		notify.WithMetrics(m),
		notify.WithAwaitSend(cfg.Mail.AwaitSend),
	}
	if cfg.Mail.Configured() {
		dispatcherOpts = append(dispatcherOpts, notify.WithMail(mail.NewSMTPSender(cfg.Mail), cfg.Mail.OpsTo))
	} else {
		log.Warn("mail not configured (MAIL_USER/MAIL_PASS missing), emails will be skipped")
	}
	dispatcher := notify.NewDispatcher(hub, dispatcherOpts...)

	engine := status.New(entities, hist,
		status.WithLogger(log),
		status.WithNotifier(dispatcher),
		status.WithMetrics(m),
	)

	jwtService := jwttoken.NewService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)

	var limiter ratelimit.Store
	if redisClient != nil {
		limiter = ratelimit.NewRedisStore(redisClient.Client)
	} else {
		limiter = ratelimit.NewInMemoryStore()
	}
	rl := ratelimit.NewMiddleware(limiter, log)

	contactHandler := contactsvc.NewHandler(
		contactsvc.New(contacts, engine, contactsvc.WithLogger(log), contactsvc.WithMetrics(m)), log)
	demoHandler := demosvc.NewHandler(
		demosvc.New(demos, engine, demosvc.WithLogger(log), demosvc.WithMetrics(m)), log)
	adminHandler := admin.NewHandler(
		admin.New(admins, jwtService, admin.WithLogger(log)), log)
	activityHandler := activity.NewHandler(activity.New(hist), log)
	viewsHandler := views.NewHandler(views.New(contacts, demos), log)
	wsHandler := realtime.NewHandler(hub, cfg.CORS.AllowedOrigins, log)

	router := newRouter(cfg, log, m, rl, jwtService, db, redisClient, hub,
		contactHandler, demoHandler, adminHandler, activityHandler, viewsHandler, wsHandler)

	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

func newRouter(
	cfg config.Config,
	log *slog.Logger,
	m *metrics.Metrics,
	rl *ratelimit.Middleware,
	jwtService *jwttoken.Service,
	db *sql.DB,
	redisClient *redis.Client,
	hub *realtime.Hub,
	contactHandler *contactsvc.Handler,
	demoHandler *demosvc.Handler,
	adminHandler *admin.Handler,
	activityHandler *activity.Handler,
	viewsHandler *views.Handler,
	wsHandler *realtime.Handler,
) http.Handler {
	allowedOrigins := cfg.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Latency(m))

	r.Get("/health", healthHandler(cfg, db, redisClient, hub))
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/ws", wsHandler)

	r.Route("/api", func(api chi.Router) {
		// Public form endpoints, tightly throttled.
		api.Group(func(pub chi.Router) {
			pub.Use(rl.Limit(ratelimit.BudgetSubmission))
			contactHandler.RegisterPublic(pub)
			demoHandler.RegisterPublic(pub)
		})

		api.Group(func(login chi.Router) {
			login.Use(rl.Limit(ratelimit.BudgetLogin))
			adminHandler.Register(login)
		})

		api.Group(func(priv chi.Router) {
			priv.Use(rl.Limit(ratelimit.BudgetAPI))
			priv.Use(middleware.RequireAuth(jwtService, log))
			contactHandler.RegisterAdmin(priv)
			demoHandler.RegisterAdmin(priv)
			activityHandler.Register(priv)
			viewsHandler.Register(priv)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"message": "Route not found.",
		})
	})

	return r
}

func healthHandler(cfg config.Config, db *sql.DB, redisClient *redis.Client, hub *realtime.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		healthy := true

		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				checks["database"] = "down"
				healthy = false
			} else {
				checks["database"] = "up"
			}
		} else {
			checks["database"] = "memory"
		}

		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				checks["redis"] = "down"
				healthy = false
			} else {
				checks["redis"] = "up"
			}
		}

		statusCode := http.StatusOK
		message := "OK"
		if !healthy {
			statusCode = http.StatusServiceUnavailable
			message = "degraded"
		}
		httputil.WriteJSON(w, statusCode, map[string]any{
			"success":          healthy,
			"message":          message,
			"env":              cfg.Env,
			"checks":           checks,
			"realtime_clients": hub.ClientCount(),
		})
	}
}

// Interface conformance for both store backends.
var (
	_ contactStore = (*contactstore.InMemoryStore)(nil)
	_ contactStore = (*contactstore.PostgresStore)(nil)
	_ demoStore    = (*demostore.InMemoryStore)(nil)
	_ demoStore    = (*demostore.PostgresStore)(nil)
	_ historyStore = (*history.InMemoryStore)(nil)
	_ historyStore = (*history.PostgresStore)(nil)
)
