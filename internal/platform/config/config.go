// Package config builds the application configuration from environment
// variables so main stays lean. A .env file, when present, is loaded by main
// via godotenv before FromEnv runs.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Env      string // "development" or "production"
	Server   Server
	Database Database
	Redis    Redis
	Auth     Auth
	Mail     Mail
	CORS     CORS
	Shutdown Shutdown
}

type Server struct {
	Addr string
}

type Database struct {
	URL string
}

type Redis struct {
	// URL is optional; when empty the in-memory rate limit store is used.
	URL string
}

type Auth struct {
	JWTSecret string
	JWTTTL    time.Duration
}

type Mail struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
	// OpsTo receives the internal notification for every new submission.
	OpsTo string
	// AwaitSend makes submission and transition requests wait for email
	// delivery before responding. Used on hosts that may suspend the
	// process as soon as the response is written.
	AwaitSend bool
	// SkipTLSVerify is for development SMTP endpoints only.
	SkipTLSVerify bool
}

// Configured reports whether outbound mail can be attempted at all.
func (m Mail) Configured() bool {
	return m.User != "" && m.Pass != ""
}

type CORS struct {
	AllowedOrigins []string
}

type Shutdown struct {
	Timeout time.Duration
}

// FromEnv reads configuration from the environment, applying development
// defaults for everything except secrets.
func FromEnv() Config {
	env := getenv("APP_ENV", "development")

	return Config{
		Env: env,
		Server: Server{
			Addr: getenv("SERVER_ADDR", ":5000"),
		},
		Database: Database{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: Redis{
			URL: os.Getenv("REDIS_URL"),
		},
		Auth: Auth{
			JWTSecret: getenv("JWT_SECRET", "dev-secret-change-in-production"),
			JWTTTL:    getduration("JWT_TTL", 7*24*time.Hour),
		},
		Mail: Mail{
			Host:          getenv("MAIL_HOST", "smtp.gmail.com"),
			Port:          getint("MAIL_PORT", 587),
			User:          os.Getenv("MAIL_USER"),
			Pass:          os.Getenv("MAIL_PASS"),
			From:          getenv("MAIL_FROM", os.Getenv("MAIL_USER")),
			FromName:      getenv("MAIL_FROM_NAME", "Service Path Technologies"),
			OpsTo:         getenv("MAIL_NOTIFY_TO", "servicepathtotechnologies@gmail.com"),
			AwaitSend:     os.Getenv("MAIL_AWAIT_SEND") == "true",
			SkipTLSVerify: os.Getenv("MAIL_SKIP_TLS_VERIFY") == "1",
		},
		CORS: CORS{
			AllowedOrigins: splitList(os.Getenv("CORS_ORIGIN")),
		},
		Shutdown: Shutdown{
			Timeout: getduration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}
}

// IsProduction reports whether the app runs with production settings.
func (c Config) IsProduction() bool { return c.Env == "production" }

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v == 0 {
		return fallback
	}
	return v
}

func getduration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v == 0 {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
