package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	dErrors "pathcrm/pkg/domain-errors"
	"pathcrm/pkg/platform/sentinel"
)

// BcryptCost is the work factor for new password hashes.
const BcryptCost = 12

// TokenIssuer signs access tokens for authenticated admins.
type TokenIssuer interface {
	Generate(adminID uuid.UUID, email string) (string, error)
}

// LoginResult carries the token and the safe-to-expose account fields.
type LoginResult struct {
	Token string
	Admin *Admin
}

// Service handles admin authentication.
type Service struct {
	store  Store
	tokens TokenIssuer
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{store: store, tokens: tokens}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password produce the same error so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	invalid := dErrors.New(dErrors.CodeUnauthorized, "Invalid email or password.")

	a, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "admin login rejected",
				slog.String("email", a.Email))
		}
		return nil, invalid
	}

	token, err := s.tokens.Generate(a.ID, a.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "admin logged in",
			slog.String("admin_id", a.ID.String()))
	}
	return &LoginResult{Token: token, Admin: a}, nil
}

// CreateAccount registers an admin with a freshly hashed password. Used by
// the seeding command, not exposed over HTTP.
func (s *Service) CreateAccount(ctx context.Context, email, password string) (*Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &Admin{Email: email, PasswordHash: string(hash)}
	created, err := s.store.CreateIfAbsent(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	if !created {
		return nil, dErrors.New(dErrors.CodeConflict, "An admin with this email already exists.")
	}
	return a, nil
}
