package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

const (
	msgNoToken            = "no token, authorization denied"
	msgInvalidToken       = "token is not valid"
	msgInvalidCredentials = "invalid credentials"
)

type Service struct {
	accounts repository.AccountRepository
	hasher   security.PasswordHasher
	tokens   *auth.TokenManager
	revoker  Revoker
	events   event.Publisher
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(
	accounts repository.AccountRepository,
	hasher security.PasswordHasher,
	tokens *auth.TokenManager,
	revoker Revoker,
	events event.Publisher,
	m *metrics.Metrics,
) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		revoker:  revoker,
		events:   events,
		metrics:  m,
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.Account, error) {
	if !req.Role.Valid() {
		return nil, apperrors.BadRequest("invalid role", nil)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.BadRequest("name is required", nil)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperrors.BadRequest(fmt.Sprintf("password must be at least %d characters", security.MinPasswordLen), err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	account := &model.Account{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Role == model.RoleDoctor {
		account.Specialization = strings.TrimSpace(req.Specialization)
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.BadRequest("email already registered", err)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Info().Str("account_id", account.ID).Str("role", string(account.Role)).Msg("account registered")
	s.events.Emit(ctx, event.AccountRegistered, account.RefWithRole())
	return account, nil
}

// Login checks the credentials and issues a bearer token. An unknown email,
// a wrong password and a role mismatch all give the same answer.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.AuthFailures.WithLabelValues("unknown_email").Inc()
			return nil, apperrors.Unauthorized(msgInvalidCredentials, nil)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, req.Password); err != nil {
		s.metrics.AuthFailures.WithLabelValues("bad_password").Inc()
		return nil, apperrors.Unauthorized(msgInvalidCredentials, nil)
	}
	if req.Role != "" && req.Role != account.Role {
		s.metrics.AuthFailures.WithLabelValues("role_mismatch").Inc()
		return nil, apperrors.Unauthorized(msgInvalidCredentials, nil)
	}

	token, claims, err := s.tokens.Issue(account.ID, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info().Str("account_id", account.ID).Msg("login succeeded")
	return &model.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      account,
	}, nil
}

// Authenticate resolves a bearer token to the account it was issued to.
// Every failure is Unauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		s.metrics.AuthFailures.WithLabelValues("missing_token").Inc()
		return nil, apperrors.Unauthorized(msgNoToken, nil)
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
		return nil, apperrors.Unauthorized(msgInvalidToken, err)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token: %w", err)
	}
	if revoked {
		s.metrics.AuthFailures.WithLabelValues("revoked_token").Inc()
		return nil, apperrors.Unauthorized(msgInvalidToken, nil)
	}

	account, err := s.accounts.Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.AuthFailures.WithLabelValues("unknown_subject").Inc()
			return nil, apperrors.Unauthorized(msgInvalidToken, err)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return apperrors.Unauthorized(msgInvalidToken, err)
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	log.Info().Str("account_id", claims.Subject).Str("token_id", claims.ID).Msg("token revoked")
	return nil
}
