package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lguportal/portal/internal/config"
	"lguportal/portal/internal/ids"
	"lguportal/portal/internal/input"
	"lguportal/portal/internal/models"
	"lguportal/portal/internal/repository"
	"lguportal/portal/internal/security"
)

const sessionTokenBytes = 32

type AuthService struct {
	users    UserStore
	sessions SessionStore
	cfg      *config.AppConfig
	log      zerolog.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(users UserStore, sessions SessionStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

type LoginInput struct {
	Email    string
	Password string
	// PreviousToken is the session cookie the browser sent, if any. It is
	// revoked once the new session exists.
	PreviousToken string
	IPAddress     string
	UserAgent     string
}

type LoginResult struct {
	SessionToken string
	Session      models.Session
	Redirect     string
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return LoginResult{}, invalid("Please fill in all fields")
	}
	if !input.IsEmail(email) {
		return LoginResult{}, invalid("Invalid email format")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			s.burnVerify(in.Password)
			return LoginResult{}, ErrInvalidCredentials
		case errors.Is(err, repository.ErrDuplicateUserRecords):
			s.log.Error().Err(err).Str("email", email).Msg("refusing login for duplicated email")
			s.burnVerify(in.Password)
			return LoginResult{}, ErrInvalidCredentials
		default:
			return LoginResult{}, fmt.Errorf("find user: %w", err)
		}
	}

	ok, err := security.VerifyPassword(in.Password, user.PasswordHash)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("stored password hash unreadable")
		return LoginResult{}, ErrInvalidCredentials
	}
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return LoginResult{}, ErrAccountInactive
	}

	token, tokenHash, err := security.GenerateSessionToken(sessionTokenBytes)
	if err != nil {
		return LoginResult{}, err
	}

	now := s.now().UTC()
	session := models.Session{
		ID:        ids.New(),
		TokenHash: tokenHash,
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		LoggedIn:  true,
		LoginTime: now,
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
		ExpiresAt: now.Add(s.cfg.Security.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}

	s.revoke(ctx, in.PreviousToken)

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")

	return LoginResult{
		SessionToken: token,
		Session:      session,
		Redirect:     ResolveRedirect(user.Role),
	}, nil
}

// Authenticate resolves a session cookie to a live session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrNotAuthenticated
	}

	tokenHash := security.HashSessionToken(token)
	session, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.Session{}, ErrNotAuthenticated
		}
		return models.Session{}, err
	}

	if !session.LoggedIn || !s.now().Before(session.ExpiresAt) {
		s.revoke(ctx, token)
		return models.Session{}, ErrNotAuthenticated
	}

	if err := s.sessions.Touch(ctx, session.ID); err != nil {
		s.log.Warn().Err(err).Str("session_id", session.ID).Msg("touch session failed")
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := s.sessions.DeleteByTokenHash(ctx, security.HashSessionToken(token))
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return err
	}
	return nil
}

func (s *AuthService) revoke(ctx context.Context, token string) {
	if err := s.Logout(ctx, token); err != nil {
		s.log.Warn().Err(err).Msg("revoke previous session failed")
	}
}

// burnVerify runs one password verification against a throwaway hash so an
// unknown email costs the same as a wrong password.
func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		hash, err := security.HashPassword("lguportal-unused")
		if err == nil {
			s.dummyHash = hash
		}
	})
	if s.dummyHash != nil {
		_, _ = security.VerifyPassword(password, s.dummyHash)
	}
}
