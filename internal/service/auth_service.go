package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"polibest/api/internal/config"
	"polibest/api/internal/identity"
	"polibest/api/internal/ids"
	"polibest/api/internal/models"
	"polibest/api/internal/repository"
	"polibest/api/internal/security"
)

// ErrUpstreamAuth hides provider and network failures behind one opaque
// condition; the detail is logged, never returned to the client.
var ErrUpstreamAuth = errors.New("authentication failed")

// AccessDeniedError reports an allow-list rejection. Unlike provider
// failures it carries the rejected email for operator visibility.
type AccessDeniedError struct {
	Email string
}

func (e *AccessDeniedError) Error() string {
	return "access denied for " + e.Email
}

type IdentityClient interface {
	Exchange(ctx context.Context, sessionID string) (identity.Profile, error)
}

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	UpdateProfile(ctx context.Context, userID string, name string, picture *string) error
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByToken(ctx context.Context, token string) (models.Session, error)
	DeleteByUser(ctx context.Context, userID string) error
	DeleteByToken(ctx context.Context, token string) error
}

// AuthService exchanges external session ids for durable sessions gated by
// the email allow-list, and resolves tokens back to users.
type AuthService struct {
	provider   IdentityClient
	users      UserStore
	sessions   SessionStore
	allowed    map[string]struct{}
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(
	provider IdentityClient,
	users UserStore,
	sessions SessionStore,
	cfg config.AuthConfig,
	log zerolog.Logger,
) *AuthService {
	allowed := make(map[string]struct{}, len(cfg.AllowedEmails))
	for _, email := range cfg.AllowedEmails {
		allowed[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}

	return &AuthService{
		provider:   provider,
		users:      users,
		sessions:   sessions,
		allowed:    allowed,
		sessionTTL: cfg.SessionTTL,
		log:        log,
	}
}

// CreateSession verifies the external session id with the provider, checks
// the allow-list and replaces the user's sessions with a single fresh one.
func (s *AuthService) CreateSession(ctx context.Context, externalSessionID string) (models.User, string, error) {
	profile, err := s.provider.Exchange(ctx, externalSessionID)
	if err != nil {
		s.log.Error().Err(err).Msg("identity provider exchange failed")
		return models.User{}, "", ErrUpstreamAuth
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	s.log.Info().Str("email", email).Msg("auth attempt")

	if _, ok := s.allowed[email]; !ok {
		s.log.Warn().Str("email", email).Msg("access denied")
		return models.User{}, "", &AccessDeniedError{Email: email}
	}

	user, err := s.upsertUser(ctx, email, profile)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("user upsert failed")
		return models.User{}, "", ErrUpstreamAuth
	}

	token, err := security.GenerateSessionToken(32)
	if err != nil {
		return models.User{}, "", err
	}

	// Old sessions go first; a crash between the two steps leaves the user
	// with no session, which the next login repairs.
	if err := s.sessions.DeleteByUser(ctx, user.UserID); err != nil {
		return models.User{}, "", err
	}

	session := models.Session{
		UserID:       user.UserID,
		SessionToken: token,
		ExpiresAt:    time.Now().UTC().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

func (s *AuthService) upsertUser(ctx context.Context, email string, profile identity.Profile) (models.User, error) {
	var picture *string
	if profile.Picture != "" {
		picture = &profile.Picture
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.UpdateProfile(ctx, user.UserID, profile.Name, picture); err != nil {
			return models.User{}, err
		}
		user.Name = profile.Name
		user.Picture = picture
		return user, nil
	case errors.Is(err, repository.ErrUserNotFound):
		user = models.User{
			UserID:    ids.NewUser(),
			Email:     email,
			Name:      profile.Name,
			Picture:   picture,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return models.User{}, err
		}
		return user, nil
	default:
		return models.User{}, err
	}
}

// ResolveSession maps a bearer token to its user. Missing and expired
// sessions both come back as nil; expired rows are left in place.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if session.ExpiresAt.UTC().Before(time.Now().UTC()) {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// Logout removes every session row matching the token. Unknown tokens are
// a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteByToken(ctx, token)
}
