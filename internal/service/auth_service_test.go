package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polibest/api/internal/config"
	"polibest/api/internal/identity"
	"polibest/api/internal/models"
	"polibest/api/internal/repository"
)

type fakeProvider struct {
	profile identity.Profile
	err     error
}

func (f *fakeProvider) Exchange(ctx context.Context, sessionID string) (identity.Profile, error) {
	return f.profile, f.err
}

type fakeUserStore struct {
	byEmail map[string]models.User
	byID    map[string]models.User
	created []models.User
	updates int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: map[string]models.User{},
		byID:    map[string]models.User{},
	}
}

func (f *fakeUserStore) Create(ctx context.Context, user models.User) error {
	f.created = append(f.created, user)
	f.byEmail[user.Email] = user
	f.byID[user.UserID] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	user, ok := f.byID[userID]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, userID string, name string, picture *string) error {
	user, ok := f.byID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Name = name
	user.Picture = picture
	f.byID[userID] = user
	f.byEmail[user.Email] = user
	f.updates++
	return nil
}

type fakeSessionStore struct {
	byToken       map[string]models.Session
	deletedByUser int
	deletedTokens []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byToken: map[string]models.Session{}}
}

func (f *fakeSessionStore) Create(ctx context.Context, session models.Session) error {
	f.byToken[session.SessionToken] = session
	return nil
}

func (f *fakeSessionStore) GetByToken(ctx context.Context, token string) (models.Session, error) {
	session, ok := f.byToken[token]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	f.deletedByUser++
	for token, session := range f.byToken {
		if session.UserID == userID {
			delete(f.byToken, token)
		}
	}
	return nil
}

func (f *fakeSessionStore) DeleteByToken(ctx context.Context, token string) error {
	f.deletedTokens = append(f.deletedTokens, token)
	delete(f.byToken, token)
	return nil
}

func newAuthService(provider IdentityClient, users UserStore, sessions SessionStore) *AuthService {
	cfg := config.AuthConfig{
		AllowedEmails: []string{"Owner@Example.com", "second@example.com"},
		SessionTTL:    720 * time.Hour,
	}
	return NewAuthService(provider, users, sessions, cfg, zerolog.Nop())
}

func TestCreateSession_AccessDenied(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{profile: identity.Profile{
		Email: "Intruder@Example.com",
		Name:  "Intruder",
	}}
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := newAuthService(provider, users, sessions)

	_, _, err := svc.CreateSession(context.Background(), "ext-session")

	var denied *AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "intruder@example.com", denied.Email)

	// policy rejection must leave no trace
	assert.Empty(t, users.created)
	assert.Empty(t, sessions.byToken)
}

func TestCreateSession_WhitelistIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{profile: identity.Profile{
		Email: "OWNER@example.COM",
		Name:  "Owner",
	}}
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := newAuthService(provider, users, sessions)

	user, token, err := svc.CreateSession(context.Background(), "ext-session")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", user.Email)
	assert.NotEmpty(t, token)
}

func TestCreateSession_NewUserAndSingleSession(t *testing.T) {
	t.Parallel()

	picture := "https://example.com/p.png"
	provider := &fakeProvider{profile: identity.Profile{
		Email:   "owner@example.com",
		Name:    "Owner",
		Picture: picture,
	}}
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := newAuthService(provider, users, sessions)

	before := time.Now().UTC()
	user, token, err := svc.CreateSession(context.Background(), "ext-session")
	require.NoError(t, err)

	require.Len(t, users.created, 1)
	assert.Equal(t, "owner@example.com", user.Email)
	require.NotNil(t, user.Picture)
	assert.Equal(t, picture, *user.Picture)

	require.Len(t, sessions.byToken, 1)
	session := sessions.byToken[token]
	assert.Equal(t, user.UserID, session.UserID)

	wantExpiry := before.Add(720 * time.Hour)
	assert.WithinDuration(t, wantExpiry, session.ExpiresAt, 5*time.Second)
}

func TestCreateSession_ReloginReplacesSession(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{profile: identity.Profile{
		Email: "owner@example.com",
		Name:  "Owner",
	}}
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := newAuthService(provider, users, sessions)

	_, firstToken, err := svc.CreateSession(context.Background(), "ext-1")
	require.NoError(t, err)

	provider.profile.Name = "Owner Renamed"
	user, secondToken, err := svc.CreateSession(context.Background(), "ext-2")
	require.NoError(t, err)

	assert.NotEqual(t, firstToken, secondToken)
	require.Len(t, sessions.byToken, 1)
	_, stale := sessions.byToken[firstToken]
	assert.False(t, stale)

	// second login refreshes the profile instead of creating a user
	require.Len(t, users.created, 1)
	assert.Equal(t, 1, users.updates)
	assert.Equal(t, "Owner Renamed", user.Name)
}

func TestCreateSession_ProviderFailureIsOpaque(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{err: errors.New("connection refused")}
	svc := newAuthService(provider, newFakeUserStore(), newFakeSessionStore())

	_, _, err := svc.CreateSession(context.Background(), "ext-session")
	require.ErrorIs(t, err, ErrUpstreamAuth)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestResolveSession(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := newAuthService(&fakeProvider{}, users, sessions)

	owner := models.User{UserID: "user_1", Email: "owner@example.com", Name: "Owner"}
	users.byID[owner.UserID] = owner

	sessions.byToken["live"] = models.Session{
		UserID:       owner.UserID,
		SessionToken: "live",
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}
	sessions.byToken["expired"] = models.Session{
		UserID:       owner.UserID,
		SessionToken: "expired",
		ExpiresAt:    time.Now().UTC().Add(-time.Minute),
	}
	sessions.byToken["orphan"] = models.Session{
		UserID:       "user_gone",
		SessionToken: "orphan",
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}

	tests := []struct {
		name  string
		token string
		want  *models.User
	}{
		{name: "live session resolves", token: "live", want: &owner},
		{name: "expired session is invisible", token: "expired", want: nil},
		{name: "unknown token is invisible", token: "missing", want: nil},
		{name: "vanished user is invisible", token: "orphan", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.ResolveSession(context.Background(), tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, user)
		})
	}

	// expiry does not delete the row
	_, stillThere := sessions.byToken["expired"]
	assert.True(t, stillThere)
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()

	sessions := newFakeSessionStore()
	sessions.byToken["tok"] = models.Session{UserID: "user_1", SessionToken: "tok"}
	svc := newAuthService(&fakeProvider{}, newFakeUserStore(), sessions)

	require.NoError(t, svc.Logout(context.Background(), "tok"))
	require.NoError(t, svc.Logout(context.Background(), "tok"))
	assert.Empty(t, sessions.byToken)
}
