package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"polibest/api/internal/models"
)

type fakeResolver struct {
	users map[string]*models.User
	err   error
}

func (f *fakeResolver) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[token], nil
}

func newAuthRouter(resolver SessionResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(resolver), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return router
}

func TestAuth_TokenSources(t *testing.T) {
	owner := &models.User{UserID: "user_1", Email: "owner@example.com"}
	resolver := &fakeResolver{users: map[string]*models.User{
		"cookie-token": owner,
		"bearer-token": owner,
	}}
	router := newAuthRouter(resolver)

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
	}{
		{
			name: "cookie token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "bearer fallback",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer bearer-token")
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "cookie wins over header",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
				r.Header.Set("Authorization", "Bearer garbage")
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no token",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer garbage")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed authorization scheme",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Token cookie-token")
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.setup(req)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), "owner@example.com")
			} else {
				assert.Contains(t, rec.Body.String(), "not_authenticated")
			}
		})
	}
}

func TestAuth_ResolverFailure(t *testing.T) {
	router := newAuthRouter(&fakeResolver{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer any")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestCurrentUser_Unset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUser(c)
	assert.False(t, ok)
}
