package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"polibest/api/internal/middleware"
	"polibest/api/internal/models"
	"polibest/api/internal/service"
)

type createSessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type sessionUserResponse struct {
	models.User
	SessionToken string `json:"session_token"`
}

// CreateSession exchanges the provider session id for a server-side
// session. The token is returned in the body and also set as a cookie; the
// client may fall back to the Authorization header where cookies are
// unreliable.
func (h HandlerSet) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.CreateSession(c.Request.Context(), req.SessionID)
	if err != nil {
		var denied *service.AccessDeniedError
		switch {
		case errors.As(err, &denied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "access_denied",
				"email": denied.Email,
			})
		case errors.Is(err, service.ErrUpstreamAuth):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_session"})
		default:
			h.log.Error().Err(err).Msg("create session failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication_failed"})
		}
		return
	}

	h.setSessionCookie(c, token, int(h.cfg.Auth.SessionTTL.Seconds()))

	c.JSON(http.StatusOK, sessionUserResponse{
		User:         user,
		SessionToken: token,
	})
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout deletes the presented session and tells the client to drop the
// cookie. Calling it without a valid token still succeeds.
func (h HandlerSet) Logout(c *gin.Context) {
	if token := middleware.TokenFromRequest(c); token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout_failed"})
			return
		}
	}

	h.setSessionCookie(c, "", -1)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(
		middleware.SessionCookie,
		token,
		maxAge,
		"/",
		h.cfg.Auth.CookieDomain,
		h.cfg.Auth.CookieSecure,
		true,
	)
}
