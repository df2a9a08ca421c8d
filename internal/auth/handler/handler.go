package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Food-Locker/consumer/internal/auth"
	"github.com/Food-Locker/consumer/internal/auth/provider"
	"github.com/Food-Locker/consumer/internal/logger"
	"github.com/Food-Locker/consumer/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionTTL = 24 * time.Hour

// Provisioner ensures a backend profile row exists for a freshly
// authenticated identity.
type Provisioner interface {
	Provision(ctx context.Context, externalID, displayName, email string) (string, error)
}

type Handler struct {
	providers    *provider.Registry
	sessionStore session.Store
	profiles     Provisioner
	manager      *auth.Manager
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	profiles Provisioner,
	manager *auth.Manager,
) *Handler {
	return &Handler{
		providers:    registry,
		sessionStore: sessionStore,
		profiles:     profiles,
		manager:      manager,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/oauth/login/:provider", h.login)
	r.GET("/oauth/callback/:provider", h.callback)
	r.POST("/auth/logout", h.Logout)
}

func (h *Handler) login(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "unknown oauth provider",
			"providers": h.providers.Names(),
		})
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	errParam := c.Query("error")
	if errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, "/")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oidc callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	// The provider is resolving from here until the exchange settles.
	h.manager.SetResolving(true)
	defer h.manager.SetResolving(false)

	identity, err := p.ExchangeCode(
		c.Request.Context(),
		code,
		codeVerifier,
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication failed",
		})
		return
	}

	// Make sure a profile row exists before the manager fetches it.
	if _, err := h.profiles.Provision(
		c.Request.Context(),
		identity.ExternalID,
		identity.DisplayName,
		identity.Email,
	); err != nil {
		logger.Error("profile provisioning failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to prepare profile",
		})
		return
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create session",
		})
		return
	}

	now := time.Now()
	expiresAt := now.Add(sessionTTL)

	sess := session.Session{
		SessionID:  sessionID,
		ExternalID: identity.ExternalID,
		CreatedAt:  now,
		ExpiresAt:  expiresAt,
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to persist session",
		})
		return
	}

	if err := h.manager.SignIn(c.Request.Context(), identity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to establish identity",
		})
		return
	}

	session.SetCookie(c.Writer, sessionID, expiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("guest signed in", map[string]any{
		"provider":    providerName,
		"external_id": identity.ExternalID,
	})

	c.JSON(http.StatusOK, gin.H{
		"status": "authenticated",
	})
}

func (h *Handler) Logout(c *gin.Context) {

	// 1. Read session cookie (same pattern as auth middleware)
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		// 2. Delete session from store (best-effort)
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
	}

	// 3. Identity and profile are cleared synchronously; an in-flight
	// profile fetch result will be discarded on arrival.
	h.manager.SignOut()

	// 4. Clear cookie (must pass options)
	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// 5. Idempotent response
	c.Status(http.StatusNoContent)
}
