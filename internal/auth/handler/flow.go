package handler

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// flowCookieTTL bounds how long a guest may take between the login
// redirect and the provider callback on a shared kiosk.
const flowCookieTTL = 5 * time.Minute

// randomToken returns a URL-safe random value for flow cookies.
func randomToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// setFlowCookie issues a short-lived cookie scoped to one OAuth flow.
// Flow cookies expire on their own so an abandoned kiosk login leaves
// nothing behind for the next guest.
func setFlowCookie(c *gin.Context, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flowCookieTTL.Seconds()),
	})
}

func flowCookie(c *gin.Context, name string) string {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
