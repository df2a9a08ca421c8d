package handler

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/gin-gonic/gin"
)

const pkceCookieName = "__kiosk_oauth_pkce"

// generatePKCE creates an S256 verifier/challenge pair and stores the
// verifier in a flow cookie until the callback exchanges the code.
func generatePKCE(c *gin.Context) (verifier string, challenge string) {
	verifier = randomToken()

	hash := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(hash[:])

	setFlowCookie(c, pkceCookieName, verifier)
	return verifier, challenge
}

func getPKCEVerifier(c *gin.Context) string {
	return flowCookie(c, pkceCookieName)
}
