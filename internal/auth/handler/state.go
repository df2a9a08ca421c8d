package handler

import "github.com/gin-gonic/gin"

const stateCookieName = "__kiosk_oauth_state"

// generateState issues the CSRF state for the current login attempt and
// stores it in a flow cookie for the callback to check.
func generateState(c *gin.Context) string {
	state := randomToken()
	setFlowCookie(c, stateCookieName, state)
	return state
}

// validateState compares the callback's state query against the flow
// cookie issued at login.
func validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	if stateQuery == "" {
		return false
	}
	stored := flowCookie(c, stateCookieName)
	return stored != "" && stored == stateQuery
}
