package httputil

import "github.com/gin-gonic/gin"

// CallerScopeKey is the gin context key under which the authentication
// middleware stores the caller's tenant scope.
const CallerScopeKey = "caller_scope"

// CallerScope returns the tenant scope resolved from the caller's
// credentials, or the empty string when the request is unauthenticated.
func CallerScope(c *gin.Context) string {
	return c.GetString(CallerScopeKey)
}
