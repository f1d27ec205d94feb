// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetIdentity returns the key the caller's views are stored under.
func GetIdentity(c *gin.Context) (string, bool) {
	return getString(c, identityKey)
}

// MustGetIdentity gets the identity from context or panics
func MustGetIdentity(c *gin.Context) string {
	identity, exists := GetIdentity(c)
	if !exists {
		panic("identity not found in context")
	}
	return identity
}

// GetSessionID returns the portal session id when the caller used one.
func GetSessionID(c *gin.Context) (string, bool) {
	return getString(c, sessionIDKey)
}

// GetSubject returns the upstream subject claim, if the token carried one.
func GetSubject(c *gin.Context) string {
	s, _ := getString(c, subjectKey)
	return s
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := GetIdentity(c)
	return exists
}

func getString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
