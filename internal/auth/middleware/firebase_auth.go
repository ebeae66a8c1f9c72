package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// FirebaseAuthMiddleware validates Firebase ID tokens and extracts user info
func FirebaseAuthMiddleware(authClient *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			c.Abort()
			return
		}

		decodedToken, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		setIdentity(c, decodedToken)
		c.Next()
	}
}

// FirebaseOptionalAuthMiddleware verifies a token when one is presented
// but lets anonymous requests through without an identity. Public-scope
// reads need no caller; handlers that do need one enforce it themselves.
// A presented-but-invalid token is still rejected.
func FirebaseOptionalAuthMiddleware(authClient *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		decodedToken, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		setIdentity(c, decodedToken)
		c.Next()
	}
}

// setIdentity stores the verified caller in the gin context.
func setIdentity(c *gin.Context, decodedToken *auth.Token) {
	c.Set("firebase_uid", decodedToken.UID)

	// Extract profile claims if available
	if email, ok := decodedToken.Claims["email"].(string); ok {
		c.Set("email", email)
	}
	if name, ok := decodedToken.Claims["name"].(string); ok {
		c.Set("display_name", name)
	}

	// Store the full token for access to other claims if needed
	c.Set("firebase_token", decodedToken)
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
