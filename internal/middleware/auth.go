package middleware

import (
	"errors"
	"net/http"
	"strings"

	pkgAuth "holdem-service/pkg/auth"

	"github.com/gin-gonic/gin"
)

const (
	ContextSubjectIDKey = "subjectID"
	ContextNameKey      = "subjectName"
)

// AuthRequired guards REST endpoints with the same bearer credential the
// websocket gateway verifies. The websocket route does its own extraction
// because browsers cannot set headers on an upgrade request.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := pkgAuth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextSubjectIDKey, claims.SubjectID)
		c.Set(ContextNameKey, claims.DisplayName())
		c.Next()
	}
}

func extractBearerToken(authHeader string) (string, error) {
	if strings.TrimSpace(authHeader) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
