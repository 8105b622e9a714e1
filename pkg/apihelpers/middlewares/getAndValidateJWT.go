package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	jwthandling "github.com/case-framework/study-adherence/pkg/jwt-handling"
	"github.com/gin-gonic/gin"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderAPIKey        = "Api-Key"
)

// context keys
const (
	CTX_KEY_TOKEN           = "token"
	CTX_KEY_VALIDATED_TOKEN = "validatedToken"
)

func GetAndValidateParticipantUserJWT(tokenSignKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found", slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		parsedToken, ok, err := jwthandling.ValidateParticipantUserToken(token, tokenSignKey)
		if err != nil || !ok {
			slog.Warn("participant token validation failed", slog.String("error", errorString(err)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			return
		}
		c.Set(CTX_KEY_TOKEN, token)
		c.Set(CTX_KEY_VALIDATED_TOKEN, parsedToken)
	}
}

func GetAndValidateManagementUserJWT(tokenSignKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found", slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		parsedToken, ok, err := jwthandling.ValidateManagementUserToken(token, tokenSignKey)
		if err != nil || !ok {
			slog.Warn("management token validation failed", slog.String("error", errorString(err)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			return
		}
		c.Set(CTX_KEY_TOKEN, token)
		c.Set(CTX_KEY_VALIDATED_TOKEN, parsedToken)
	}
}

func extractToken(c *gin.Context) (string, error) {
	header := c.GetHeader(HeaderAuthorization)
	if header == "" {
		return "", errors.New("no Authorization header found")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", errors.New("no token found in Authorization header")
	}
	return token, nil
}

func errorString(err error) string {
	if err == nil {
		return "invalid token"
	}
	return err.Error()
}
