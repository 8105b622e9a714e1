package middlewares

import (
	"log/slog"
	"net/http"
	"slices"

	jwthandling "github.com/case-framework/study-adherence/pkg/jwt-handling"
	"github.com/gin-gonic/gin"
)

// IsInstanceIDInJWTAllowed must run after one of the JWT validating middlewares.
func IsInstanceIDInJWTAllowed(allowedInstanceIDs []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		parsedToken, ok := c.Get(CTX_KEY_VALIDATED_TOKEN)
		if !ok {
			slog.Warn("validatedToken not found in context")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validatedToken not found in context"})
			return
		}

		var instanceID string
		switch token := parsedToken.(type) {
		case *jwthandling.ParticipantUserClaims:
			instanceID = token.InstanceID
		case *jwthandling.ManagementUserClaims:
			instanceID = token.InstanceID
		}

		if !slices.Contains(allowedInstanceIDs, instanceID) {
			slog.Warn("instanceID not allowed", slog.String("instanceID", instanceID), slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "instanceID not allowed"})
			return
		}
	}
}
