package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"

	adherenceService "github.com/case-framework/study-adherence/pkg/adherence"
	adherenceTypes "github.com/case-framework/study-adherence/pkg/adherence/types"
	"github.com/case-framework/study-adherence/pkg/utils"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) isInstanceAllowed(instanceID string) bool {
	return instanceID != "" && slices.Contains(h.allowedInstanceIDs, instanceID)
}

func validateStudyKey(c *gin.Context) {
	if !utils.IsURLSafe(c.Param("studyKey")) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid study key"})
		return
	}
	c.Next()
}

// validTimeZone writes a 400 response if the zone cannot be loaded.
func validTimeZone(c *gin.Context, timeZone string) bool {
	if _, err := adherenceService.ResolveTimeZone(timeZone); err != nil {
		slog.Warn("invalid time zone", slog.String("timeZone", timeZone))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time zone"})
		return false
	}
	return true
}

func isKnownProgression(value string) bool {
	switch adherenceTypes.Progression(value) {
	case adherenceTypes.PROGRESSION_NO_SCHEDULE,
		adherenceTypes.PROGRESSION_UNSTARTED,
		adherenceTypes.PROGRESSION_IN_PROGRESS,
		adherenceTypes.PROGRESSION_DONE:
		return true
	}
	return false
}

func respondWithServiceError(c *gin.Context, err error, msg string, attrs ...any) {
	attrs = append(attrs, slog.String("error", err.Error()))

	switch {
	case errors.Is(err, adherenceService.ErrInvalidTimeZone):
		slog.Warn(msg, attrs...)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time zone"})
	case errors.Is(err, adherenceService.ErrInvalidInputs):
		slog.Warn(msg, attrs...)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, adherenceService.ErrInputsNotFound), errors.Is(err, adherenceService.ErrStudyNotFound):
		slog.Warn(msg, attrs...)
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		slog.Error(msg, attrs...)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
