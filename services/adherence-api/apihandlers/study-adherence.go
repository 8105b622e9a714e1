package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/case-framework/study-adherence/pkg/apihelpers"
	mw "github.com/case-framework/study-adherence/pkg/apihelpers/middlewares"
	jwthandling "github.com/case-framework/study-adherence/pkg/jwt-handling"
	"github.com/gin-gonic/gin"

	adherenceService "github.com/case-framework/study-adherence/pkg/adherence"
	adherenceTypes "github.com/case-framework/study-adherence/pkg/adherence/types"
	adherenceDB "github.com/case-framework/study-adherence/pkg/db/adherence"
)

func (h *HttpEndpoints) AddStudyAdherenceAPI(rg *gin.RouterGroup) {
	adherenceGroup := rg.Group("/adherence/:studyKey")
	adherenceGroup.Use(validateStudyKey)

	// participant app
	adherenceGroup.GET("/report",
		mw.GetAndValidateParticipantUserJWT(h.participantTokenSignKey),
		mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs),
		h.getOwnStudyAdherenceReport,
	) // ?profileID=&timeZone=

	// study management
	managementGroup := adherenceGroup.Group("")
	managementGroup.Use(
		mw.GetAndValidateManagementUserJWT(h.managementTokenSignKey),
		mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs),
	)
	{
		// ?page=&limit=&label=&progression=
		managementGroup.GET("/reports", h.searchStudyAdherenceReports)
		// ?timeZone=
		managementGroup.GET("/participants/:participantID/report", h.getParticipantStudyAdherenceReport)
	}

	// upstream event stream computation
	adherenceGroup.PUT("/participants/:participantID/inputs",
		mw.HasValidAPIKey(h.inputsAPIKeys),
		mw.RequireJSONPayload(),
		h.saveAdherenceInputs,
	) // ?instanceID=
}

func (h *HttpEndpoints) getOwnStudyAdherenceReport(c *gin.Context) {
	token := c.MustGet(mw.CTX_KEY_VALIDATED_TOKEN).(*jwthandling.ParticipantUserClaims)
	studyKey := c.Param("studyKey")

	profileID := c.DefaultQuery("profileID", token.ProfileID)
	if !token.HasProfile(profileID) {
		slog.Warn("profile not found", slog.String("instanceID", token.InstanceID), slog.String("userID", token.Subject), slog.String("profileID", profileID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "profile not found"})
		return
	}

	timeZone := c.Query("timeZone")
	if !validTimeZone(c, timeZone) {
		return
	}

	slog.Debug("getting own study adherence report", slog.String("instanceID", token.InstanceID), slog.String("studyKey", studyKey), slog.String("userID", token.Subject))

	report, err := adherenceService.GetStudyAdherenceReportForProfile(token.InstanceID, studyKey, profileID, timeZone)
	if err != nil {
		respondWithServiceError(c, err, "error getting study adherence report",
			slog.String("instanceID", token.InstanceID), slog.String("studyKey", studyKey), slog.String("userID", token.Subject))
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *HttpEndpoints) getParticipantStudyAdherenceReport(c *gin.Context) {
	token := c.MustGet(mw.CTX_KEY_VALIDATED_TOKEN).(*jwthandling.ManagementUserClaims)
	studyKey := c.Param("studyKey")
	participantID := c.Param("participantID")

	timeZone := c.Query("timeZone")
	if !validTimeZone(c, timeZone) {
		return
	}

	slog.Info("getting participant study adherence report", slog.String("instanceID", token.InstanceID), slog.String("studyKey", studyKey), slog.String("userID", token.ID), slog.String("participantID", participantID))

	report, err := adherenceService.GetStudyAdherenceReport(token.InstanceID, studyKey, participantID, timeZone)
	if err != nil {
		respondWithServiceError(c, err, "error getting study adherence report",
			slog.String("instanceID", token.InstanceID), slog.String("studyKey", studyKey), slog.String("participantID", participantID))
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *HttpEndpoints) searchStudyAdherenceReports(c *gin.Context) {
	token := c.MustGet(mw.CTX_KEY_VALIDATED_TOKEN).(*jwthandling.ManagementUserClaims)
	studyKey := c.Param("studyKey")

	query, err := apihelpers.ParsePaginatedQueryFromCtx(c, adherenceDB.DEFAULT_ADHERENCE_REPORT_PAGE_SIZE)
	if err != nil {
		slog.Warn("invalid pagination query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	progression := c.Query("progression")
	if progression != "" && !isKnownProgression(progression) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown progression"})
		return
	}

	reports, paginationInfo, err := adherenceService.SearchStudyAdherenceReports(token.InstanceID, studyKey, c.Query("label"), progression, query.Page, query.Limit)
	if err != nil {
		respondWithServiceError(c, err, "error searching study adherence reports",
			slog.String("instanceID", token.InstanceID), slog.String("studyKey", studyKey))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports":    reports,
		"pagination": paginationInfo,
	})
}

type adherenceInputsReq struct {
	TestAccount       bool                             `json:"testAccount"`
	StudyStartEventID string                           `json:"studyStartEventId"`
	EventTimestamps   map[string]int64                 `json:"eventTimestamps"`
	EventStreams      adherenceTypes.EventStreamReport `json:"eventStreams"`
}

func (h *HttpEndpoints) saveAdherenceInputs(c *gin.Context) {
	studyKey := c.Param("studyKey")
	participantID := c.Param("participantID")

	instanceID := c.Query("instanceID")
	if !h.isInstanceAllowed(instanceID) {
		slog.Warn("instanceID not allowed", slog.String("instanceID", instanceID))
		c.JSON(http.StatusBadRequest, gin.H{"error": "instanceID not allowed"})
		return
	}

	var req adherenceInputsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := adherenceService.SaveAdherenceInputs(instanceID, studyKey, adherenceTypes.ParticipantAdherenceInputs{
		ParticipantID:     participantID,
		TestAccount:       req.TestAccount,
		StudyStartEventID: req.StudyStartEventID,
		EventTimestamps:   req.EventTimestamps,
		EventStreams:      req.EventStreams,
	})
	if err != nil {
		respondWithServiceError(c, err, "error saving adherence inputs",
			slog.String("instanceID", instanceID), slog.String("studyKey", studyKey), slog.String("participantID", participantID))
		return
	}

	slog.Debug("adherence inputs saved", slog.String("instanceID", instanceID), slog.String("studyKey", studyKey), slog.String("participantID", participantID))
	c.JSON(http.StatusOK, gin.H{"participantID": saved.ParticipantID, "modifiedAt": saved.ModifiedAt})
}
