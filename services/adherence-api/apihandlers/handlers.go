package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	participantTokenSignKey string
	managementTokenSignKey  string
	allowedInstanceIDs      []string
	inputsAPIKeys           []string
}

func NewHTTPHandler(
	participantTokenSignKey string,
	managementTokenSignKey string,
	allowedInstanceIDs []string,
	inputsAPIKeys []string,
) *HttpEndpoints {
	return &HttpEndpoints{
		participantTokenSignKey: participantTokenSignKey,
		managementTokenSignKey:  managementTokenSignKey,
		allowedInstanceIDs:      allowedInstanceIDs,
		inputsAPIKeys:           inputsAPIKeys,
	}
}
