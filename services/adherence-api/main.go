package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/case-framework/study-adherence/pkg/apihelpers"
	"github.com/case-framework/study-adherence/services/adherence-api/apihandlers"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"GET", "PUT"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length", "Api-Key"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", apihandlers.HealthCheckHandle)
	v1Root := router.Group("/v1")

	v1APIHandlers := apihandlers.NewHTTPHandler(
		conf.JWTConfig.ParticipantUserSignKey,
		conf.JWTConfig.ManagementUserSignKey,
		conf.AllowedInstanceIDs,
		inputsAPIKeys(),
	)
	v1APIHandlers.AddStudyAdherenceAPI(v1Root)

	if conf.GinConfig.DebugMode {
		if err := apihelpers.WriteRoutesToFile(router, "adherence-api-routes.txt"); err != nil {
			slog.Warn("could not write routes file", slog.String("error", err.Error()))
		}
	}

	// Start the server
	slog.Info("Starting Adherence API on port " + conf.GinConfig.Port)
	if !conf.GinConfig.MTLS.Use {
		if err := router.Run(":" + conf.GinConfig.Port); err != nil {
			slog.Error("Exited Adherence API", slog.String("error", err.Error()))
			return
		}
		return
	}

	// Create tls config for mutual TLS
	tlsConfig, err := apihelpers.LoadTLSConfig(conf.GinConfig.MTLS.CertificatePaths)
	if err != nil {
		slog.Error("Error loading TLS config.", slog.String("error", err.Error()))
		return
	}

	server := &http.Server{
		Addr:      ":" + conf.GinConfig.Port,
		Handler:   router,
		TLSConfig: tlsConfig,
	}

	err = server.ListenAndServeTLS(conf.GinConfig.MTLS.CertificatePaths.ServerCertPath, conf.GinConfig.MTLS.CertificatePaths.ServerKeyPath)
	if err != nil {
		slog.Error("Exited Adherence API", slog.String("error", err.Error()))
	}
}
