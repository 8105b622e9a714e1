package main

import (
	"log/slog"
	"os"

	"github.com/case-framework/study-adherence/pkg/apihelpers"
	"github.com/case-framework/study-adherence/pkg/db"
	"github.com/case-framework/study-adherence/pkg/utils"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	adherenceService "github.com/case-framework/study-adherence/pkg/adherence"
	adherenceDB "github.com/case-framework/study-adherence/pkg/db/adherence"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_STUDY_DB_USERNAME             = "STUDY_DB_USERNAME"
	ENV_STUDY_DB_PASSWORD             = "STUDY_DB_PASSWORD"
	ENV_STUDY_GLOBAL_SECRET           = "STUDY_GLOBAL_SECRET"
	ENV_PARTICIPANT_USER_JWT_SIGN_KEY = "PARTICIPANT_USER_JWT_SIGN_KEY"
	ENV_MANAGEMENT_USER_JWT_SIGN_KEY  = "MANAGEMENT_USER_JWT_SIGN_KEY"
)

type InputsClient struct {
	Name   string `json:"name" yaml:"name"`
	APIKey string `json:"api_key" yaml:"api_key"`
}

type AdherenceApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`

		// Mutual TLS configs
		MTLS struct {
			Use              bool                        `json:"use" yaml:"use"`
			CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`
		} `json:"mtls" yaml:"mtls"`
	} `json:"gin_config" yaml:"gin_config"`

	JWTConfig struct {
		ParticipantUserSignKey string `json:"participant_user_sign_key" yaml:"participant_user_sign_key"`
		ManagementUserSignKey  string `json:"management_user_sign_key" yaml:"management_user_sign_key"`
	} `json:"jwt_config" yaml:"jwt_config"`

	// upstream services allowed to push adherence inputs
	InputsClients []InputsClient `json:"inputs_clients" yaml:"inputs_clients"`

	AllowedInstanceIDs []string `json:"allowed_instance_ids" yaml:"allowed_instance_ids"`

	// DB configs
	DBConfigs struct {
		StudyDB db.DBConfigYaml `json:"study_db" yaml:"study_db"`
	} `json:"db_configs" yaml:"db_configs"`

	StudyConfigs struct {
		GlobalSecret string `json:"global_secret" yaml:"global_secret"`
	} `json:"study_configs" yaml:"study_configs"`

	AdherenceConfigs struct {
		CacheReports    bool   `json:"cache_reports" yaml:"cache_reports"`
		ReportCacheTTL  string `json:"report_cache_ttl" yaml:"report_cache_ttl"`
		DefaultTimeZone string `json:"default_time_zone" yaml:"default_time_zone"`
	} `json:"adherence_configs" yaml:"adherence_configs"`
}

var (
	conf               AdherenceApiConfig
	adherenceDBService *adherenceDB.AdherenceDBService
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	if err := utils.InitLogger(conf.Logging); err != nil {
		panic(err)
	}

	// Override secrets from environment variables
	secretsOverride()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Init DBs
	initDBs()

	initAdherenceService()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_STUDY_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.StudyDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_STUDY_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.StudyDB.Password = dbPassword
	}

	if studyGlobalSecret := os.Getenv(ENV_STUDY_GLOBAL_SECRET); studyGlobalSecret != "" {
		conf.StudyConfigs.GlobalSecret = studyGlobalSecret
	}

	if signKey := os.Getenv(ENV_PARTICIPANT_USER_JWT_SIGN_KEY); signKey != "" {
		conf.JWTConfig.ParticipantUserSignKey = signKey
	}

	if signKey := os.Getenv(ENV_MANAGEMENT_USER_JWT_SIGN_KEY); signKey != "" {
		conf.JWTConfig.ManagementUserSignKey = signKey
	}

	for i := range conf.InputsClients {
		client := &conf.InputsClients[i]
		if client.Name == "" {
			continue
		}
		if apiKey := os.Getenv(utils.GenerateInputsAPIKeyEnvVarName(client.Name)); apiKey != "" {
			client.APIKey = apiKey
		}
	}
}

func initDBs() {
	var err error
	adherenceDBService, err = adherenceDB.NewAdherenceDBService(db.DBConfigFromYamlObj(conf.DBConfigs.StudyDB, conf.AllowedInstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Study DB", slog.String("error", err.Error()))
		panic(err)
	}
}

func initAdherenceService() {
	serviceConf := adherenceService.Config{
		CacheReports:    conf.AdherenceConfigs.CacheReports,
		DefaultTimeZone: conf.AdherenceConfigs.DefaultTimeZone,
		GlobalSecret:    conf.StudyConfigs.GlobalSecret,
	}

	if conf.AdherenceConfigs.ReportCacheTTL != "" {
		ttl, err := utils.ParseDurationString(conf.AdherenceConfigs.ReportCacheTTL)
		if err != nil {
			slog.Error("Error parsing report cache TTL", slog.String("error", err.Error()))
			panic(err)
		}
		serviceConf.ReportCacheTTL = ttl
	}

	if err := adherenceService.Init(adherenceDBService, serviceConf); err != nil {
		slog.Error("Error initializing adherence service", slog.String("error", err.Error()))
		panic(err)
	}
}

func inputsAPIKeys() []string {
	keys := make([]string, 0, len(conf.InputsClients))
	for _, client := range conf.InputsClients {
		if client.APIKey == "" {
			slog.Warn("inputs client without API key", slog.String("client", client.Name))
			continue
		}
		keys = append(keys, client.APIKey)
	}
	return keys
}
