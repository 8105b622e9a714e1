package main

import (
	"log/slog"
	"os"

	"github.com/case-framework/study-adherence/pkg/db"
	"github.com/case-framework/study-adherence/pkg/utils"
	"gopkg.in/yaml.v2"

	adherenceService "github.com/case-framework/study-adherence/pkg/adherence"
	adherenceDB "github.com/case-framework/study-adherence/pkg/db/adherence"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_STUDY_DB_USERNAME = "STUDY_DB_USERNAME"
	ENV_STUDY_DB_PASSWORD = "STUDY_DB_PASSWORD"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// DB configs
	DBConfigs struct {
		StudyDB db.DBConfigYaml `json:"study_db" yaml:"study_db"`
	} `json:"db_configs" yaml:"db_configs"`

	InstanceIDs []string `json:"instance_ids" yaml:"instance_ids"`

	RefreshConfig struct {
		// empty: all active studies of the instance
		StudyKeys          []string `json:"study_keys" yaml:"study_keys"`
		Timeout            string   `json:"timeout" yaml:"timeout"`
		RemoveStaleReports bool     `json:"remove_stale_reports" yaml:"remove_stale_reports"`
		ReportCacheTTL     string   `json:"report_cache_ttl" yaml:"report_cache_ttl"`
		DefaultTimeZone    string   `json:"default_time_zone" yaml:"default_time_zone"`
	} `json:"refresh_config" yaml:"refresh_config"`
}

var conf config

var (
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

	// init db
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
}

func initDBs() {
	var err error
	adherenceDBService, err = adherenceDB.NewAdherenceDBService(db.DBConfigFromYamlObj(conf.DBConfigs.StudyDB, conf.InstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Study DB", slog.String("error", err.Error()))
		panic(err)
	}
}

func initAdherenceService() {
	serviceConf := adherenceService.Config{
		CacheReports:    true,
		DefaultTimeZone: conf.RefreshConfig.DefaultTimeZone,
	}

	if conf.RefreshConfig.ReportCacheTTL != "" {
		ttl, err := utils.ParseDurationString(conf.RefreshConfig.ReportCacheTTL)
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
