package db

import (
	"fmt"
	"log/slog"
)

// DBConfig is the resolved connection config handed to the DB services.
type DBConfig struct {
	URI          string
	DBNamePrefix string
	// seconds
	Timeout         int
	NoCursorTimeout bool
	MaxPoolSize     uint64
	// seconds
	IdleConnTimeout  int
	InstanceIDs      []string
	RunIndexCreation bool
}

// DBConfigYaml is the db section of a service or job config file.
// Username and password are usually injected from the environment.
type DBConfigYaml struct {
	ConnectionStr      string `yaml:"connection_str"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	ConnectionPrefix   string `yaml:"connection_prefix"`
	Timeout            int    `yaml:"timeout"`
	IdleConnTimeout    int    `yaml:"idle_conn_timeout"`
	MaxPoolSize        int    `yaml:"max_pool_size"`
	UseNoCursorTimeout bool   `yaml:"use_no_cursor_timeout"`
	DBNamePrefix       string `yaml:"db_name_prefix"`
	RunIndexCreation   bool   `yaml:"run_index_creation"`
}

// DBConfigFromYamlObj builds the connection config from the yaml section of a service config.
func DBConfigFromYamlObj(yamlObj DBConfigYaml, instanceIDs []string) DBConfig {
	if yamlObj.ConnectionStr == "" || yamlObj.Username == "" || yamlObj.Password == "" {
		slog.Error("couldn't read DB credentials", slog.String("connectionStr", yamlObj.ConnectionStr))
		panic("couldn't read DB credentials")
	}

	maxPoolSize := yamlObj.MaxPoolSize
	if maxPoolSize < 0 {
		maxPoolSize = 0
	}

	return DBConfig{
		URI:              BuildConnectionURI(yamlObj.ConnectionPrefix, yamlObj.Username, yamlObj.Password, yamlObj.ConnectionStr),
		DBNamePrefix:     yamlObj.DBNamePrefix,
		Timeout:          yamlObj.Timeout,
		IdleConnTimeout:  yamlObj.IdleConnTimeout,
		MaxPoolSize:      uint64(maxPoolSize),
		NoCursorTimeout:  yamlObj.UseNoCursorTimeout,
		InstanceIDs:      instanceIDs,
		RunIndexCreation: yamlObj.RunIndexCreation,
	}
}

// BuildConnectionURI - prefix is e.g. "+srv", or empty for a plain host list
func BuildConnectionURI(prefix string, username string, password string, connectionStr string) string {
	return fmt.Sprintf(`mongodb%s://%s:%s@%s`, prefix, username, password, connectionStr)
}
