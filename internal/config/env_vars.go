package config

import (
	"os"
	"strings"
)

const (
	appNameVar = "APP_NAME"
	envVar     = "ENV"
)

type EnvVars struct {
	AppName   string `mapstructure:"name"`
	Env       string `mapstructure:"env"`
	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

var _ EnvConfig = EnvVars{}

func defaultEnvVars() EnvVars {
	return EnvVars{
		AppName:  GetEnv(appNameVar, "Events Client"),
		Env:      GetEnv(envVar, "DEV"),
		LogLevel: "info",
	}
}

func (e EnvVars) GetAppName() string {
	if e.AppName == "" {
		return GetEnv(appNameVar, "Events Client")
	}
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.Env)
}

func (e EnvVars) GetLogLevel() string {
	if e.LogLevel == "" {
		return "info"
	}
	return e.LogLevel
}

// GetLogPretty reports whether console output is requested. DEV always logs pretty.
func (e EnvVars) GetLogPretty() bool {
	return e.LogPretty || e.GetEnv() == "DEV"
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
