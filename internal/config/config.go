package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
	StorageConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetLogPretty() bool
}

type APIConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
	GetUserAgent() string
	GetBreakerEnabled() bool
	GetBreakerMaxFailures() uint32
	GetBreakerOpenTimeout() time.Duration
}

type SessionConfig interface {
	GetSessionTTL() time.Duration
	GetOrganizerDashboard() string
	GetAdminDashboard() string
}

type StorageConfig interface {
	GetStorageDriver() string
	GetStorageFilePath() string
	GetStorageSecret() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

type mainConfig struct {
	EnvVars
	API
	Session
	Storage
}

// New returns a configuration populated with defaults only.
func New() Config {
	return mainConfig{
		EnvVars: defaultEnvVars(),
		API:     defaultAPI(),
		Session: defaultSession(),
		Storage: defaultStorage(),
	}
}
