package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "EVENTS"

type fileConfig struct {
	App     EnvVars `mapstructure:"app"`
	API     API     `mapstructure:"api"`
	Session Session `mapstructure:"session"`
	Storage Storage `mapstructure:"storage"`
}

// Load reads an optional .env file and an optional YAML config file, then
// overlays EVENTS_* environment variables (EVENTS_API_BASE_URL, ...).
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var pathErr *fs.PathError
			if !errors.As(err, &pathErr) {
				return nil, fmt.Errorf("config.Load ReadInConfig: %w", err)
			}
		}
	}

	env := defaultEnvVars()
	v.SetDefault("app.name", env.AppName)
	v.SetDefault("app.env", env.Env)
	v.SetDefault("app.log_level", env.LogLevel)
	v.SetDefault("app.log_pretty", false)

	api := defaultAPI()
	v.SetDefault("api.base_url", api.BaseURL)
	v.SetDefault("api.timeout", api.Timeout.String())
	v.SetDefault("api.user_agent", api.UserAgent)
	v.SetDefault("api.breaker_enabled", false)
	v.SetDefault("api.breaker_max_failures", api.BreakerMaxFailures)
	v.SetDefault("api.breaker_open_timeout", api.BreakerOpenTimeout.String())

	session := defaultSession()
	v.SetDefault("session.ttl", session.TTL.String())
	v.SetDefault("session.admin_dashboard", session.AdminDashboard)
	v.SetDefault("session.organizer_dashboard", session.OrganizerDashboard)

	storage := defaultStorage()
	v.SetDefault("storage.driver", storage.Driver)
	v.SetDefault("storage.file_path", storage.FilePath)
	v.SetDefault("storage.secret", "")
	v.SetDefault("storage.redis_addr", storage.RedisAddr)
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.redis_prefix", storage.RedisPrefix)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("config.Load Unmarshal: %w", err)
	}

	cfg := mainConfig{
		EnvVars: fc.App,
		API:     fc.API,
		Session: fc.Session,
		Storage: fc.Storage,
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg mainConfig) error {
	u, err := url.Parse(cfg.GetBaseURL())
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q", cfg.GetBaseURL())
	}

	switch cfg.GetStorageDriver() {
	case StorageDriverMemory, StorageDriverRedis:
	case StorageDriverFile:
		if cfg.GetStorageFilePath() == "" {
			return errors.New("storage.file_path is required for the file driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", cfg.GetStorageDriver())
	}
	return nil
}
