package config

import (
	"strings"
	"time"
)

type API struct {
	BaseURL            string        `mapstructure:"base_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	UserAgent          string        `mapstructure:"user_agent"`
	BreakerEnabled     bool          `mapstructure:"breaker_enabled"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `mapstructure:"breaker_open_timeout"`
}

var _ APIConfig = API{}

func defaultAPI() API {
	return API{
		BaseURL:            "http://localhost:8080/api",
		Timeout:            10 * time.Second,
		UserAgent:          "go-events-client",
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: 30 * time.Second,
	}
}

// GetBaseURL returns the backend API root without a trailing slash (e.g. "http://localhost:8080/api")
func (a API) GetBaseURL() string {
	return strings.TrimRight(a.BaseURL, "/")
}

func (a API) GetRequestTimeout() time.Duration {
	if a.Timeout <= 0 {
		return 10 * time.Second
	}
	return a.Timeout
}

func (a API) GetUserAgent() string {
	return a.UserAgent
}

func (a API) GetBreakerEnabled() bool {
	return a.BreakerEnabled
}

func (a API) GetBreakerMaxFailures() uint32 {
	if a.BreakerMaxFailures == 0 {
		return 5
	}
	return a.BreakerMaxFailures
}

func (a API) GetBreakerOpenTimeout() time.Duration {
	if a.BreakerOpenTimeout <= 0 {
		return 30 * time.Second
	}
	return a.BreakerOpenTimeout
}
