package config

import (
	"time"

	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/identity"
)

// IdentityConfig holds the configuration for the external identity provider.
// Provider selects the implementation: "rest" for the hosted provider,
// "memory" for local development and tests.
type IdentityConfig struct {
	Provider   string        `env:"IDENTITY_PROVIDER" env-default:"rest"`
	BaseURL    string        `env:"IDENTITY_BASE_URL" env-default:"http://localhost:9999/auth/v1"`
	ServiceKey string        `env:"IDENTITY_SERVICE_KEY"`
	Timeout    time.Duration `env:"IDENTITY_TIMEOUT" env-default:"15s"`
}

// ToRESTConfig converts the config to an identity.RESTConfig
func (i IdentityConfig) ToRESTConfig() identity.RESTConfig {
	return identity.RESTConfig{
		BaseURL:    i.BaseURL,
		ServiceKey: i.ServiceKey,
		Timeout:    i.Timeout,
	}
}
