package config

import "time"

// JWTConfig holds JWT authentication configuration for the admin API
type JWTConfig struct {
	Secret      string        `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	TokenExpiry time.Duration `env:"JWT_TOKEN_EXPIRY" env-default:"12h"`
	Issuer      string        `env:"JWT_ISSUER" env-default:"meri-fitness"`
	Audience    string        `env:"JWT_AUDIENCE" env-default:"meri-fitness-admin"`
}
