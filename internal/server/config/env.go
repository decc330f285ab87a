package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment parsing. Pointer fields
// distinguish "unset" from zero values so the overlay never clobbers an
// earlier layer with an empty default.
type envConfig struct {
	EndpointAddrHTTP             *string        `env:"MANANA_ADDRESS"`
	DatabaseDSN                  *string        `env:"MANANA_DATABASE_DSN"`
	SecretKey                    *string        `env:"MANANA_SECRET_KEY"`
	AccessTokenValidityDuration  *time.Duration `env:"MANANA_ACCESS_TOKEN_VALIDITY"`
	RefreshTokenValidityDuration *time.Duration `env:"MANANA_REFRESH_TOKEN_VALIDITY"`
	QueryTimeout                 *time.Duration `env:"MANANA_QUERY_TIMEOUT"`
	CORSAllowedOrigin            *string        `env:"MANANA_CORS_ALLOWED_ORIGIN"`
}

func parseEnv(config *Config) {
	e := envConfig{}
	if err := env.Parse(&e); err != nil {
		panic(err)
	}

	if e.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *e.EndpointAddrHTTP
	}
	if e.DatabaseDSN != nil {
		config.DatabaseDSN = *e.DatabaseDSN
	}
	if e.SecretKey != nil {
		config.SecretKey = *e.SecretKey
	}
	if e.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = *e.AccessTokenValidityDuration
	}
	if e.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = *e.RefreshTokenValidityDuration
	}
	if e.QueryTimeout != nil {
		config.QueryTimeout = *e.QueryTimeout
	}
	if e.CORSAllowedOrigin != nil {
		config.CORSAllowedOrigin = *e.CORSAllowedOrigin
	}
}
