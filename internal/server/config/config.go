// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the HeroWall server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP API.
//   - EndpointAddrGRPC: bind address for the gRPC health endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - AccessTokenSecret / RefreshTokenSecret: HMAC secrets of the two token
//     kinds. They should differ in production.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - BcryptCost: password hash work factor.
//   - LogLevel: debug, info, warn or error.
//   - AuthRateLimit / AuthRateBurst: per-client limiter for /auth routes.
//     A zero limit disables it.
//   - TrustProxyHeaders: take the client address from X-Forwarded-For /
//     X-Real-IP. Only safe behind a proxy that overwrites them.
//   - S3*: object storage used for card image uploads.
type Config struct {
	EndpointAddrHTTP             string
	EndpointAddrGRPC             string
	DatabaseDSN                  string
	AccessTokenSecret            string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenSecret           string
	RefreshTokenValidityDuration time.Duration
	BcryptCost                   int
	LogLevel                     string
	AuthRateLimit                float64
	AuthRateBurst                int
	TrustProxyHeaders            bool
	S3AccessKey                  string
	S3SecretKey                  string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secrets are insecure and must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.AccessTokenSecret = "access-secret"
	c.AccessTokenValidityDuration = 1 * time.Hour
	c.RefreshTokenSecret = "refresh-secret"
	c.RefreshTokenValidityDuration = 604800 * time.Second
	c.BcryptCost = 12
	c.LogLevel = "info"
	c.AuthRateLimit = 5
	c.AuthRateBurst = 10
	c.TrustProxyHeaders = false
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "herowall"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, then .env and the process environment, and
// finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.EndpointAddrHTTP == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if c.AccessTokenSecret == "" {
		errs = append(errs, errors.New("access token secret is required"))
	}
	if c.RefreshTokenSecret == "" {
		errs = append(errs, errors.New("refresh token secret is required"))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("access token validity must be positive"))
	}
	if c.RefreshTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("refresh token validity must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.AuthRateLimit < 0 {
		errs = append(errs, errors.New("auth rate limit must not be negative"))
	}
	if c.AuthRateLimit > 0 && c.AuthRateBurst < 1 {
		errs = append(errs, errors.New("auth rate burst must be positive when limiting is enabled"))
	}
	return errors.Join(errs...)
}

// SharedTokenSecrets reports whether both token kinds are signed with the
// same secret.
func (c *Config) SharedTokenSecrets() bool {
	return c.AccessTokenSecret == c.RefreshTokenSecret
}
