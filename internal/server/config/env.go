package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotEnvFile is loaded, if present, before the environment is read.
// Variables already set in the process environment win.
var dotEnvFile = ".env"

// envConfig lists the recognised environment variables. Names follow the
// deployment conventions of the platform (PORT, JWT_*).
type envConfig struct {
	Port                string   `env:"PORT"`
	HTTPAddr            string   `env:"HTTP_ADDR"`
	GRPCAddr            string   `env:"GRPC_ADDR"`
	DatabaseDSN         string   `env:"DATABASE_URL"`
	JWTSecret           string   `env:"JWT_SECRET"`
	JWTExpiresIn        string   `env:"JWT_EXPIRES_IN"`
	JWTRefreshSecret    string   `env:"JWT_REFRESH_SECRET"`
	JWTRefreshExpiresIn string   `env:"JWT_REFRESH_EXPIRES_IN"`
	BcryptCost          int      `env:"BCRYPT_COST"`
	LogLevel            string   `env:"LOG_LEVEL"`
	AuthRateLimit       *float64 `env:"AUTH_RATE_LIMIT"`
	AuthRateBurst       *int     `env:"AUTH_RATE_BURST"`
	TrustProxyHeaders   *bool    `env:"TRUST_PROXY_HEADERS"`
	S3AccessKey         string   `env:"S3_ACCESS_KEY"`
	S3SecretKey         string   `env:"S3_SECRET_KEY"`
	S3Bucket            string   `env:"S3_BUCKET"`
	S3Region            string   `env:"S3_REGION"`
	S3BaseEndpoint      string   `env:"S3_ENDPOINT"`
}

// parseEnv overlays environment variables onto config. Malformed values panic.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Errorf("load %s: %w", dotEnvFile, err))
	}

	var e envConfig
	if err := env.Parse(&e); err != nil {
		panic(fmt.Errorf("parse env: %w", err))
	}

	if e.Port != "" {
		config.EndpointAddrHTTP = ":" + e.Port
	}
	setString(&config.EndpointAddrHTTP, e.HTTPAddr)
	setString(&config.EndpointAddrGRPC, e.GRPCAddr)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.AccessTokenSecret, e.JWTSecret)
	setString(&config.RefreshTokenSecret, e.JWTRefreshSecret)
	setString(&config.LogLevel, e.LogLevel)
	setString(&config.S3AccessKey, e.S3AccessKey)
	setString(&config.S3SecretKey, e.S3SecretKey)
	setString(&config.S3Bucket, e.S3Bucket)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)

	if e.JWTExpiresIn != "" {
		d, err := parseLifetime(e.JWTExpiresIn)
		if err != nil {
			panic(fmt.Errorf("JWT_EXPIRES_IN: %w", err))
		}
		config.AccessTokenValidityDuration = d
	}
	if e.JWTRefreshExpiresIn != "" {
		d, err := parseLifetime(e.JWTRefreshExpiresIn)
		if err != nil {
			panic(fmt.Errorf("JWT_REFRESH_EXPIRES_IN: %w", err))
		}
		config.RefreshTokenValidityDuration = d
	}
	if e.BcryptCost > 0 {
		config.BcryptCost = e.BcryptCost
	}
	setValue(&config.AuthRateLimit, e.AuthRateLimit)
	setValue(&config.AuthRateBurst, e.AuthRateBurst)
	setValue(&config.TrustProxyHeaders, e.TrustProxyHeaders)
}

// parseLifetime accepts a bare integer (seconds), a Go duration ("90m") or a
// whole number of days ("7d").
func parseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid lifetime %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid lifetime %q", s)
	}
	return d, nil
}
