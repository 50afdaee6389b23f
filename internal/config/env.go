package config

import (
	"os"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret  string
	SessionTTL time.Duration

	// FederatedSecret verifies identity assertions signed by the external
	// auth gateway (the Google sign-in dance terminates there, not here).
	FederatedSecret string
	FederatedIssuer string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	ttl := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			ttl = d
		}
	}

	return Env{
		AppAddr: appAddr,
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: envOr("DB_USER", "root"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: envOr("DB_HOST", "127.0.0.1:3306"),
		DBName: envOr("DB_NAME", "bus"),

		JWTSecret:  envOr("JWT_SECRET", "super-secret-key-change-me"),
		SessionTTL: ttl,

		FederatedSecret: os.Getenv("FEDERATED_SECRET"),
		FederatedIssuer: envOr("FEDERATED_ISSUER", "auth-gateway"),
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
