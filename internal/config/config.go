// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// StructuredConfig is the top-level configuration of the sync engine server
// and the reference client. It is assembled from environment variables
// (optionally seeded from a .env file), command-line flags, an optional JSON
// file and built-in defaults.
type StructuredConfig struct {
	// App holds token settings, the build version and the log level.
	App App `envPrefix:"APP_"`

	// Storage holds the PostgreSQL DSN, the optional Redis session cache and
	// the client's local outbox path.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the HTTP and gRPC listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Sync holds reconciliation settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Audit holds settings of the asynchronous audit emitter.
	Audit Audit `envPrefix:"AUDIT_"`

	// Adapter holds the client's connection settings to the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background worker settings of the client.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: CONFIG, flags: -c / -config.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level settings.
type App struct {
	// TokenSignKey is the HMAC key used to verify bearer tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer, when set, must match the "iss" claim of every token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// Token is the bearer token presented by the reference client.
	// Env: APP_TOKEN
	Token string `env:"TOKEN"`

	// Version is exposed via /api/version/.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the persistence settings.
type Storage struct {
	// DB holds the PostgreSQL connection settings.
	DB DB `envPrefix:"DB_"`

	// Redis holds the session cache settings.
	Redis Redis `envPrefix:"REDIS_"`

	// Local holds the client outbox settings.
	Local Local `envPrefix:"LOCAL_"`
}

// DB holds connection settings for PostgreSQL.
type DB struct {
	// DSN is the PostgreSQL connection string. An empty DSN selects the
	// in-memory store.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Redis holds the optional session cache settings.
type Redis struct {
	// URL is a redis:// URL. Empty disables the cache.
	// Env: STORAGE_REDIS_URL
	URL string `env:"URL"`

	// TTL bounds how long a cached session is served.
	// Env: STORAGE_REDIS_TTL
	TTL time.Duration `env:"TTL"`
}

// Local holds the client's SQLite outbox settings.
type Local struct {
	// Path is the SQLite database file of the outbox.
	// Env: STORAGE_LOCAL_PATH
	Path string `env:"PATH"`
}

// Server holds network and timeout settings for the inbound transports.
type Server struct {
	// HTTPAddress is the host:port of the HTTP listener.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the host:port of the gRPC listener. Empty disables gRPC.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds the graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Sync holds reconciliation settings.
type Sync struct {
	// MergeRulesFile is an optional JSON file overriding the built-in merge
	// rules per entity type.
	// Env: SYNC_MERGE_RULES_FILE
	MergeRulesFile string `env:"MERGE_RULES_FILE"`

	// SessionListLimit is the default page size of the session listing.
	// Env: SYNC_SESSION_LIST_LIMIT
	SessionListLimit int `env:"SESSION_LIST_LIMIT"`
}

// Audit holds settings of the audit emitter.
type Audit struct {
	// WebhookURL receives every audit event as a JSON POST. Empty keeps
	// events in the log only.
	// Env: AUDIT_WEBHOOK_URL
	WebhookURL string `env:"WEBHOOK_URL"`

	// WebhookSecret signs webhook bodies (HMAC-SHA256, X-Signature header).
	// Env: AUDIT_WEBHOOK_SECRET
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// QueueSize is the capacity of the in-process event queue.
	// Env: AUDIT_QUEUE_SIZE
	QueueSize int `env:"QUEUE_SIZE"`

	// Timeout bounds a single webhook delivery.
	// Env: AUDIT_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Adapter holds the client's connection settings.
type Adapter struct {
	// HTTPAddress is the base URL of the sync engine.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds client background worker settings.
type Workers struct {
	// SyncInterval is the period of the outbox flush worker.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// MaxSessionListLimit caps the page size of the session listing.
const MaxSessionListLimit = 100

// GetStructuredConfig loads and validates the server configuration. For each
// field the first non-zero value wins, in this order:
//  1. Environment variables (.env values do not override the real environment)
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withDotEnv().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
	if err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

// ClientConfig is the configuration view used by the reference client.
type ClientConfig struct {
	App     App
	Adapter Adapter
	Local   Local
	Workers Workers
}

// GetClientConfig loads the shared configuration sources and returns the
// validated client view.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withDotEnv().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.Client()
	return clientCfg, clientCfg.validate()
}

// Client maps the fields relevant to the reference client.
func (cfg *StructuredConfig) Client() *ClientConfig {
	return &ClientConfig{
		App:     cfg.App,
		Adapter: cfg.Adapter,
		Local:   cfg.Storage.Local,
		Workers: cfg.Workers,
	}
}
