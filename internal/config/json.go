package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the JSON config file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey string `json:"token_sign_key"`
		TokenIssuer  string `json:"token_issuer"`
		Token        string `json:"token"`
		Version      string `json:"version"`
		LogLevel     string `json:"log_level"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		Redis struct {
			URL string   `json:"url"`
			TTL Duration `json:"ttl"`
		} `json:"redis,omitempty"`
		Local struct {
			Path string `json:"path"`
		} `json:"local,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		GRPCAddress     string   `json:"grpc_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Sync struct {
		MergeRulesFile   string `json:"merge_rules_file"`
		SessionListLimit int    `json:"session_list_limit"`
	} `json:"sync,omitempty"`

	Audit struct {
		WebhookURL    string   `json:"webhook_url"`
		WebhookSecret string   `json:"webhook_secret"`
		QueueSize     int      `json:"queue_size"`
		Timeout       Duration `json:"timeout"`
	} `json:"audit,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SyncInterval Duration `json:"sync_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var c StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&c); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey: c.App.TokenSignKey,
			TokenIssuer:  c.App.TokenIssuer,
			Token:        c.App.Token,
			Version:      c.App.Version,
			LogLevel:     c.App.LogLevel,
		},
		Storage: Storage{
			DB:    DB{DSN: c.Storage.DB.DSN},
			Redis: Redis{URL: c.Storage.Redis.URL, TTL: time.Duration(c.Storage.Redis.TTL)},
			Local: Local{Path: c.Storage.Local.Path},
		},
		Server: Server{
			HTTPAddress:     c.Server.HTTPAddress,
			GRPCAddress:     c.Server.GRPCAddress,
			RequestTimeout:  time.Duration(c.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(c.Server.ShutdownTimeout),
		},
		Sync: Sync{
			MergeRulesFile:   c.Sync.MergeRulesFile,
			SessionListLimit: c.Sync.SessionListLimit,
		},
		Audit: Audit{
			WebhookURL:    c.Audit.WebhookURL,
			WebhookSecret: c.Audit.WebhookSecret,
			QueueSize:     c.Audit.QueueSize,
			Timeout:       time.Duration(c.Audit.Timeout),
		},
		Adapter: Adapter{
			HTTPAddress:    c.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(c.Adapter.RequestTimeout),
		},
		Workers: Workers{
			SyncInterval: time.Duration(c.Workers.SyncInterval),
		},
	}

	return cfg, nil
}

// Duration is a time.Duration that unmarshals from JSON strings like "1h"
// or from a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
