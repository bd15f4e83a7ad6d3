package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds a host and port. It implements flag.Value.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the command-line flags shared by the server and the
// client.
//
// Flags:
//
//	-a server HTTP address in format [host]:[port]
//	-grpc-address server gRPC address in format [host]:[port]
//	-d database DSN
//	-redis Redis URL of the session cache
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer expected token issuer
//	-request-timeout request timeout (e.g. "30s")
//	-merge-rules merge rules JSON file
//	-audit-webhook audit webhook URL
//	-log-level log level
//	-server base URL of the sync engine (client)
//	-outbox outbox database file (client)
//	-token bearer token (client)
//	-sync-interval flush period (client)
func ParseFlags() *StructuredConfig {
	var serverAddress, grpcServerAddress NetAddress
	var databaseDSN, redisURL string
	var jsonConfigPath string
	var tokenSignKey, tokenIssuer, token string
	var requestTimeout, syncInterval time.Duration
	var mergeRules, auditWebhook, logLevel string
	var adapterAddress, outboxPath string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&redisURL, "redis", "", "Redis URL of the session cache")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&mergeRules, "merge-rules", "", "Merge rules JSON file")
	flag.StringVar(&auditWebhook, "audit-webhook", "", "Audit webhook URL")
	flag.StringVar(&logLevel, "log-level", "", "Log level")
	flag.StringVar(&adapterAddress, "server", "", "Sync engine base URL")
	flag.StringVar(&outboxPath, "outbox", "", "Outbox database file")
	flag.StringVar(&token, "token", "", "Bearer token")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Outbox flush period (e.g., 30s)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
			Token:        token,
			LogLevel:     logLevel,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Redis: Redis{URL: redisURL},
			Local: Local{Path: outboxPath},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			MergeRulesFile: mergeRules,
		},
		Audit: Audit{
			WebhookURL: auditWebhook,
		},
		Adapter: Adapter{
			HTTPAddress:    adapterAddress,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SyncInterval: syncInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns host:port, or "" when the address is unset.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses host:port. The host must be "localhost", empty or an IP.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in [1, 65535]")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
