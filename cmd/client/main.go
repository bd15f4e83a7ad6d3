package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-sync-keeper/internal/adapter"
	"github.com/MKhiriev/go-sync-keeper/internal/config"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/service"
	"github.com/MKhiriev/go-sync-keeper/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const usage = `usage: sync-client [flags] <command> [args]

commands:
  enqueue <entity_type> <entity_id> <data-json> [client_timestamp]
  outbox [pending|conflict|failed]
  flush
  run
  sessions [limit]
  session [session_id]
  diff <item_id> [session_id]
  resolve <item_id> <resolution-json> [session_id]
  version
  mint-token <company_id> <scope_id> <user_id> [ttl]
`

func main() {
	cfg, err := config.GetClientConfig()
	if cfg == nil {
		logger.NewLogger("sync-client", logger.WithOutput(os.Stderr)).Fatal().Err(err).Msg("error getting configs")
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command, args := args[0], args[1:]

	log := logger.NewLogger("sync-client", logger.WithLevel(cfg.App.LogLevel), logger.WithOutput(os.Stderr))

	// mint-token is a local helper and needs no server connection settings
	if command == "mint-token" {
		if err != nil && !errors.Is(err, config.ErrInvalidAppConfigs) {
			log.Fatal().Err(err).Msg("error getting configs")
		}
		if err = mintToken(cfg.App, args); err != nil {
			log.Fatal().Err(err).Msg("mint token")
		}
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	localStorage, err := store.NewClientStorages(ctx, cfg.Local, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer localStorage.Close()

	app := &clientApp{
		services: service.NewClientServices(localStorage.Outbox, serverAdapter, log),
		adapter:  serverAdapter,
		workers:  cfg.Workers,
		build:    [3]string{buildVersion, buildDate, buildCommit},
		out:      os.Stdout,
		logger:   log,
	}

	if err = app.run(ctx, command, args); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		log.Error().Err(err).Str("command", command).Msg("command failed")
		localStorage.Close()
		os.Exit(1)
	}
}
