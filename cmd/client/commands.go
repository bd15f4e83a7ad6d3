package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/MKhiriev/go-sync-keeper/internal/adapter"
	"github.com/MKhiriev/go-sync-keeper/internal/config"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/service"
	"github.com/MKhiriev/go-sync-keeper/internal/utils"
	"github.com/MKhiriev/go-sync-keeper/internal/workers"
	"github.com/MKhiriev/go-sync-keeper/models"
)

var errUsage = errors.New("invalid command usage")

const (
	defaultTokenTTL    = 24 * time.Hour
	defaultTokenIssuer = "sync-client-dev"
)

type clientApp struct {
	services *service.ClientServices
	adapter  adapter.ServerAdapter
	workers  config.Workers
	build    [3]string

	out    io.Writer
	logger *logger.Logger
}

func (a *clientApp) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "enqueue":
		return a.enqueue(ctx, args)
	case "outbox":
		status := models.OutboxPending
		if len(args) > 0 {
			status = models.OutboxStatus(args[0])
		}
		entries, err := a.services.SyncService.Outbox(ctx, status)
		if err != nil {
			return err
		}
		return a.print(entries)
	case "flush":
		report, err := a.services.SyncService.Flush(ctx)
		if err != nil {
			return err
		}
		return a.print(report)
	case "run":
		return a.runSync(ctx)
	case "sessions":
		limit := 0
		if len(args) > 0 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: limit: %w", errUsage, err)
			}
			limit = parsed
		}
		list, err := a.services.ConflictService.Sessions(ctx, limit)
		if err != nil {
			return err
		}
		return a.print(list)
	case "session":
		sessionID, err := a.sessionArg(ctx, args, 0)
		if err != nil {
			return err
		}
		details, err := a.services.ConflictService.Session(ctx, sessionID)
		if err != nil {
			return err
		}
		return a.print(details)
	case "diff":
		return a.diff(ctx, args)
	case "resolve":
		return a.resolve(ctx, args)
	case "version":
		version, err := a.adapter.GetVersion(ctx)
		if err != nil {
			return err
		}
		return a.print(map[string]string{
			"server":        version,
			"client":        a.build[0],
			"client_date":   a.build[1],
			"client_commit": a.build[2],
		})
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func (a *clientApp) enqueue(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errUsage
	}

	var data models.Payload
	if err := json.Unmarshal([]byte(args[2]), &data); err != nil {
		return fmt.Errorf("%w: data must be a JSON object: %w", errUsage, err)
	}

	mutation := models.Mutation{
		EntityType: models.EntityType(args[0]),
		EntityID:   args[1],
		Data:       data,
	}
	if len(args) > 3 {
		mutation.ClientTimestamp = &args[3]
	}

	return a.services.SyncService.Enqueue(ctx, mutation)
}

// runSync flushes once, then keeps flushing on the configured interval
// until ctx is cancelled.
func (a *clientApp) runSync(ctx context.Context) error {
	report, err := a.services.SyncService.Flush(ctx)
	if err != nil {
		a.logger.Err(err).Str("func", "clientApp.runSync").Msg("initial flush failed")
	} else if err = a.print(report); err != nil {
		return err
	}

	workers.NewWorkers(workers.WorkerFunc(func(ctx context.Context) {
		a.services.SyncJob.Start(ctx, a.workers.SyncInterval)
		<-ctx.Done()
		a.services.SyncJob.Stop()
	})).Run(ctx)

	return nil
}

func (a *clientApp) diff(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	sessionID, err := a.sessionArg(ctx, args, 1)
	if err != nil {
		return err
	}

	diff, err := a.services.ConflictService.Diff(ctx, sessionID, args[0], nil)
	if err != nil {
		return err
	}
	return a.print(diff)
}

func (a *clientApp) resolve(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}

	var resolution map[string]models.Side
	if err := json.Unmarshal([]byte(args[1]), &resolution); err != nil {
		return fmt.Errorf("%w: resolution must map fields to sides: %w", errUsage, err)
	}

	sessionID, err := a.sessionArg(ctx, args, 2)
	if err != nil {
		return err
	}

	resp, err := a.services.ConflictService.Resolve(ctx, sessionID, args[0], models.ResolveRequest{Resolution: resolution})
	if err != nil {
		return err
	}
	return a.print(resp)
}

// sessionArg returns args[i], defaulting to the session of the last flush.
func (a *clientApp) sessionArg(ctx context.Context, args []string, i int) (string, error) {
	if len(args) > i {
		return args[i], nil
	}

	sessionID, err := a.services.SyncService.LastSessionID(ctx)
	if err != nil {
		return "", err
	}
	if sessionID == "" {
		return "", fmt.Errorf("%w: no session id given and nothing flushed yet", errUsage)
	}
	return sessionID, nil
}

func (a *clientApp) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// mintToken prints a signed development token for the given principal.
func mintToken(cfg config.App, args []string) error {
	if len(args) < 3 {
		return errUsage
	}

	ids := make([]int64, 3)
	for i := range ids {
		parsed, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		ids[i] = parsed
	}

	ttl := defaultTokenTTL
	if len(args) > 3 {
		parsed, err := time.ParseDuration(args[3])
		if err != nil {
			return fmt.Errorf("%w: ttl: %w", errUsage, err)
		}
		ttl = parsed
	}

	principal := models.Principal{
		Tenant: models.Tenant{CompanyID: ids[0], ScopeID: ids[1]},
		UserID: ids[2],
	}
	issuer := cfg.TokenIssuer
	if issuer == "" {
		issuer = defaultTokenIssuer
	}
	token, err := utils.GenerateJWTToken(issuer, principal, ttl, cfg.TokenSignKey)
	if err != nil {
		return err
	}

	fmt.Println(token.SignedString)
	return nil
}
