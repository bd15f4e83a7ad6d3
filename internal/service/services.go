package service

import (
	"fmt"

	"github.com/MKhiriev/go-sync-keeper/internal/config"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/merge"
	"github.com/MKhiriev/go-sync-keeper/internal/store"
	"github.com/MKhiriev/go-sync-keeper/internal/utils"
	"github.com/MKhiriev/go-sync-keeper/models"
)

type Services struct {
	ReconcileService ReconcileService
	ConflictService  ConflictService
	SessionService   SessionService
	AppInfoService   AppInfoService
	AuthService      AuthService
}

// NewServices wires the engine services over storages. The merge rules are
// the built-in registry, overridden per entity type by
// cfg.Sync.MergeRulesFile when set.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, build models.AppBuildInfo, audit AuditEmitter, logger *logger.Logger) (*Services, error) {
	registry := merge.DefaultRegistry()
	if cfg.Sync.MergeRulesFile != "" {
		loaded, err := merge.LoadRegistry(cfg.Sync.MergeRulesFile, registry)
		if err != nil {
			return nil, fmt.Errorf("load merge rules: %w", err)
		}
		registry = loaded
		logger.Info().
			Str("file", cfg.Sync.MergeRulesFile).
			Int("entity_types", len(registry.EntityTypes())).
			Msg("merge rules loaded")
	}
	resolver := merge.NewResolver(registry)

	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	reconcile := NewReconcileValidationService().
		Wrap(NewReconcileService(storages.Sessions, storages.Items, resolver, audit, utils.NewUUIDGenerator(), logger))

	return &Services{
		ReconcileService: reconcile,
		ConflictService:  NewConflictValidationService(NewConflictService(storages.Sessions, storages.Items, resolver, audit, logger)),
		SessionService:   NewSessionService(storages.Sessions, storages.Items, cfg.Sync, logger),
		AppInfoService:   appInfo,
		AuthService:      NewAuthService(cfg.App, logger),
	}, nil
}
