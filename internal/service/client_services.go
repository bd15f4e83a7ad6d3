package service

import (
	"github.com/MKhiriev/go-sync-keeper/internal/adapter"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/store"
	"github.com/MKhiriev/go-sync-keeper/internal/utils"
)

type ClientServices struct {
	SyncService     ClientSyncService
	ConflictService ClientConflictService
	SyncJob         ClientSyncJob
}

func NewClientServices(outbox store.Outbox, serverAdapter adapter.ServerAdapter, logger *logger.Logger) *ClientServices {
	syncSvc := NewClientSyncService(outbox, serverAdapter, utils.NewUUIDGenerator(), logger)

	return &ClientServices{
		SyncService:     syncSvc,
		ConflictService: NewClientConflictService(outbox, serverAdapter, logger),
		SyncJob:         NewClientSyncJob(syncSvc, logger),
	}
}
