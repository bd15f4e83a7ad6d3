// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks the merged server configuration before startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: http address is required", ErrInvalidServerConfigs)
	}

	if cfg.Sync.SessionListLimit < 1 || cfg.Sync.SessionListLimit > MaxSessionListLimit {
		return fmt.Errorf("%w: session list limit must be in [1, %d]", ErrInvalidSyncConfigs, MaxSessionListLimit)
	}

	if cfg.Audit.QueueSize < 1 {
		return fmt.Errorf("%w: queue size must be positive", ErrInvalidAuditConfigs)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Local.Path == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.Token == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
