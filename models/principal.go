// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Tenant is the (company, sub-scope) pair all data is partitioned by.
type Tenant struct {
	CompanyID int64 `json:"company_id"`
	ScopeID   int64 `json:"scope_id"`
}

// Principal is the pre-authorized caller of every engine operation.
// It is produced by the transport layer from a verified token; the engine
// itself performs no authorization.
type Principal struct {
	Tenant Tenant
	UserID int64
}
