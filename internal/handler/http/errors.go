// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"strconv"
)

// Request errors answered directly by the transport, before any service runs.
var (
	ErrEmptyAuthorizationHeader   = errors.New("missing Authorization header")
	ErrInvalidAuthorizationHeader = errors.New("authorization header must be `Bearer <token>`")
	ErrInvalidLimit               = errors.New("limit must be a non-negative integer")
)

// parseLimit reads the optional ?limit= of the session listing. An absent
// value is zero, which the session service turns into its default page size.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLimit, raw)
	}
	return limit, nil
}
