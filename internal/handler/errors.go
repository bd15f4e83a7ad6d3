// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the server config
// enables neither the REST nor the gRPC transport. The sync engine cannot
// serve reconcile calls without one, so startup fails.
var errNoHandlersAreCreated = errors.New("no handlers are created")
