// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// errNoServersAreCreated means the config enabled no transport.
	errNoServersAreCreated = errors.New("no servers are created")

	// errListen wraps a failure to bind a configured address.
	errListen = errors.New("cannot bind listener")
)
