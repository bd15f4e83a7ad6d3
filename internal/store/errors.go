package store

import "errors"

// Sentinel errors returned by repository methods. Callers match them with
// [errors.Is].
var (
	// ErrSessionNotFound is returned when no session matches the id within
	// the caller's tenant and user.
	ErrSessionNotFound = errors.New("sync session was not found")

	// ErrItemNotFound is returned when no item matches the lookup.
	ErrItemNotFound = errors.New("sync item was not found")

	// ErrOutboxEntryNotFound is returned when an outbox entry id is unknown.
	ErrOutboxEntryNotFound = errors.New("outbox entry was not found")

	// ErrStateNotFound is returned when a client state key was never stored.
	ErrStateNotFound = errors.New("client state was not found")
)

// Low-level database operation errors, wrapped together with the driver
// error.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT, UPDATE or
	// DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a result set fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
