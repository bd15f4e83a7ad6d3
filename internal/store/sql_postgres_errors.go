package store

import (
	"github.com/jackc/pgerrcode"
)

// ErrorClassification tells whether a failed statement may be retried.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

// ErrorClassificator classifies driver errors for DB.withRetry.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// retryableCodes: lost connections (class 08), transaction rollbacks
// including serialization failures and deadlocks (class 40), and a server
// that is still starting up.
var retryableCodes = map[string]struct{}{
	pgerrcode.ConnectionException:    {},
	pgerrcode.ConnectionDoesNotExist: {},
	pgerrcode.ConnectionFailure:      {},
	pgerrcode.TransactionRollback:    {},
	pgerrcode.SerializationFailure:   {},
	pgerrcode.DeadlockDetected:       {},
	pgerrcode.CannotConnectNow:       {},
}

// PostgresErrorClassifier classifies pgx errors by SQLSTATE. Anything that
// is not a *pgconn.PgError is [NonRetryable].
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if _, ok := retryableCodes[postgresError(err)]; ok {
		return Retryable
	}
	return NonRetryable
}
