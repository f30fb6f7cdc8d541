package pg

import "errors"

// Domain-specific errors for consistent handling across the application.
// Use errors.Is to branch on them.
var (
	ErrEmptyConnectionString = errors.New("empty postgres connection string")
	ErrInvalidConnConfig     = errors.New("invalid postgres connection config")
	ErrConnectFailed         = errors.New("failed to connect to postgres")
	ErrMigrationFailed       = errors.New("failed to apply database migrations")
	ErrHealthcheckFailed     = errors.New("postgres healthcheck failed")
)
