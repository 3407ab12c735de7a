// Package storage defines the persistence interfaces of sweep runs and their
// background jobs, together with transaction handling, so that a backend such
// as PostgreSQL can be swapped for mocks in service tests.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go
package storage

import "context"

// AllStorage bundles every capability a service may use, inside or outside a
// transaction.
type AllStorage interface {
	RunStorage
	JobStorage
}

// TxStorage is a storage handle bound to an open transaction. It becomes
// unusable after Commit or Rollback.
type TxStorage interface {
	AllStorage

	// Commit persists all changes of the transaction.
	Commit() error
	// Rollback discards all changes of the transaction.
	Rollback() error
}

// Storage is the root, non-transactional storage handle.
type Storage interface {
	AllStorage

	// Close releases the underlying connection pool.
	Close() error

	// Begin starts a new transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx runs cb inside a transaction, committing when cb returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
