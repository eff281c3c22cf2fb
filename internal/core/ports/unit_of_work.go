package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. It provides
// transaction control plus repository accessors bound to the current
// transaction, so that multi-aggregate writes (order + inventory,
// order + courier) commit or roll back atomically.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// CourierRepository returns a CourierRepository bound to the current transaction.
	CourierRepository() CourierRepository

	// ProductInventory returns the inventory collaborator bound to the current transaction.
	ProductInventory() ProductInventory

	// VendorDirectory returns the vendor collaborator bound to the current transaction.
	VendorDirectory() VendorDirectory

	// CustomerDirectory returns the customer collaborator bound to the current transaction.
	CustomerDirectory() CustomerDirectory
}

// TxExecutor runs a function inside one atomic unit of work with
// retry-on-conflict semantics. The executor begins a transaction, invokes fn,
// and commits; transient infrastructure failures (write conflicts, deadlocks)
// trigger an abort-and-retry with exponential backoff up to a bounded attempt
// count. Non-transient errors abort once and propagate immediately.
//
// On success every write performed through the unit of work is durable and
// atomically visible; on retry exhaustion none are, and the error is wrapped
// as an operation-failed error preserving the cause.
type TxExecutor interface {
	Execute(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
