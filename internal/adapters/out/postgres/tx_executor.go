package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

const (
	defaultMaxAttempts = 3
	defaultBaseBackoff = 50 * time.Millisecond
)

// Transient Postgres failures worth retrying: the statement lost a
// serialization or locking race, not a business rule.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateLockNotAvailable     = "55P03"
)

// GormTxExecutor implements ports.TxExecutor on top of the unit of work
// factory. Each attempt runs fn inside a fresh transaction; transient
// database failures abort the transaction and retry with exponential backoff
// until the attempt budget is exhausted, at which point the error is wrapped
// as an operation failure with the cause preserved.
//
// Business errors returned by fn, conflicts included, are not retried: the
// state they were computed against is gone, and the decision to re-read and
// retry belongs to the caller.
type GormTxExecutor struct {
	uowFactory  ports.UnitOfWorkFactory
	maxAttempts int
	baseBackoff time.Duration
	logger      *slog.Logger
}

// NewGormTxExecutor creates an executor with the default retry budget.
func NewGormTxExecutor(uowFactory ports.UnitOfWorkFactory, logger *slog.Logger) *GormTxExecutor {
	if logger == nil {
		logger = slog.Default()
	}

	return &GormTxExecutor{
		uowFactory:  uowFactory,
		maxAttempts: defaultMaxAttempts,
		baseBackoff: defaultBaseBackoff,
		logger:      logger.With("component", "tx_executor"),
	}
}

// Execute runs fn inside one atomic unit of work, retrying transient failures.
func (e *GormTxExecutor) Execute(ctx context.Context, fn func(ctx context.Context, uow ports.UnitOfWork) error) error {
	var lastErr error

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := e.baseBackoff << (attempt - 1)
			e.logger.Warn("retrying transaction after transient failure",
				"attempt", attempt+1, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := e.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		lastErr = err
	}

	return errs.NewOperationFailedError(lastErr)
}

func (e *GormTxExecutor) runOnce(ctx context.Context, fn func(ctx context.Context, uow ports.UnitOfWork) error) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	if err := fn(ctx, uow); err != nil {
		_ = uow.Rollback(ctx)
		return err
	}

	return uow.Commit(ctx)
}

// isTransient reports whether the error is a Postgres failure that a retry
// on a fresh transaction can resolve.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case sqlstateSerializationFailure, sqlstateDeadlockDetected, sqlstateLockNotAvailable:
		return true
	default:
		return false
	}
}
