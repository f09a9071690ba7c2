package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"tablebook/internal/infra/postgres"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/commands"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

func NewPostgresUoW(pool *pgxpool.Pool, loc *time.Location) commands.UnitOfWork {
	return &PostgresUoW{pool: pool, loc: loc}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx commands.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Serializable isolation makes concurrent check-then-insert flows safe; the
// losing transaction fails with a serialization error and is retried here.
func (u *PostgresUoW) WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx commands.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx commands.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx, loc: u.loc}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a simple calculation if crypto/rand fails
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx postgres.DBTX
	loc  *time.Location

	// Lazy-initialized repositories
	reservationRepo commands.ReservationRepository
	historyRepo     commands.HistoryRepository
	settingsRepo    commands.SettingsRepository
	blockedRepo     commands.BlockedTimeRepository
	tableRepo       commands.TableRepository
	hoursRepo       commands.HoursRepository
}

func (t *pgTx) Reservations() commands.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = postgres.NewReservationRepository(t.dbtx, t.loc)
	}
	return t.reservationRepo
}

func (t *pgTx) History() commands.HistoryRepository {
	if t.historyRepo == nil {
		t.historyRepo = postgres.NewHistoryRepository(t.dbtx)
	}
	return t.historyRepo
}

func (t *pgTx) Settings() commands.SettingsRepository {
	if t.settingsRepo == nil {
		t.settingsRepo = postgres.NewSettingsRepository(t.dbtx)
	}
	return t.settingsRepo
}

func (t *pgTx) BlockedTimes() commands.BlockedTimeRepository {
	if t.blockedRepo == nil {
		t.blockedRepo = postgres.NewBlockedTimeRepository(t.dbtx)
	}
	return t.blockedRepo
}

func (t *pgTx) Tables() commands.TableRepository {
	if t.tableRepo == nil {
		t.tableRepo = postgres.NewTableRepository(t.dbtx)
	}
	return t.tableRepo
}

func (t *pgTx) Hours() commands.HoursRepository {
	if t.hoursRepo == nil {
		t.hoursRepo = postgres.NewHoursRepository(t.dbtx)
	}
	return t.hoursRepo
}
