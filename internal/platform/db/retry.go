package db

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	retryAttempts  = 3
	retryBaseDelay = 100 * time.Millisecond
)

// Retry runs op up to three times, doubling the wait between attempts. Only
// errors that look transient (connection failures, timeouts, server-side
// connection exceptions) are retried; everything else, including not-found
// and constraint violations, returns immediately. Operations already inside
// a transaction are never retried here: a failed transaction cannot be
// resumed mid-flight, so the caller must restart it whole.
func Retry(ctx context.Context, op func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return op(ctx)
	}

	delay := retryBaseDelay
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}

		err = op(ctx)
		if err == nil || !IsTransient(err) {
			return err
		}
	}
	return err
}

// IsTransient reports whether an error is worth retrying. Context
// cancellation is terminal even when the underlying cause was a timeout.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	// Class 08 is the server's connection-exception family.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08")
	}
	return false
}
