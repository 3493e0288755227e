package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
)

// MapError maps storage failures onto the apierr taxonomy. Errors that already
// carry a kind pass through untouched.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierr.New(apierr.KindNotFound, op, "not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apierr.StoreConflict(op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apierr.Internal(op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505", "40001", "40P01", "55P03":
			// unique_violation, serialization_failure, deadlock_detected, lock_not_available
			return apierr.StoreConflict(op, err)
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint failed"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "could not serialize"):
		return apierr.StoreConflict(op, err)
	default:
		return apierr.Internal(op, err)
	}
}
