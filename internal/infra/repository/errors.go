package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Advisory lock namespaces (first key of pg_advisory_xact_lock).
const (
	lockAppointments int32 = 1001
	lockAvailability int32 = 1002
	lockDesks        int32 = 1003
	lockDeskSlots    int32 = 1004
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// uniqueViolation reports whether err is a unique violation, and on which
// constraint.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func advisoryLock(tx *gorm.DB, namespace int32, key uint) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", namespace, int32(key)).Error
}
