package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	uniqueViolationCode = "23505"
	// raised for an id that is not a valid uuid
	invalidTextRepresentationCode = "22P02"
)

// uniqueViolation reports the constraint name of a Postgres unique violation.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return pqErr.Constraint, true
	}
	return "", false
}

// noRow reports whether a lookup found nothing. A malformed id can never
// match a row, so it counts as missing too.
func noRow(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentationCode
}
