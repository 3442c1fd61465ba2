package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the postgres SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// IsUniqueConstraintError reports whether err is a uniqueness violation
// from the store. The pre-insert duplicate checks are best effort; this
// is the backstop for concurrent inserts of the same slug/email/token.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint")
}

// Postgres names unique indexes like idx_teams_slug or uni_users_email.
var constraintFieldRe = regexp.MustCompile(`(?:idx|uni|uq)_\w+?_(\w+)`)

// UniqueConstraintField extracts the offending column from a uniqueness
// violation when the constraint name allows it, otherwise "".
func UniqueConstraintField(err error) string {
	if err == nil {
		return ""
	}

	var constraint string
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		constraint = pgErr.ConstraintName
	} else {
		constraint = err.Error()
	}

	if m := constraintFieldRe.FindStringSubmatch(constraint); m != nil {
		return m[1]
	}
	return ""
}

// UniqueConstraintMessage builds the client-facing conflict message for a
// uniqueness violation.
func UniqueConstraintMessage(err error) string {
	if field := UniqueConstraintField(err); field != "" {
		return "A record with this " + field + " already exists"
	}
	return "A record with this information already exists"
}
