package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no restaurant has the requested id.
	ErrNotFound = errors.New("restaurant not found")
	// ErrConflict is returned when creating a restaurant whose id is taken.
	ErrConflict = errors.New("restaurant already exists")
)

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	// other drivers (sqlite in tests) only expose the message
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
