package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique constraint rejects an insert
	ErrAlreadyExists = errors.New("already exists")
	// ErrSelfSubscription is returned when a user tries to follow themself
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
)

const uniqueViolation = "23505"

// isUniqueViolation recognises duplicate-key errors from every driver in use.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}

	// SQLite reports constraint names only in the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// notFound maps gorm's sentinel onto ours and leaves other errors untouched.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
