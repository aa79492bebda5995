package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// DuplicateError reports which unique column rejected a write.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already exists"
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

func IsNoRows(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// mapError turns driver errors into the package's storage-neutral errors.
// Anything unrecognised is returned untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &DuplicateError{Field: duplicateField(pgErr.TableName, pgErr.ConstraintName)}
		case pgForeignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}

// duplicateField extracts the column from Postgres' default unique
// constraint name, e.g. users_email_key -> email.
func duplicateField(table, constraint string) string {
	field := strings.TrimSuffix(constraint, "_key")
	if table != "" {
		field = strings.TrimPrefix(field, table+"_")
	}
	return field
}
