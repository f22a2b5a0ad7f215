package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors for the store failures the importer distinguishes.
var (
	// ErrConstraint indicates the store rejected a row (unique, foreign key, not null, check).
	ErrConstraint = errors.New("constraint violation")

	// ErrConnection indicates the store could not be reached or dropped the connection.
	ErrConnection = errors.New("store connection failed")
)

// ConstraintKind names the constraint class that rejected a row.
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintNotNull    ConstraintKind = "not_null"
	ConstraintCheck      ConstraintKind = "check"
)

// ConstraintError describes a row rejected by a store constraint.
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string // constraint or column name when the driver reports one
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s constraint %q violated: %v", e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s constraint violated: %v", e.Kind, e.Err)
}

// Unwrap exposes both the sentinel and the driver error.
func (e *ConstraintError) Unwrap() []error {
	return []error{ErrConstraint, e.Err}
}

// Classify maps driver errors onto ErrConstraint / ErrConnection.
// Errors it does not recognise are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var ce *ConstraintError
	if errors.As(err, &ce) || errors.Is(err, ErrConnection) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &ConstraintError{Kind: ConstraintUnique, Constraint: pgErr.ConstraintName, Err: err}
		case "23503":
			return &ConstraintError{Kind: ConstraintForeignKey, Constraint: pgErr.ConstraintName, Err: err}
		case "23502":
			return &ConstraintError{Kind: ConstraintNotNull, Constraint: pgErr.ColumnName, Err: err}
		case "23514":
			return &ConstraintError{Kind: ConstraintCheck, Constraint: pgErr.ConstraintName, Err: err}
		}
		// Class 08: connection exception
		if strings.HasPrefix(pgErr.Code, "08") {
			return fmt.Errorf("%w: %w", ErrConnection, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &ConstraintError{Kind: ConstraintUnique, Err: err}
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return &ConstraintError{Kind: ConstraintForeignKey, Err: err}
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return &ConstraintError{Kind: ConstraintNotNull, Err: err}
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return &ConstraintError{Kind: ConstraintCheck, Err: err}
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
			return fmt.Errorf("%w: %w", ErrConnection, err)
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return constraintKind(err) == ConstraintUnique
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return constraintKind(err) == ConstraintForeignKey
}

// IsConstraint reports whether any error in err's chain is ErrConstraint.
func IsConstraint(err error) bool {
	return errors.Is(Classify(err), ErrConstraint)
}

// IsConnection reports whether any error in err's chain is ErrConnection.
func IsConnection(err error) bool {
	return errors.Is(Classify(err), ErrConnection)
}

func constraintKind(err error) ConstraintKind {
	var ce *ConstraintError
	if errors.As(Classify(err), &ce) {
		return ce.Kind
	}
	return ""
}
