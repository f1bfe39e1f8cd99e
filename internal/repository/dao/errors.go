package dao

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrConstraintViolation = errors.New("constraint violation")
)

// ConstraintError is a uniqueness breach reported by the database. Constraint
// holds the index name (postgres) or "table.column" list (sqlite).
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("unique constraint %q violated: %v", e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraintViolation }

// Mentions reports whether the violated constraint involves the given column.
func (e *ConstraintError) Mentions(column string) bool {
	return strings.Contains(e.Constraint, column)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return &ConstraintError{Constraint: pgErr.ConstraintName, Err: err}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) &&
		(liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return &ConstraintError{Constraint: strings.TrimPrefix(liteErr.Error(), "UNIQUE constraint failed: "), Err: err}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConstraintError{Err: err}
	}

	return err
}

// affected maps a write that touched no row to ErrRecordNotFound.
func affected(result *gorm.DB) error {
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
