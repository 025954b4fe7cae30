package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches, including ownership-scoped
	// writes that affected zero rows.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenceMissing is returned when a foreign key target does not exist.
	ErrReferenceMissing = errors.New("referenced record does not exist")
	// ErrInvalidValue is returned when a CHECK constraint rejects a value.
	ErrInvalidValue = errors.New("value rejected by constraint")
	// ErrNoRowsAffected is returned when a write that must touch a row did not.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// Postgres SQLSTATE codes, used when the dialector was opened without
// TranslateError.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translate maps driver and GORM errors onto the package's sentinel errors.
func translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReferenceMissing
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ErrInvalidValue
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrReferenceMissing
		case pgCheckViolation:
			return ErrInvalidValue
		}
	}
	return err
}
