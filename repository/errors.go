package repository

import (
	"errors"

	"github.com/georgmattin/kristlinilehekulg/apperrors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error codes the repositories care about.
const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

// classify translates gorm/driver errors into the application taxonomy.
// Call sites above the repository layer never inspect driver error codes.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.Wrap(apperrors.ErrDuplicate, err)
		case pgUndefinedTable:
			return apperrors.Wrap(apperrors.ErrMissingRelation, err)
		}
	}

	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
