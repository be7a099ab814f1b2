package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/campus-hub/learning-platform/internal/repositories"
)

// translateError maps driver-level failures onto the package sentinels so
// services match with errors.Is instead of importing gorm or pgx.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repositories.ErrDuplicate
	}

	// gorm only recognizes duplicates on some dialects; fall back to the
	// postgres unique_violation code.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repositories.ErrDuplicate
	}

	return err
}
