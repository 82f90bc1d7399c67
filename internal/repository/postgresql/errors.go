package postgresql

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

func createQueryError(err error) error {
	return fmt.Errorf("failed to create query: %w", err)
}

func executeQueryError(err error) error {
	return fmt.Errorf("failed to execute query: %w", err)
}

func scanRowError(err error) error {
	return fmt.Errorf("failed to scan row: %w", err)
}

func collectRowsError(err error) error {
	return fmt.Errorf("failed to collect rows: %w", err)
}

// notFoundError maps pgx.ErrNoRows to the domain sentinel.
func notFoundError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrRunNotFound
	}

	return scanRowError(err)
}
