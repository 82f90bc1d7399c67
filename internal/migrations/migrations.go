// Package migrations holds the database schema of run persistence.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var FS embed.FS

const (
	TypeUp   = "up"
	TypeDown = "down"
)

// New creates a migrator over the embedded scripts.
func New(databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(FS, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to create migrations source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}

// Apply runs migrations in the given direction. ErrNoChange is not an error.
func Apply(databaseURL, direction string) (err error) {
	m, err := New(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		err = errors.Join(err, srcErr, dbErr)
	}()

	switch direction {
	case TypeUp:
		err = m.Up()
	case TypeDown:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration type %q", direction)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}

	return err
}
