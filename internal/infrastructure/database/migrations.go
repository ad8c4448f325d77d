package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/rmcastle/fieldops/pkg/logger"
)

// RunMigrations applies all pending migrations from the given directory
func RunMigrations(cfg Config, migrationsPath string, log logger.Logger) error {
	m, err := migrate.New("file://"+migrationsPath, cfg.URL())
	if err != nil {
		return fmt.Errorf("error creating migrator: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no pending migrations")
		return nil
	}
	if err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	log.Info("migrations applied")
	return nil
}
