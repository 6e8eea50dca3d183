package app

import (
	"fmt"
	"strconv"

	"dealflow/internal/common/logging"
	"dealflow/internal/storage"
	"dealflow/internal/storage/postgres"
	"dealflow/internal/storage/sqlite"
)

func (app *App) initializeStorage() error {
	switch app.Config.DatabaseType {
	case "postgres", "postgresql":
		port, _ := strconv.Atoi(app.Config.PostgresPort)
		app.Logger.Info("Database: PostgreSQL",
			logging.String("host", app.Config.PostgresHost),
			logging.String("database", app.Config.PostgresDB),
		)
		store, err := postgres.NewAdapter(&postgres.Config{
			Host:     app.Config.PostgresHost,
			Port:     port,
			Database: app.Config.PostgresDB,
			Username: app.Config.PostgresUser,
			Password: app.Config.PostgresPassword,
			SSLMode:  app.Config.PostgresSSLMode,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		app.Storage = store

	case "memory":
		// Ephemeral store for development and tests
		app.Logger.Warn("Database: in-memory (records are lost on restart)")
		app.Storage = storage.NewMemoryStorage()

	default:
		dbPath := app.Config.DatabasePath
		if dbPath == "" {
			dbPath = "./dealflow.db"
		}
		app.Logger.Info("Database: SQLite", logging.String("path", dbPath))
		store, err := sqlite.NewAdapter(&sqlite.Config{DatabasePath: dbPath})
		if err != nil {
			return fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		app.Storage = store
	}

	return nil
}
