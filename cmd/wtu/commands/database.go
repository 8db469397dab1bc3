package commands

import (
	"database/sql"

	"github.com/teranos/wtu/am"
	"github.com/teranos/wtu/db"
	"github.com/teranos/wtu/errors"
	"github.com/teranos/wtu/logger"
)

// ConfigPath is set by the --config flag. Empty means the usual cascade of
// system, user and project files.
var ConfigPath string

// loadConfig loads the configuration named by --config, or the cascade.
func loadConfig() (*am.Config, error) {
	if ConfigPath != "" {
		return am.LoadFromFile(ConfigPath)
	}
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// openDatabase opens and migrates the database at dbPath.
func openDatabase(dbPath string) (*sql.DB, error) {
	database, err := db.OpenWithMigrations(dbPath, logger.Logger.Named("db"))
	if err != nil {
		return nil, errors.WithHintf(err, "check database.path (currently %s)", dbPath)
	}
	return database, nil
}
