package main

import (
	"log/slog"
	"os"

	"dally/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// openDB connects using the configured driver. Postgres is the production
// store; sqlite exists for local development and the test suite.
func openDB(driver, dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch driver {
	case "sqlite":
		gdb, err := gorm.Open(sqlite.Open(dsn), gcfg)
		if err != nil {
			return nil, err
		}
		// in-memory sqlite is per-connection; keep the pool at one
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
		return gdb, nil
	default:
		return gorm.Open(postgres.Open(dsn), gcfg)
	}
}

func initDB() {
	if cfg.DBDSN == "" && cfg.DBDriver != "sqlite" {
		slog.Error("DB_DSN is not set; a Postgres DSN is required unless DB_DRIVER=sqlite")
		os.Exit(1)
	}
	dsn := cfg.DBDSN
	if dsn == "" {
		dsn = ":memory:"
	}
	var err error
	db, err = openDB(cfg.DBDriver, dsn)
	if err != nil {
		slog.Error("failed to connect database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	if cfg.AutoMigrate {
		migrateDB(db)
	}
	ensureUploadBase()
}

// migrateDB runs AutoMigrate model by model so a failure on one doesn't
// block the others. Permission errors are logged and ignored.
func migrateDB(gdb *gorm.DB) {
	for _, m := range []any{
		&models.User{},
		&models.Business{},
		&models.Transaction{},
		&models.TransactionItem{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
		&models.Receipt{},
	} {
		if err := gdb.AutoMigrate(m); err != nil {
			slog.Warn("migration warning", "model", m, "error", err)
		}
	}
}

// ensureUploadBase creates the base directory for receipt files.
func ensureUploadBase() {
	if err := os.MkdirAll(cfg.UploadBase, 0755); err != nil {
		slog.Warn("failed to create upload base dir", "dir", cfg.UploadBase, "error", err)
	}
}
