package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/restaurante-kishimoto/kishimoto-web/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase opens the database named by cfg.DatabaseURL.
// PostgreSQL URLs and key/value DSNs use the postgres driver; anything else
// is treated as a SQLite file path.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	databaseURL := cfg.DatabaseURL
	if databaseURL == "" {
		databaseURL = DefaultDatabaseURL
		log.Println("DATABASE_URL not set, using default:", databaseURL)
	}

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(GormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	if IsPostgresURL(databaseURL) {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(sqliteDSN(databaseURL))
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("Database connection established successfully (%s)", db.Dialector.Name())
	return db, nil
}

// Migrate creates or updates every table the site uses
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// IsPostgresURL reports whether the URL targets PostgreSQL
func IsPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://") ||
		strings.Contains(url, "host=")
}

// GormLogLevel maps LOG_LEVEL onto GORM's logger levels
func GormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

// sqliteDSN turns foreign key enforcement on, which SQLite leaves off by default
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=1"
	}
	return path + "?_foreign_keys=1"
}
