package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/edugamify/classroom-api/internal/config"
	"github.com/edugamify/classroom-api/internal/logger"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.NewGormLogger(),
	}
}

// Open picks the driver named in the config.
func Open(conf *config.DatabaseConfig) (*gorm.DB, error) {
	if conf.Driver == "sqlite" {
		return OpenSQLite(conf.SQLitePath)
	}

	return OpenPostgres(conf)
}

func OpenPostgres(conf *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		conf.Host, conf.Port, conf.User, conf.Password, conf.Name, conf.SSLMode)

	return OpenPostgresWithURL(dsn)
}

func OpenPostgresWithURL(url string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(url), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	return db, nil
}

// OpenSQLite opens a file database with foreign keys on and write
// transactions taking the lock up front, so concurrent writers queue on the
// busy timeout instead of failing on upgrade.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_txlock=immediate&_busy_timeout=10000&_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	return db, nil
}
