package db

import (
	"strings"

	"github.com/divizend/dreaming/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

var DB *gorm.DB

// Open returns a gorm handle for dsn. DSNs starting with "sqlite:" use the
// embedded SQLite driver, everything else is treated as a Postgres DSN.
func Open(dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		database, err := gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, err
		}

		sqlDB, err := database.DB()
		if err != nil {
			return nil, err
		}

		// SQLite has no row locks; one connection serializes writers.
		sqlDB.SetMaxOpenConns(1)

		return database, nil
	}

	return gorm.Open(postgres.Open(dsn), cfg)
}

func ConnectDatabase(dsn string, logLevel logger.LogLevel) error {
	var err error

	DB, err = Open(dsn, logLevel)

	if err != nil {
		return err
	}

	return nil
}

func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Session{},
		&models.UserProjectFunds{},
		&models.Bucket{},
		&models.BudgetItem{},
		&models.Pledge{},
	)
}

func MigrateDatabase() error {
	return Migrate(DB)
}
