package gormrepo

import (
	"database/sql"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/milad/dwreader/internal/logger"
)

// OpenSQLite opens a warehouse extract stored in a SQLite file (or
// ":memory:") through the pure-Go modernc driver.
func OpenSQLite(cfg Config, log *logger.Logger) (*gorm.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = ":memory:"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	if dsn == ":memory:" {
		// Every connection to :memory: is a separate database.
		sqlDB.SetMaxOpenConns(1)
		cfg.MaxOpenConns = 1
	}
	return OpenDialector(sqlite.New(sqlite.Config{DriverName: "sqlite", Conn: sqlDB}), cfg, log)
}
