package gormrepo

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/milad/dwreader/internal/logger"
)

type Config struct {
	DSN             string
	TablePrefix     string
	SlowQuery       time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to the Postgres warehouse.
func Open(cfg Config, log *logger.Logger) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("gormrepo: DSN is required")
	}
	return OpenDialector(postgres.Open(cfg.DSN), cfg, log)
}

// OpenDialector opens any gorm dialector with the service's logger and pool
// settings.
func OpenDialector(d gorm.Dialector, cfg Config, log *logger.Logger) (*gorm.DB, error) {
	slow := cfg.SlowQuery
	if slow <= 0 {
		slow = time.Second
	}
	gormLog := gormLogger.New(
		log.StdLog(zapcore.WarnLevel),
		gormLogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(d, &gorm.Config{
		Logger:                 gormLog,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("warehouse pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return db, nil
}

// Store hands out repositories that share one connection pool.
type Store struct {
	db     *gorm.DB
	prefix string
	slow   time.Duration
	log    *logger.Logger
}

func NewStore(db *gorm.DB, cfg Config, log *logger.Logger) *Store {
	return &Store{
		db:     db,
		prefix: cfg.TablePrefix,
		slow:   cfg.SlowQuery,
		log:    log.With("component", "warehouse"),
	}
}

func (s *Store) table(name string) string {
	return s.prefix + name
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
