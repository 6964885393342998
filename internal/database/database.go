package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"tablehub/internal/pkg/logger"
)

func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	if IsPostgres(dsn) {
		logger.Log.Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	dsn = SQLiteDSN(dsn)
	logger.Log.Info("using SQLite for local development", zap.String("dsn", dsn))

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// SQLiteDSN adds a busy timeout and IMMEDIATE transactions unless the DSN
// already sets them. Pooled connections then queue on the write lock instead
// of failing with SQLITE_BUSY, and a transaction never upgrades a read lock.
func SQLiteDSN(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "busy_timeout") {
		params = append(params, "_pragma=busy_timeout(5000)")
	}
	if !strings.Contains(dsn, "_txlock=") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// UniqueViolation reports whether err is a unique constraint violation and,
// when the driver exposes it, which constraint failed. PostgreSQL returns the
// constraint name; SQLite returns the offending columns ("reservations.confirmation_code").
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return pgErr.ConstraintName, true
		}
		return "", false
	}

	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		if i := strings.Index(msg, "UNIQUE constraint failed:"); i >= 0 {
			cols := msg[i+len("UNIQUE constraint failed:"):]
			if j := strings.Index(cols, " ("); j >= 0 {
				cols = cols[:j]
			}
			return strings.TrimSpace(cols), true
		}
		return "", true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	return "", false
}
