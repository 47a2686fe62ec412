// Package sqldb implementa el almacén de documentos y los usuarios sobre database/sql
// vía sqlx, para SQLite (modernc, sin cgo) y MySQL.
package sqldb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/XSAM/otelsql"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Drivers soportados.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open abre la base instrumentada con otelsql y verifica la conexión. Para MySQL fuerza
// parseTime=true.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	var system attribute.KeyValue
	switch driver {
	case DriverSQLite:
		system = semconv.DBSystemSqlite
		if dsn == "" {
			dsn = "inventory.db"
		}
	case DriverMySQL:
		system = semconv.DBSystemMySQL
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse DSN mysql: %w", err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	default:
		return nil, fmt.Errorf("driver sql no soportado: %q", driver)
	}

	raw, err := otelsql.Open(driver, dsn,
		otelsql.WithAttributes(system),
		otelsql.WithSpanOptions(otelsql.SpanOptions{DisableErrSkip: true}),
	)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", driver, err)
	}
	db := sqlx.NewDb(raw, driver)
	if driver == DriverSQLite {
		// Un solo escritor evita SQLITE_BUSY en archivos compartidos.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// isUniqueViolation reconoce violaciones de unicidad en SQLite y MySQL.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062 // ER_DUP_ENTRY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
