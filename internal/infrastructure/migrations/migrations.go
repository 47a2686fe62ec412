// Package migrations contiene el esquema SQL por dialecto (embebido) y lo aplica con goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

//go:embed postgres/*.sql sqlite/*.sql mysql/*.sql
var files embed.FS

// goose guarda el dialecto y el FS en estado global.
var gooseMu sync.Mutex

// Up aplica las migraciones pendientes para el driver dado (postgres, sqlite, mysql).
func Up(ctx context.Context, db *sql.DB, driver string, log *logger.Logger) error {
	return Run(ctx, db, driver, "up", log)
}

// Run ejecuta un comando de goose (up, down, status, version, redo, reset).
func Run(ctx context.Context, db *sql.DB, driver, command string, log *logger.Logger) error {
	dialect, dir, err := dialectFor(driver)
	if err != nil {
		return err
	}
	if log == nil {
		log = logger.Nop()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, dir); err != nil {
		return fmt.Errorf("migraciones %s %s: %w", driver, command, err)
	}
	return nil
}

func dialectFor(driver string) (dialect, dir string, err error) {
	switch strings.ToLower(driver) {
	case "postgres", "pgx":
		return "postgres", "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite3", "sqlite", nil
	case "mysql":
		return "mysql", "mysql", nil
	default:
		return "", "", fmt.Errorf("driver de migraciones no soportado: %q", driver)
	}
}

// gooseLogger adapta zerolog al logger de goose.
type gooseLogger struct {
	log *logger.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Msgf(strings.TrimSuffix(format, "\n"), v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Msgf(strings.TrimSuffix(format, "\n"), v...)
}
