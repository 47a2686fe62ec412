// Package storage elige el backend de documentos y usuarios según STORE_DRIVER.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/migrations"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/sqldb"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// Backend almacenes listos para usar. SQL es nil con el driver memory.
type Backend struct {
	Driver string
	Docs   repository.DocumentStore
	Users  repository.UserRepository
	SQL    *sql.DB
	close  func()
}

// Close libera las conexiones.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Migrate ejecuta un comando de goose sobre el backend SQL.
func (b *Backend) Migrate(ctx context.Context, command string, log *logger.Logger) error {
	if b.SQL == nil {
		return nil
	}
	return migrations.Run(ctx, b.SQL, b.Driver, command, log)
}

// Open conecta el backend configurado. No aplica migraciones.
func Open(ctx context.Context, cfg config.DBConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return &Backend{
			Driver: cfg.Driver,
			Docs:   memory.NewDocumentStore(),
			Users:  memory.NewUserRepository(),
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		db := stdlib.OpenDBFromPool(pool)
		return &Backend{
			Driver: cfg.Driver,
			Docs:   postgres.NewDocumentStore(pool),
			Users:  postgres.NewUserRepository(pool),
			SQL:    db,
			close: func() {
				_ = db.Close()
				pool.Close()
			},
		}, nil

	case config.DriverSQLite, config.DriverMySQL:
		db, err := sqldb.Open(ctx, cfg.Driver, cfg.SQLDSN())
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver: cfg.Driver,
			Docs:   sqldb.NewDocumentStore(db),
			Users:  sqldb.NewUserRepository(db),
			SQL:    db.DB,
			close:  func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("STORE_DRIVER no soportado: %q", cfg.Driver)
	}
}
