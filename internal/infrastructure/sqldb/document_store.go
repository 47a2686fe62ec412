package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

const (
	upsertSQLite = `
		INSERT INTO inventory_records (collection_key, record_key, quantity, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (collection_key, record_key)
		DO UPDATE SET quantity = excluded.quantity, updated_at = excluded.updated_at`
	upsertMySQL = `
		INSERT INTO inventory_records (collection_key, record_key, quantity, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = VALUES(quantity), updated_at = VALUES(updated_at)`
)

type recordRow struct {
	Key      string          `db:"record_key"`
	Quantity decimal.Decimal `db:"quantity"`
}

// DocumentStore colecciones de inventario en la tabla inventory_records.
type DocumentStore struct {
	db     *sqlx.DB
	upsert string
}

// NewDocumentStore construye el adaptador; el upsert depende del driver de db.
func NewDocumentStore(db *sqlx.DB) *DocumentStore {
	upsert := upsertSQLite
	if db.DriverName() == DriverMySQL {
		upsert = upsertMySQL
	}
	return &DocumentStore{db: db, upsert: db.Rebind(upsert)}
}

// ListRecords devuelve los registros de la colección ordenados por clave.
func (s *DocumentStore) ListRecords(ctx context.Context, collectionKey string) ([]entity.Record, error) {
	var rows []recordRow
	query := s.db.Rebind(`
		SELECT record_key, quantity FROM inventory_records
		WHERE collection_key = ? ORDER BY record_key`)
	if err := s.db.SelectContext(ctx, &rows, query, collectionKey); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	list := make([]entity.Record, 0, len(rows))
	for _, r := range rows {
		list = append(list, entity.Record{Key: r.Key, Fields: entity.RecordFields{Quantity: r.Quantity}})
	}
	return list, nil
}

// ReadRecord devuelve nil, nil si el registro no existe.
func (s *DocumentStore) ReadRecord(ctx context.Context, collectionKey, recordKey string) (*entity.RecordFields, error) {
	var q decimal.Decimal
	query := s.db.Rebind(`
		SELECT quantity FROM inventory_records
		WHERE collection_key = ? AND record_key = ?`)
	if err := s.db.GetContext(ctx, &q, query, collectionKey, recordKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	return &entity.RecordFields{Quantity: q}, nil
}

// WriteRecord inserta o sobrescribe el registro completo.
func (s *DocumentStore) WriteRecord(ctx context.Context, collectionKey, recordKey string, fields entity.RecordFields) error {
	if _, err := s.db.ExecContext(ctx, s.upsert, collectionKey, recordKey, fields.Quantity, time.Now().UTC()); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// DeleteRecord borra el registro; si no existe no hace nada.
func (s *DocumentStore) DeleteRecord(ctx context.Context, collectionKey, recordKey string) error {
	query := s.db.Rebind(`DELETE FROM inventory_records WHERE collection_key = ? AND record_key = ?`)
	if _, err := s.db.ExecContext(ctx, query, collectionKey, recordKey); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}
