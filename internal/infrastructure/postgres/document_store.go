package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DocumentStore colecciones de inventario sobre la tabla inventory_records
// (PK collection_key + record_key). Usable con pool o tx.
type DocumentStore struct {
	q Querier
}

// NewDocumentStore construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentStore(q Querier) *DocumentStore {
	return &DocumentStore{q: q}
}

// ListRecords devuelve todos los registros de la colección ordenados por clave.
func (s *DocumentStore) ListRecords(ctx context.Context, collectionKey string) ([]entity.Record, error) {
	query := `
		SELECT record_key, quantity
		FROM inventory_records WHERE collection_key = $1
		ORDER BY record_key`
	rows, err := s.q.Query(ctx, query, collectionKey)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	list := make([]entity.Record, 0)
	for rows.Next() {
		var r entity.Record
		if err := rows.Scan(&r.Key, &r.Fields.Quantity); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// ReadRecord devuelve nil, nil si el registro no existe.
func (s *DocumentStore) ReadRecord(ctx context.Context, collectionKey, recordKey string) (*entity.RecordFields, error) {
	query := `
		SELECT quantity FROM inventory_records
		WHERE collection_key = $1 AND record_key = $2`
	var f entity.RecordFields
	err := s.q.QueryRow(ctx, query, collectionKey, recordKey).Scan(&f.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	return &f, nil
}

// WriteRecord inserta o sobrescribe el registro completo.
func (s *DocumentStore) WriteRecord(ctx context.Context, collectionKey, recordKey string, fields entity.RecordFields) error {
	query := `
		INSERT INTO inventory_records (collection_key, record_key, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection_key, record_key)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := s.q.Exec(ctx, query, collectionKey, recordKey, fields.Quantity); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// DeleteRecord borra el registro; si no existe no hace nada.
func (s *DocumentStore) DeleteRecord(ctx context.Context, collectionKey, recordKey string) error {
	query := `DELETE FROM inventory_records WHERE collection_key = $1 AND record_key = $2`
	if _, err := s.q.Exec(ctx, query, collectionKey, recordKey); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}
