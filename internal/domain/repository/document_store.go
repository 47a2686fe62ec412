package repository

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// DocumentStore define el puerto hacia el almacén de documentos (DIP).
// collectionKey es el UID de la identidad; recordKey el nombre del ítem.
type DocumentStore interface {
	// ListRecords devuelve todos los registros de la colección, en el orden del almacén.
	ListRecords(ctx context.Context, collectionKey string) ([]entity.Record, error)
	// ReadRecord devuelve nil, nil si el registro no existe.
	ReadRecord(ctx context.Context, collectionKey, recordKey string) (*entity.RecordFields, error)
	// WriteRecord reemplaza el registro completo (no es un parche parcial).
	WriteRecord(ctx context.Context, collectionKey, recordKey string, fields entity.RecordFields) error
	// DeleteRecord es idempotente: borrar un registro ausente no es error.
	DeleteRecord(ctx context.Context, collectionKey, recordKey string) error
}
