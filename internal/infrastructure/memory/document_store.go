// Package memory implementa el almacén de documentos en memoria (STORE_DRIVER=memory).
// Útil en desarrollo y en tests; no persiste nada entre reinicios.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DocumentStore colecciones en memoria protegidas por un RWMutex.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]entity.RecordFields
}

// NewDocumentStore construye un almacén vacío.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{collections: make(map[string]map[string]entity.RecordFields)}
}

// ListRecords devuelve los registros ordenados por clave (como los IDs de documento).
func (s *DocumentStore) ListRecords(_ context.Context, collectionKey string) ([]entity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll := s.collections[collectionKey]
	out := make([]entity.Record, 0, len(coll))
	for k, f := range coll {
		out = append(out, entity.Record{Key: k, Fields: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// ReadRecord devuelve nil, nil si no existe.
func (s *DocumentStore) ReadRecord(_ context.Context, collectionKey, recordKey string) (*entity.RecordFields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.collections[collectionKey][recordKey]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// WriteRecord reemplaza el registro completo.
func (s *DocumentStore) WriteRecord(_ context.Context, collectionKey, recordKey string, fields entity.RecordFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[collectionKey]
	if !ok {
		coll = make(map[string]entity.RecordFields)
		s.collections[collectionKey] = coll
	}
	coll[recordKey] = fields
	return nil
}

// DeleteRecord es idempotente.
func (s *DocumentStore) DeleteRecord(_ context.Context, collectionKey, recordKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collectionKey], recordKey)
	return nil
}
