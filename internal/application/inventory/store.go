package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// Operaciones observables del adaptador.
const (
	OpList   = "list"
	OpUpsert = "upsert"
	OpRemove = "remove"
)

const tracerName = "github.com/jhoicas/inventory-tracker/internal/application/inventory"

// Store es el adaptador de inventario: todas las lecturas/escrituras de la colección de una
// identidad. Cada mutación termina con una relectura completa de la colección; nunca se
// parchea el estado local.
//
// No hay reintentos ni rollback local, y no hay control de concurrencia entre escritores:
// dos Upsert simultáneos sobre el mismo ítem pueden perder una actualización.
type Store struct {
	docs     repository.DocumentStore
	log      *logger.Logger
	tracer   trace.Tracer
	observer MutationObserver
}

// MutationObserver recibe el resultado de cada operación (métricas).
type MutationObserver interface {
	ObserveInventoryOp(op string, err error)
}

// Option configura el Store.
type Option func(*Store)

// WithObserver registra un observador de operaciones.
func WithObserver(o MutationObserver) Option {
	return func(s *Store) { s.observer = o }
}

// NewStore construye el adaptador sobre el almacén de documentos.
func NewStore(docs repository.DocumentStore, log *logger.Logger, opts ...Option) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{docs: docs, log: log, tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List devuelve todos los ítems de la identidad, en el orden del almacén.
func (s *Store) List(ctx context.Context, identity *entity.Identity) ([]entity.Item, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	ctx, span := s.start(ctx, OpList, identity, "")
	defer span.End()

	items, err := s.list(ctx, identity.UID)
	s.finish(span, OpList, err)
	return items, err
}

// Upsert crea el ítem con quantity = delta o suma delta a la cantidad existente, y devuelve
// la colección releída. delta no se valida (puede ser negativo o fraccionario).
func (s *Store) Upsert(ctx context.Context, identity *entity.Identity, name string, delta decimal.Decimal) ([]entity.Item, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	ctx, span := s.start(ctx, OpUpsert, identity, name)
	defer span.End()

	existing, err := s.docs.ReadRecord(ctx, identity.UID, name)
	if err != nil {
		s.finish(span, OpUpsert, err)
		return nil, err
	}
	fields := entity.RecordFields{Quantity: delta}
	if existing != nil {
		fields.Quantity = existing.Quantity.Add(delta)
	}
	if err := s.docs.WriteRecord(ctx, identity.UID, name, fields); err != nil {
		s.finish(span, OpUpsert, err)
		return nil, err
	}
	s.log.Debug().
		Str("uid", identity.UID).
		Str("item", name).
		Str("quantity", fields.Quantity.String()).
		Bool("created", existing == nil).
		Msg("ítem guardado")

	items, err := s.list(ctx, identity.UID)
	s.finish(span, OpUpsert, err)
	return items, err
}

// Remove borra el ítem sin verificar que exista y devuelve la colección releída.
func (s *Store) Remove(ctx context.Context, identity *entity.Identity, name string) ([]entity.Item, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	ctx, span := s.start(ctx, OpRemove, identity, name)
	defer span.End()

	if err := s.docs.DeleteRecord(ctx, identity.UID, name); err != nil {
		s.finish(span, OpRemove, err)
		return nil, err
	}
	s.log.Debug().Str("uid", identity.UID).Str("item", name).Msg("ítem eliminado")

	items, err := s.list(ctx, identity.UID)
	s.finish(span, OpRemove, err)
	return items, err
}

// Bind asocia el adaptador a una identidad y a la vista donde se publican los refrescos.
func (s *Store) Bind(identity *entity.Identity, view *View) *Binding {
	return &Binding{store: s, identity: identity, view: view}
}

func (s *Store) list(ctx context.Context, uid string) ([]entity.Item, error) {
	records, err := s.docs.ListRecords(ctx, uid)
	if err != nil {
		return nil, err
	}
	items := make([]entity.Item, 0, len(records))
	for _, r := range records {
		items = append(items, r.ToItem())
	}
	return items, nil
}

func (s *Store) start(ctx context.Context, op string, identity *entity.Identity, name string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("inventory.uid", identity.UID)}
	if name != "" {
		attrs = append(attrs, attribute.String("inventory.item", name))
	}
	return s.tracer.Start(ctx, "inventory."+op, trace.WithAttributes(attrs...))
}

func (s *Store) finish(span trace.Span, op string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Warn().Err(err).Str("op", op).Msg("operación de inventario fallida")
	}
	if s.observer != nil {
		s.observer.ObserveInventoryOp(op, err)
	}
}

func requireIdentity(identity *entity.Identity) error {
	if identity == nil || identity.UID == "" {
		return domain.ErrNoIdentity
	}
	return nil
}
