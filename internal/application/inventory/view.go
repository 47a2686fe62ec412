package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// View guarda la última instantánea completa publicada para un consumidor.
// Publish reemplaza la lista entera; una vez cerrada, los resultados que lleguen tarde
// se descartan sin tocar el estado compartido.
type View struct {
	mu          sync.RWMutex
	items       []entity.Item
	refreshedAt time.Time
	published   bool
	closed      bool
}

// NewView construye una vista vacía y activa.
func NewView() *View {
	return &View{}
}

// Publish reemplaza la instantánea. Devuelve false si la vista ya fue cerrada.
func (v *View) Publish(items []entity.Item) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return false
	}
	v.items = append([]entity.Item(nil), items...)
	v.refreshedAt = time.Now()
	v.published = true
	return true
}

// Items devuelve una copia de la última instantánea y si hubo alguna publicación.
func (v *View) Items() ([]entity.Item, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]entity.Item(nil), v.items...), v.published
}

// RefreshedAt momento de la última publicación aceptada.
func (v *View) RefreshedAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.refreshedAt
}

// Close desactiva la vista.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}

// Closed indica si la vista fue cerrada.
func (v *View) Closed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.closed
}

// Binding = Store + identidad + vista. Tras cada operación exitosa publica la colección
// releída; si falla, la vista conserva la instantánea anterior.
type Binding struct {
	store    *Store
	identity *entity.Identity
	view     *View
}

// View devuelve la vista asociada.
func (b *Binding) View() *View { return b.view }

// Refresh relee la colección completa.
func (b *Binding) Refresh(ctx context.Context) ([]entity.Item, error) {
	items, err := b.store.List(ctx, b.identity)
	return b.apply(items, err)
}

// Add hace upsert de name con delta.
func (b *Binding) Add(ctx context.Context, name string, delta decimal.Decimal) ([]entity.Item, error) {
	items, err := b.store.Upsert(ctx, b.identity, name, delta)
	return b.apply(items, err)
}

// Remove elimina name.
func (b *Binding) Remove(ctx context.Context, name string) ([]entity.Item, error) {
	items, err := b.store.Remove(ctx, b.identity, name)
	return b.apply(items, err)
}

func (b *Binding) apply(items []entity.Item, err error) ([]entity.Item, error) {
	if err != nil {
		return nil, err
	}
	if !b.view.Publish(items) {
		b.store.log.Debug().Str("uid", b.identity.UID).Msg("vista cerrada, refresco descartado")
	}
	return items, nil
}
