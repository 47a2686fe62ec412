package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

func TestBinding_PublicaTrasMutacion(t *testing.T) {
	s := inventory.NewStore(newSpyStore(), nil)
	view := inventory.NewView()
	b := s.Bind(idA, view)

	_, err := b.Add(context.Background(), "pen", qty(2))
	require.NoError(t, err)

	got, ok := view.Items()
	assert.True(t, ok)
	assertItems(t, []entity.Item{item("pen", 2)}, got)
	assert.False(t, view.RefreshedAt().IsZero())
}

func TestBinding_FalloConservaInstantaneaAnterior(t *testing.T) {
	spy := newSpyStore()
	s := inventory.NewStore(spy, nil)
	view := inventory.NewView()
	b := s.Bind(idA, view)
	ctx := context.Background()

	_, err := b.Add(ctx, "pen", qty(2))
	require.NoError(t, err)

	spy.failWrite = errors.New("quota exceeded")
	_, err = b.Add(ctx, "ink", qty(1))
	require.Error(t, err)

	got, _ := view.Items()
	assertItems(t, []entity.Item{item("pen", 2)}, got)
}

func TestBinding_VistaCerradaDescartaResultado(t *testing.T) {
	s := inventory.NewStore(newSpyStore(), nil)
	view := inventory.NewView()
	b := s.Bind(idA, view)
	ctx := context.Background()

	_, err := b.Refresh(ctx)
	require.NoError(t, err)
	view.Close()

	items, err := b.Add(ctx, "pen", qty(1))
	require.NoError(t, err)
	assertItems(t, []entity.Item{item("pen", 1)}, items)

	got, _ := view.Items()
	assert.Empty(t, got, "la vista cerrada no debe mutarse")
}

func TestView_PublishReemplazaCompleto(t *testing.T) {
	v := inventory.NewView()
	_, ok := v.Items()
	assert.False(t, ok)

	require.True(t, v.Publish([]entity.Item{item("a", 1), item("b", 2)}))
	require.True(t, v.Publish([]entity.Item{item("c", 3)}))
	got, _ := v.Items()
	assertItems(t, []entity.Item{item("c", 3)}, got)
}

func TestViews_DropCierraVista(t *testing.T) {
	r := inventory.NewViews(0)
	v := r.Get("sid-1")
	assert.Same(t, v, r.Get("sid-1"))
	assert.Equal(t, 1, r.Len())

	r.Drop("sid-1")
	assert.True(t, v.Closed())
	assert.Equal(t, 0, r.Len())
	_, ok := r.Peek("sid-1")
	assert.False(t, ok)
}

func TestViews_ExpiraPorInactividad(t *testing.T) {
	r := inventory.NewViews(10 * time.Millisecond)
	v := r.Get("sid-1")
	time.Sleep(20 * time.Millisecond)
	r.Get("sid-2")

	assert.True(t, v.Closed())
	_, ok := r.Peek("sid-1")
	assert.False(t, ok)
}
