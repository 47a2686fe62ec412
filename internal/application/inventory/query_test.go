package inventory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

func TestSearch_SinDistinguirMayusculas(t *testing.T) {
	items := []entity.Item{item("Apple", 1), item("pineapple", 2), item("pear", 3)}
	got := inventory.Search(items, "APPLE")
	assertItems(t, []entity.Item{item("Apple", 1), item("pineapple", 2)}, got)

	assert.Len(t, inventory.Search(items, ""), 3)
	assert.Empty(t, inventory.Search(items, "kiwi"))
}

func TestPaginate_Paginas(t *testing.T) {
	var items []entity.Item
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		items = append(items, item(n, 1))
	}

	p := inventory.Paginate(items, 1, 0)
	assert.Equal(t, inventory.DefaultPerPage, p.PerPage)
	assert.Equal(t, 2, p.Pages)
	assert.Equal(t, 7, p.Total)
	assert.Len(t, p.Items, 5)

	p = inventory.Paginate(items, 2, 5)
	assertItems(t, []entity.Item{item("f", 1), item("g", 1)}, p.Items)

	p = inventory.Paginate(items, 9, 5)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
}

func TestPaginate_PaginaEnormeNoDesborda(t *testing.T) {
	items := []entity.Item{item("a", 1)}
	assert.NotPanics(t, func() {
		p := inventory.Paginate(items, math.MaxInt/5*2, 5)
		assert.Empty(t, p.Items)
		assert.Equal(t, 1, p.Pages)
	})
	assert.NotPanics(t, func() {
		p := inventory.Paginate(append(items, item("b", 1)), math.MaxInt, math.MaxInt)
		assert.Empty(t, p.Items)
		assert.Equal(t, 1, p.Pages)
	})
}

func TestPaginate_SinItems(t *testing.T) {
	p := inventory.Paginate(nil, 0, 5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.Pages)
}

func TestLabel_PrimeraLetraMayuscula(t *testing.T) {
	assert.Equal(t, "Pen", inventory.Label("pen"))
	assert.Equal(t, "ÑAndú", inventory.Label("ñAndú"))
	assert.Equal(t, "", inventory.Label(""))
}
