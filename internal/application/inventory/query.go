package inventory

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// DefaultPerPage tamaño de página por defecto del listado.
const DefaultPerPage = 5

// Page resultado paginado sobre una instantánea.
type Page struct {
	Items   []entity.Item
	Page    int
	PerPage int
	Total   int
	Pages   int
}

// Search filtra por subcadena del nombre sin distinguir mayúsculas. Query vacía = todo.
func Search(items []entity.Item, query string) []entity.Item {
	if query == "" {
		return items
	}
	// cases.Caser no es seguro para uso concurrente: uno por llamada.
	lower := cases.Lower(language.Und)
	needle := lower.String(query)
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(lower.String(it.Name), needle) {
			out = append(out, it)
		}
	}
	return out
}

// Paginate corta la página solicitada (1-based). Una página fuera de rango devuelve Items vacío.
func Paginate(items []entity.Item, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	p := Page{
		Items:   []entity.Item{},
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}
	if total > 0 {
		p.Pages = (total-1)/perPage + 1
	}
	// se compara contra Pages antes de multiplicar: page enorme desbordaría start
	if page > p.Pages {
		return p
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	p.Items = items[start:end]
	return p
}

// Label etiqueta de presentación: primera letra en mayúscula, resto intacto.
func Label(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
