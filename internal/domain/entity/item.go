package entity

import "github.com/shopspring/decimal"

// Item es un artículo del inventario de una identidad. Name es a la vez etiqueta y clave
// única dentro de la colección (sensible a mayúsculas, sin normalizar).
type Item struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// RecordFields esquema mínimo persistido por registro. Las escrituras lo reemplazan completo.
type RecordFields struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// Record es un documento de la colección: clave (nombre del ítem) + campos.
type Record struct {
	Key    string
	Fields RecordFields
}

// ToItem materializa el par {name, quantity}.
func (r Record) ToItem() Item {
	return Item{Name: r.Key, Quantity: r.Fields.Quantity}
}
