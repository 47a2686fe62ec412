package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertItemRequest body para POST /api/inventory/items. Quantity se suma a la existente.
type UpsertItemRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// ItemResponse ítem del inventario. Label es el nombre con la primera letra en mayúscula.
type ItemResponse struct {
	Name     string          `json:"name"`
	Label    string          `json:"label"`
	Quantity decimal.Decimal `json:"quantity"`
}

// InventoryResponse listado completo tras una mutación.
type InventoryResponse struct {
	Items       []ItemResponse `json:"items"`
	RefreshedAt time.Time      `json:"refreshed_at"`
}

// InventoryPageResponse listado filtrado y paginado.
type InventoryPageResponse struct {
	Items   []ItemResponse `json:"items"`
	Query   string         `json:"q,omitempty"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Total   int            `json:"total"`
	Pages   int            `json:"pages"`
}
