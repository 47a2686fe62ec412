package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// StaleItems es el último listado publicado cuando una operación de inventario falla.
	StaleItems []ItemResponse `json:"stale_items,omitempty"`
}

// PageQuery parámetros de búsqueda y paginación del listado.
type PageQuery struct {
	Q       string `query:"q" validate:"max=200"`
	Page    int    `query:"page" validate:"min=0,max=100000"`
	PerPage int    `query:"per_page" validate:"min=0,max=100"`
}
