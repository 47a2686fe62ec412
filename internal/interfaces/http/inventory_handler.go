package http

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// InventoryHandler maneja el inventario de la identidad autenticada (protegido).
// Cada sesión tiene su vista; toda respuesta exitosa es la colección completa releída.
type InventoryHandler struct {
	store   *inventory.Store
	views   *inventory.Views
	exports *inventory.ExportUseCase
	perPage int
	log     *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(store *inventory.Store, views *inventory.Views, exports *inventory.ExportUseCase, perPage int, log *logger.Logger) *InventoryHandler {
	if perPage <= 0 {
		perPage = inventory.DefaultPerPage
	}
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{store: store, views: views, exports: exports, perPage: perPage, log: log}
}

func (h *InventoryHandler) binding(c *fiber.Ctx) *inventory.Binding {
	return h.store.Bind(GetIdentity(c), h.views.Get(GetSessionID(c)))
}

// List godoc
// @Summary      Listar inventario
// @Description  Relee la colección completa, filtra por subcadena (sin distinguir mayúsculas) y pagina.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        q         query  string  false  "Texto a buscar en el nombre"
// @Param        page      query  int     false  "Página (1-based)"
// @Param        per_page  query  int     false  "Ítems por página (defecto 5)"
// @Success      200  {object}  dto.InventoryPageResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var q dto.PageQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	b := h.binding(c)
	items, err := b.Refresh(c.Context())
	if err != nil {
		return h.storeError(c, b, err)
	}
	perPage := q.PerPage
	if perPage == 0 {
		perPage = h.perPage
	}
	page := inventory.Paginate(inventory.Search(items, strings.TrimSpace(q.Q)), q.Page, perPage)
	return c.JSON(dto.InventoryPageResponse{
		Items:   toItemResponses(page.Items),
		Query:   q.Q,
		Page:    page.Page,
		PerPage: page.PerPage,
		Total:   page.Total,
		Pages:   page.Pages,
	})
}

// Upsert godoc
// @Summary      Agregar cantidad a un ítem
// @Description  Crea el ítem con la cantidad dada o la suma a la existente. Los nombres distinguen mayúsculas.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertItemRequest  true  "name, quantity (entero positivo)"
// @Success      200   {object}  dto.InventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/items [post]
func (h *InventoryHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	b := h.binding(c)
	items, err := b.Add(c.Context(), in.Name, decimal.NewFromInt(in.Quantity))
	if err != nil {
		return h.storeError(c, b, err)
	}
	return c.JSON(h.snapshot(b, items))
}

// Increment godoc
// @Summary      Sumar una unidad
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre exacto del ítem"
// @Success      200   {object}  dto.InventoryResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{name}/increment [post]
func (h *InventoryHandler) Increment(c *fiber.Ctx) error {
	name, ok := itemName(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nombre requerido"})
	}
	b := h.binding(c)
	items, err := b.Add(c.Context(), name, decimal.NewFromInt(1))
	if err != nil {
		return h.storeError(c, b, err)
	}
	return c.JSON(h.snapshot(b, items))
}

// Remove godoc
// @Summary      Eliminar ítem
// @Description  Borra el ítem si existe; borrar un ítem inexistente no es error.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre exacto del ítem"
// @Success      200   {object}  dto.InventoryResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{name} [delete]
func (h *InventoryHandler) Remove(c *fiber.Ctx) error {
	name, ok := itemName(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nombre requerido"})
	}
	b := h.binding(c)
	items, err := b.Remove(c.Context(), name)
	if err != nil {
		return h.storeError(c, b, err)
	}
	return c.JSON(h.snapshot(b, items))
}

// ExportPDF godoc
// @Summary      Exportar inventario en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/export.pdf [get]
func (h *InventoryHandler) ExportPDF(c *fiber.Ctx) error {
	out, err := h.exports.PDF(c.Context(), GetIdentity(c))
	if err != nil {
		return h.exportError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario.pdf"`)
	return c.Send(out)
}

// ExportXML godoc
// @Summary      Exportar inventario en XML
// @Description  El ETag es el SHA-256 de la forma canónica de los ítems; If-None-Match devuelve 304.
// @Tags         inventory
// @Security     Bearer
// @Produce      application/xml
// @Success      200
// @Success      304
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/export.xml [get]
func (h *InventoryHandler) ExportXML(c *fiber.Ctx) error {
	out, digest, err := h.exports.XML(c.Context(), GetIdentity(c))
	if err != nil {
		return h.exportError(c, err)
	}
	etag := `"` + digest + `"`
	c.Set(fiber.HeaderETag, etag)
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(out)
}

// storeError responde el fallo del almacén junto con la última instantánea publicada
// de la vista, si la hay.
func (h *InventoryHandler) storeError(c *fiber.Ctx, b *inventory.Binding, err error) error {
	if errors.Is(err, domain.ErrNoIdentity) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_IDENTITY", Message: "sesión sin identidad"})
	}
	h.log.Error().Err(err).Str("session_id", GetSessionID(c)).Msg("operación de inventario fallida")
	resp := dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "no se pudo acceder al inventario"}
	if stale, ok := b.View().Items(); ok {
		resp.StaleItems = toItemResponses(stale)
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
}

func (h *InventoryHandler) exportError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNoIdentity) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_IDENTITY", Message: "sesión sin identidad"})
	}
	h.log.Error().Err(err).Str("session_id", GetSessionID(c)).Msg("exportación fallida")
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "EXPORT_FAILED", Message: "no se pudo exportar el inventario"})
}

func (h *InventoryHandler) snapshot(b *inventory.Binding, items []entity.Item) dto.InventoryResponse {
	return dto.InventoryResponse{Items: toItemResponses(items), RefreshedAt: b.View().RefreshedAt()}
}

func itemName(c *fiber.Ctx) (string, bool) {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

func toItemResponses(items []entity.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ItemResponse{Name: it.Name, Label: inventory.Label(it.Name), Quantity: it.Quantity})
	}
	return out
}
