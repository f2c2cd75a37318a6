package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/application/inventory"
)

// PartHandler maneja las peticiones HTTP del catálogo de piezas.
type PartHandler struct {
	catalog  *inventory.Catalog
	importer *inventory.Importer
}

// NewPartHandler construye el handler.
func NewPartHandler(catalog *inventory.Catalog, importer *inventory.Importer) *PartHandler {
	return &PartHandler{catalog: catalog, importer: importer}
}

// List godoc
// @Summary      Buscar piezas
// @Tags         parts
// @Produce      json
// @Param        q    query  string  false  "Término (nombre, SKU, MPN, categoría, ubicación)"
// @Success      200  {array}   entity.Part
// @Router       /api/parts [get]
func (h *PartHandler) List(c *fiber.Ctx) error {
	parts, err := h.catalog.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(parts)
}

// Create godoc
// @Summary      Crear pieza
// @Tags         parts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartRequest  true  "Datos de la pieza"
// @Success      201   {object}  entity.Part
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/parts [post]
func (h *PartHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	part, err := h.catalog.Add(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(part)
}

// GetByID godoc
// @Summary      Obtener pieza por ID
// @Tags         parts
// @Produce      json
// @Param        id   path  string  true  "ID de la pieza"
// @Success      200  {object}  entity.Part
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [get]
func (h *PartHandler) GetByID(c *fiber.Ctx) error {
	part, err := h.catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(part)
}

// Update godoc
// @Summary      Editar pieza (SKU y cantidad no cambian)
// @Tags         parts
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la pieza"
// @Param        body  body  dto.UpdatePartRequest  true  "Campos a modificar"
// @Success      200   {object}  entity.Part
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [put]
func (h *PartHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	part, err := h.catalog.Edit(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(part)
}

// Delete godoc
// @Summary      Eliminar pieza (idempotente)
// @Tags         parts
// @Param        id   path  string  true  "ID de la pieza"
// @Success      204
// @Router       /api/parts/{id} [delete]
func (h *PartHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Import godoc
// @Summary      Importar piezas desde texto TSV/CSV
// @Tags         parts
// @Accept       plain
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ImportCounts
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/parts/import [post]
func (h *PartHandler) Import(c *fiber.Ctx) error {
	text := string(c.Body())
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var in dto.ImportRequest
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		text = in.Text
	}
	counts, err := h.importer.Import(c.UserContext(), text)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(counts)
}
