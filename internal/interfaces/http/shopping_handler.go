package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/application/shopping"
)

// ShoppingHandler lista de compras.
type ShoppingHandler struct {
	uc  *shopping.UseCase
	seq *shopping.Sequencer
}

// NewShoppingHandler construye el handler.
func NewShoppingHandler(uc *shopping.UseCase, seq *shopping.Sequencer) *ShoppingHandler {
	return &ShoppingHandler{uc: uc, seq: seq}
}

// List godoc
// @Summary      Ítems en orden de presentación
// @Tags         shopping
// @Produce      json
// @Param        group  query  string  false  "Grupo (all = todos)"
// @Param        q      query  string  false  "Término"
// @Success      200    {array}  entity.ShoppingItem
// @Router       /api/shopping-items [get]
func (h *ShoppingHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.List(c.UserContext(), c.Query("group"), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// Create godoc
// @Summary      Agregar ítem al final de la lista
// @Tags         shopping
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShoppingItemRequest  true  "Ítem"
// @Success      201   {object}  entity.ShoppingItem
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/shopping-items [post]
func (h *ShoppingHandler) Create(c *fiber.Ctx) error {
	var in dto.ShoppingItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	item, err := h.uc.Add(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update godoc
// @Summary      Editar ítem (conserva su posición)
// @Tags         shopping
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID"
// @Param        body  body  dto.ShoppingItemRequest  true  "Ítem"
// @Success      200   {object}  entity.ShoppingItem
// @Router       /api/shopping-items/{id} [put]
func (h *ShoppingHandler) Update(c *fiber.Ctx) error {
	var in dto.ShoppingItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	item, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}

// Delete godoc
// @Summary      Eliminar ítem (idempotente)
// @Tags         shopping
// @Param        id   path  string  true  "ID"
// @Success      204
// @Router       /api/shopping-items/{id} [delete]
func (h *ShoppingHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reorder godoc
// @Summary      Reordenar la lista completa
// @Tags         shopping
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReorderRequest  true  "ids en el nuevo orden"
// @Success      200   {array}  entity.ShoppingItem
// @Router       /api/shopping-items/order [put]
func (h *ShoppingHandler) Reorder(c *fiber.Ctx) error {
	var in dto.ReorderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	items, err := h.seq.Reorder(c.UserContext(), in.IDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// Move godoc
// @Summary      Mover un ítem a otra posición
// @Tags         shopping
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID"
// @Param        body  body  dto.MoveRequest  true  "posición destino (0..n-1)"
// @Success      200   {array}  entity.ShoppingItem
// @Router       /api/shopping-items/{id}/move [post]
func (h *ShoppingHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	items, err := h.seq.Move(c.UserContext(), c.Params("id"), in.To)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// Groups godoc
// @Summary      Grupos existentes
// @Tags         shopping
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/shopping-items/groups [get]
func (h *ShoppingHandler) Groups(c *fiber.Ctx) error {
	groups, err := h.uc.Groups(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(groups)
}

// Stats godoc
// @Summary      Totales de la lista
// @Tags         shopping
// @Produce      json
// @Success      200  {object}  dto.ShoppingStats
// @Router       /api/shopping-items/stats [get]
func (h *ShoppingHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}

// Export godoc
// @Summary      Descargar la lista como JSON
// @Tags         shopping
// @Produce      json
// @Success      200
// @Router       /api/shopping-items/export [get]
func (h *ShoppingHandler) Export(c *fiber.Ctx) error {
	exp, err := h.uc.Export(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, exp, fiber.MIMEApplicationJSONCharsetUTF8)
}

// ExportPDF godoc
// @Summary      Descargar la lista como PDF
// @Tags         shopping
// @Produce      application/pdf
// @Success      200
// @Router       /api/shopping-items/export.pdf [get]
func (h *ShoppingHandler) ExportPDF(c *fiber.Ctx) error {
	exp, err := h.uc.ExportPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, exp, "application/pdf")
}

func sendAttachment(c *fiber.Ctx, exp dto.Export, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exp.FileName))
	return c.Send(exp.Data)
}
