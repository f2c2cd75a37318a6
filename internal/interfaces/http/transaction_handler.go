package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/application/inventory"
)

// TransactionHandler movimientos de stock, historial y tablero.
type TransactionHandler struct {
	ledger    *inventory.Ledger
	history   *inventory.History
	dashboard *inventory.Dashboard
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(ledger *inventory.Ledger, history *inventory.History, dashboard *inventory.Dashboard) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, history: history, dashboard: dashboard}
}

// Apply godoc
// @Summary      Registrar entrada o salida de stock
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyTransactionRequest  true  "SKU, tipo (in/out) y cantidad"
// @Success      201   {object}  dto.LedgerResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.Apply(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// History godoc
// @Summary      Historial de movimientos (más reciente primero)
// @Tags         transactions
// @Produce      json
// @Param        sku  query  string  false  "Filtrar por SKU"
// @Success      200  {array}  dto.HistoryEntry
// @Router       /api/transactions [get]
func (h *TransactionHandler) History(c *fiber.Ctx) error {
	entries, err := h.history.List(c.UserContext(), c.Query("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entries)
}

// Dashboard godoc
// @Summary      Resumen del inventario
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardStats
// @Router       /api/dashboard [get]
func (h *TransactionHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}
