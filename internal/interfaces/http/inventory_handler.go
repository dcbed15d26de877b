package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// InventoryHandler maneja el libro mayor de movimientos de stock (protegido).
type InventoryHandler struct {
	register *inventory.RegisterTransactionUseCase
	list     *inventory.ListTransactionsUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(register *inventory.RegisterTransactionUseCase, list *inventory.ListTransactionsUseCase) *InventoryHandler {
	return &InventoryHandler{register: register, list: list}
}

// RegisterTransaction godoc
// @Summary      Registrar movimiento de stock sobre un lote
// @Description  IN suma, OUT resta (falla si queda negativo), ADJUSTMENT fija la
//               cantidad absoluta. El asiento y la actualización del lote van en
//               una sola transacción de BD.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterTransactionRequest  true  "batch_id, type (IN|OUT|ADJUSTMENT), quantity, notes"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [post]
func (h *InventoryHandler) RegisterTransaction(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.BatchID == "" || in.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "batch_id y type son requeridos"})
	}
	out, err := h.register.Register(c.Context(), userID, in)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type debe ser IN, OUT o ADJUSTMENT con cantidad válida"})
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		case domain.ErrInsufficientStock:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente en el lote"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByMedicine godoc
// @Summary      Historial de movimientos de un medicamento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        medicine_id  query  string  true   "ID del medicamento"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) ListByMedicine(c *fiber.Ctx) error {
	medicineID := c.Query("medicine_id")
	if medicineID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "medicine_id es requerido"})
	}
	limit, offset := pageParams(c)
	out, err := h.list.ListByMedicine(medicineID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
