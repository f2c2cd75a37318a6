package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/application/shopping"
	"github.com/jhoicas/anbar-api/internal/domain"
)

// importErrorResponse error 422 con los contadores de la importación.
type importErrorResponse struct {
	dto.ErrorResponse
	dto.ImportCounts
}

// writeError traduce los errores de dominio a estado HTTP y cuerpo dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	var (
		validation   *domain.ValidationError
		insufficient *domain.InsufficientStockError
		duplicate    *domain.DuplicateSKUError
		importErr    *domain.ImportError
	)
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validation.Reason, Field: validation.Field})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "تعداد باید عدد صحیح مثبت باشد"})
	case errors.As(err, &duplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_SKU", Message: fmt.Sprintf("SKU %s قبلاً ثبت شده است", duplicate.SKU), Field: "sku"})
	case errors.As(err, &insufficient):
		current := insufficient.Current
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: fmt.Sprintf("موجودی کافی نیست. موجودی فعلی: %d", current),
			Current: &current,
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "مورد یافت نشد"})
	case errors.As(err, &importErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(importErrorResponse{
			ErrorResponse: dto.ErrorResponse{Code: "NO_VALID_ROWS", Message: "هیچ ردیف معتبری برای وارد کردن یافت نشد"},
			ImportCounts:  dto.ImportCounts{Duplicates: importErr.Duplicates, Malformed: importErr.Malformed},
		})
	case errors.Is(err, domain.ErrPersistence):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "خطا در ذخیره‌سازی؛ دوباره تلاش کنید"})
	case errors.Is(err, shopping.ErrPDFDisabled):
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "PDF_DISABLED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
