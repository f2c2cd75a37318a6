package shopping

import (
	"context"
	"time"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
)

// PDFRenderer genera la hoja de compras en PDF (implementada en infrastructure/pdf).
type PDFRenderer interface {
	RenderShoppingList(ctx context.Context, items []entity.ShoppingItem, stats dto.ShoppingStats, at time.Time) ([]byte, error)
}
