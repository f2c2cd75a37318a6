package inventory

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/schema"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
)

// UnknownPartLabel nombre mostrado para movimientos de piezas eliminadas.
const UnknownPartLabel = "قطعه حذف شده/نامشخص"

// History consulta de movimientos, del más reciente al más antiguo.
type History struct {
	parts *persistence.Collection[entity.Part]
	txs   *persistence.Collection[entity.Transaction]
}

// NewHistory construye la consulta.
func NewHistory(a *persistence.Adapter) *History {
	return &History{
		parts: persistence.NewCollection[entity.Part](a, entity.KindParts),
		txs:   persistence.NewCollection[entity.Transaction](a, entity.KindTransactions),
	}
}

// List devuelve los movimientos ordenados por created_at descendente. sku vacío no filtra.
func (h *History) List(ctx context.Context, sku string) ([]dto.HistoryEntry, error) {
	txs, err := h.txs.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	parts, err := h.parts.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(parts))
	for _, p := range parts {
		names[schema.NormalizeSKU(p.SKU)] = p.Name
	}

	filter := schema.NormalizeSKU(sku)
	entries := make([]dto.HistoryEntry, 0, len(txs))
	for _, t := range txs {
		key := schema.NormalizeSKU(t.PartSKU)
		if filter != "" && key != filter {
			continue
		}
		name, known := names[key]
		if !known {
			name = UnknownPartLabel
		}
		entries = append(entries, dto.HistoryEntry{Transaction: t, PartName: name, PartKnown: known})
	}

	slices.SortStableFunc(entries, func(a, b dto.HistoryEntry) int {
		if c := b.CreatedTime().Compare(a.CreatedTime()); c != 0 {
			return c
		}
		return strings.Compare(b.CreatedAt, a.CreatedAt)
	})
	return entries, nil
}
