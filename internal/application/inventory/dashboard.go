package inventory

import (
	"context"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
	"github.com/jhoicas/anbar-api/pkg/faformat"
)

// Dashboard resumen del inventario.
type Dashboard struct {
	parts *persistence.Collection[entity.Part]
}

// NewDashboard construye el resumen.
func NewDashboard(a *persistence.Adapter) *Dashboard {
	return &Dashboard{parts: persistence.NewCollection[entity.Part](a, entity.KindParts)}
}

// Stats piezas distintas, cantidad total y ubicaciones distintas.
func (d *Dashboard) Stats(ctx context.Context) (dto.DashboardStats, error) {
	parts, err := d.parts.LoadAll(ctx)
	if err != nil {
		return dto.DashboardStats{}, err
	}
	var total int64
	locations := make(map[string]struct{})
	for _, p := range parts {
		total += int64(p.Quantity)
		locations[p.Location] = struct{}{}
	}
	s := dto.DashboardStats{
		UniqueParts:     len(parts),
		TotalQuantity:   total,
		UniqueLocations: len(locations),
	}
	s.Display = dto.DashboardDisplay{
		UniqueParts:     faformat.Number(int64(s.UniqueParts)),
		TotalQuantity:   faformat.Number(s.TotalQuantity),
		UniqueLocations: faformat.Number(int64(s.UniqueLocations)),
	}
	return s, nil
}
