// Package shopping gestiona la lista de compras: ítems, orden de presentación, filtros,
// estadísticas y exportación (JSON y PDF).
package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/schema"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
	"github.com/jhoicas/anbar-api/pkg/faformat"
)

// GroupAll valor del filtro de grupo que no filtra.
const GroupAll = "all"

// UseCase operaciones de la lista de compras.
type UseCase struct {
	items     *persistence.Collection[entity.ShoppingItem]
	validator *schema.Validator
	seq       *Sequencer
	pdf       PDFRenderer
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string
}

// NewUseCase construye el caso de uso. pdf puede ser nil (exportación PDF deshabilitada).
func NewUseCase(a *persistence.Adapter, seq *Sequencer, pdf PDFRenderer, log zerolog.Logger) *UseCase {
	return &UseCase{
		items:     persistence.NewCollection[entity.ShoppingItem](a, entity.KindShoppingItems),
		validator: a.Validator(),
		seq:       seq,
		pdf:       pdf,
		log:       log.With().Str("component", "shopping").Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// SetClock reemplaza el reloj (tests).
func (uc *UseCase) SetClock(now func() time.Time) { uc.now = now }

// Add crea el ítem al final de la lista: sort_order = max+1.
func (uc *UseCase) Add(ctx context.Context, in dto.ShoppingItemRequest) (entity.ShoppingItem, error) {
	item, err := uc.validator.ShoppingItem(fromRequest(uc.newID(), in))
	if err != nil {
		return entity.ShoppingItem{}, err
	}
	items, err := uc.items.LoadAll(ctx)
	if err != nil {
		return entity.ShoppingItem{}, err
	}
	item.SortOrder = NextSortOrder(items)
	if err := uc.items.SaveAll(ctx, append(items, item)); err != nil {
		return entity.ShoppingItem{}, err
	}
	return item, nil
}

// Update reemplaza los datos del ítem conservando id y sort_order.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.ShoppingItemRequest) (entity.ShoppingItem, error) {
	items, err := uc.items.LoadAll(ctx)
	if err != nil {
		return entity.ShoppingItem{}, err
	}
	i := indexByID(items, id)
	if i < 0 {
		return entity.ShoppingItem{}, &domain.NotFoundError{Kind: entity.KindShoppingItems.String(), Key: id}
	}
	next := fromRequest(id, in)
	next.SortOrder = items[i].SortOrder
	next, err = uc.validator.ShoppingItem(next)
	if err != nil {
		return entity.ShoppingItem{}, err
	}
	items[i] = next
	if err := uc.items.SaveAll(ctx, items); err != nil {
		return entity.ShoppingItem{}, err
	}
	return next, nil
}

// Delete elimina el ítem y compacta el orden a 0..n-1. Un id inexistente no es error.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	items, err := uc.items.LoadAll(ctx)
	if err != nil {
		return err
	}
	i := indexByID(items, id)
	if i < 0 {
		return nil
	}
	items = compact(slices.Delete(items, i, i+1))
	return uc.items.SaveAll(ctx, items)
}

// List ítems en orden de presentación filtrados por grupo (vacío o "all" no filtra)
// y por término en título, descripción corta o grupo.
func (uc *UseCase) List(ctx context.Context, group, term string) ([]entity.ShoppingItem, error) {
	items, err := uc.seq.Ordered(ctx)
	if err != nil {
		return nil, err
	}
	group = strings.TrimSpace(group)
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]entity.ShoppingItem, 0, len(items))
	for _, it := range items {
		if group != "" && group != GroupAll && it.GroupName != group {
			continue
		}
		if term != "" && !matchesItem(it, term) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// Groups nombres de grupo distintos en orden de primera aparición.
func (uc *UseCase) Groups(ctx context.Context) ([]string, error) {
	items, err := uc.seq.Ordered(ctx)
	if err != nil {
		return nil, err
	}
	groups := make([]string, 0)
	for _, it := range items {
		if !slices.Contains(groups, it.GroupName) {
			groups = append(groups, it.GroupName)
		}
	}
	return groups, nil
}

// Stats totales de la lista.
func (uc *UseCase) Stats(ctx context.Context) (dto.ShoppingStats, error) {
	items, err := uc.items.LoadAll(ctx)
	if err != nil {
		return dto.ShoppingStats{}, err
	}
	return ComputeStats(items), nil
}

// ComputeStats cantidad total, valor total (Σ cantidad·precio), proveedores y grupos distintos,
// y el gasto por proveedor (Σ cantidad·precio del proveedor), en orden de primera aparición.
func ComputeStats(items []entity.ShoppingItem) dto.ShoppingStats {
	s := dto.ShoppingStats{TotalItems: len(items), Suppliers: []dto.SupplierTotal{}}
	groups := make(map[string]struct{})
	index := make(map[string]int)
	for _, it := range items {
		s.TotalQuantity += it.Quantity
		s.TotalValue += it.Value()
		groups[it.GroupName] = struct{}{}
		for _, sup := range it.Suppliers {
			j, ok := index[sup.Name]
			if !ok {
				j = len(s.Suppliers)
				index[sup.Name] = j
				s.Suppliers = append(s.Suppliers, dto.SupplierTotal{Name: sup.Name})
			}
			s.Suppliers[j].Total += int64(it.Quantity) * sup.Price
			s.Suppliers[j].Items++
		}
	}
	s.SuppliersCount = len(s.Suppliers)
	s.GroupsCount = len(groups)
	s.TotalValueDisplay = faformat.Rial(s.TotalValue)
	return s
}

// Export lista completa en orden de presentación como arreglo JSON.
func (uc *UseCase) Export(ctx context.Context) (dto.Export, error) {
	items, err := uc.seq.Ordered(ctx)
	if err != nil {
		return dto.Export{}, err
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return dto.Export{}, fmt.Errorf("serializar exportación: %w", err)
	}
	return dto.Export{FileName: exportName(uc.now(), "json"), Data: data}, nil
}

// ErrPDFDisabled la exportación PDF no está configurada.
var ErrPDFDisabled = errors.New("exportación PDF no disponible")

// ExportPDF hoja de compras en PDF.
func (uc *UseCase) ExportPDF(ctx context.Context) (dto.Export, error) {
	if uc.pdf == nil {
		return dto.Export{}, ErrPDFDisabled
	}
	items, err := uc.seq.Ordered(ctx)
	if err != nil {
		return dto.Export{}, err
	}
	now := uc.now()
	data, err := uc.pdf.RenderShoppingList(ctx, items, ComputeStats(items), now)
	if err != nil {
		uc.log.Error().Err(err).Msg("generar PDF")
		return dto.Export{}, err
	}
	return dto.Export{FileName: exportName(now, "pdf"), Data: data}, nil
}

func exportName(t time.Time, ext string) string {
	return fmt.Sprintf("shopping-list-%s.%s", t.Format(time.DateOnly), ext)
}

func fromRequest(id string, in dto.ShoppingItemRequest) entity.ShoppingItem {
	return entity.ShoppingItem{
		ID:        id,
		Title:     in.Title,
		Quantity:  in.Quantity,
		Price:     in.Price,
		GroupName: in.GroupName,
		Color:     in.Color,
		ShortInfo: in.ShortInfo,
		FullInfo:  in.FullInfo,
		Suppliers: in.Suppliers,
		Width:     in.Width,
		Height:    in.Height,
	}
}

func matchesItem(it entity.ShoppingItem, term string) bool {
	return strings.Contains(strings.ToLower(it.Title), term) ||
		strings.Contains(strings.ToLower(it.ShortInfo), term) ||
		strings.Contains(strings.ToLower(it.GroupName), term)
}

func indexByID(items []entity.ShoppingItem, id string) int {
	return slices.IndexFunc(items, func(it entity.ShoppingItem) bool { return it.ID == id })
}
