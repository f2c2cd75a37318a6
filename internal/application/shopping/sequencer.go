package shopping

import (
	"context"
	"slices"

	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
)

// Sequencer mantiene sort_order como secuencia densa 0..n-1 en el orden elegido por el usuario.
// Cada cambio de orden reescribe la colección entera en una sola escritura.
type Sequencer struct {
	items *persistence.Collection[entity.ShoppingItem]
}

// NewSequencer construye el secuenciador.
func NewSequencer(a *persistence.Adapter) *Sequencer {
	return &Sequencer{items: persistence.NewCollection[entity.ShoppingItem](a, entity.KindShoppingItems)}
}

// Ordered carga los ítems en orden de presentación (sort_order, y orden guardado ante empates).
func (s *Sequencer) Ordered(ctx context.Context) ([]entity.ShoppingItem, error) {
	items, err := s.items.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	sortByOrder(items)
	return items, nil
}

// Reorder asigna sort_order = índice según ids, que debe ser una permutación de los ids guardados.
func (s *Sequencer) Reorder(ctx context.Context, ids []string) ([]entity.ShoppingItem, error) {
	items, err := s.items.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.ShoppingItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	if len(ids) != len(items) {
		return nil, permutationError()
	}
	out := make([]entity.ShoppingItem, 0, len(ids))
	for i, id := range ids {
		it, ok := byID[id]
		if !ok {
			return nil, permutationError()
		}
		delete(byID, id) // un id repetido no se encuentra la segunda vez
		it.SortOrder = i
		out = append(out, it)
	}
	if err := s.items.SaveAll(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Move lleva el ítem id a la posición to del orden actual (arrastrar y soltar).
// to fuera de rango se ajusta al extremo más cercano.
func (s *Sequencer) Move(ctx context.Context, id string, to int) ([]entity.ShoppingItem, error) {
	items, err := s.Ordered(ctx)
	if err != nil {
		return nil, err
	}
	from := slices.IndexFunc(items, func(it entity.ShoppingItem) bool { return it.ID == id })
	if from < 0 {
		return nil, &domain.NotFoundError{Kind: entity.KindShoppingItems.String(), Key: id}
	}
	to = max(0, min(to, len(items)-1))

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	ids = slices.Delete(ids, from, from+1)
	ids = slices.Insert(ids, to, id)
	return s.Reorder(ctx, ids)
}

// NextSortOrder max(sort_order)+1, o 0 si la lista está vacía.
func NextSortOrder(items []entity.ShoppingItem) int {
	next := 0
	for _, it := range items {
		if it.SortOrder+1 > next {
			next = it.SortOrder + 1
		}
	}
	return next
}

// compact reasigna 0..n-1 respetando el orden actual.
func compact(items []entity.ShoppingItem) []entity.ShoppingItem {
	sortByOrder(items)
	for i := range items {
		items[i].SortOrder = i
	}
	return items
}

func sortByOrder(items []entity.ShoppingItem) {
	slices.SortStableFunc(items, func(a, b entity.ShoppingItem) int { return a.SortOrder - b.SortOrder })
}

func permutationError() error {
	return domain.NewValidationError(entity.KindShoppingItems.String(), "ids", "ترتیب جدید باید شامل همه اقلام دقیقاً یک بار باشد")
}
