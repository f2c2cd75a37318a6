package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/repository"
	"github.com/jhoicas/anbar-api/internal/domain/schema"
)

// Collection acceso tipado a una colección: Part, Transaction o ShoppingItem.
type Collection[T any] struct {
	a    *Adapter
	kind entity.Kind
}

// NewCollection enlaza la colección kind al adaptador.
func NewCollection[T any](a *Adapter, kind entity.Kind) *Collection[T] {
	return &Collection[T]{a: a, kind: kind}
}

// Kind devuelve la colección.
func (c *Collection[T]) Kind() entity.Kind { return c.kind }

// LoadAll carga y valida la colección. Los registros inválidos se descartan con un aviso;
// una colección corrupta se trata como vacía. Solo los fallos del store devuelven error.
func (c *Collection[T]) LoadAll(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.a.timeout)
	defer cancel()

	raws, err := c.a.store.Load(ctx, c.kind)
	if errors.Is(err, repository.ErrCorruptCollection) {
		c.a.metrics.StoreOp(c.kind.String(), "load", nil)
		c.a.log.Warn().Err(err).Str("kind", c.kind.String()).Msg("colección corrupta, se trata como vacía")
		return []T{}, nil
	}
	c.a.metrics.StoreOp(c.kind.String(), "load", err)
	if err != nil {
		c.a.log.Error().Err(err).Str("kind", c.kind.String()).Msg("cargar colección")
		return nil, &domain.PersistenceError{Op: "load", Kind: c.kind.String(), Err: err}
	}

	items := make([]T, 0, len(raws))
	seen := make(map[string]struct{})
	dropped := 0
	for i, raw := range raws {
		item, err := schema.Decode[T](c.a.validator, c.kind, raw)
		if err != nil {
			dropped++
			c.a.log.Warn().Err(err).Str("kind", c.kind.String()).Int("index", i).Msg("registro inválido descartado")
			continue
		}
		// SKU único en el catálogo: ante SKUs que solo difieren en mayúsculas gana el primero.
		if sku, ok := uniqueKey(item); ok {
			if _, dup := seen[sku]; dup {
				dropped++
				c.a.log.Warn().Str("kind", c.kind.String()).Str("sku", sku).Int("index", i).Msg("SKU repetido descartado")
				continue
			}
			seen[sku] = struct{}{}
		}
		items = append(items, item)
	}
	c.a.metrics.Dropped(c.kind.String(), dropped)
	return items, nil
}

// Prepare valida y serializa la colección completa sin escribirla.
// Basta un elemento inválido para devolver su *domain.ValidationError.
func (c *Collection[T]) Prepare(items []T) (repository.Write, error) {
	records := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		valid, err := schema.Check(c.a.validator, item)
		if err != nil {
			return repository.Write{}, err
		}
		raw, err := json.Marshal(valid)
		if err != nil {
			return repository.Write{}, fmt.Errorf("serializar %s: %w", c.kind, err)
		}
		records = append(records, raw)
	}
	return repository.Write{Kind: c.kind, Records: records}, nil
}

// SaveAll valida y reemplaza la colección completa. Si algo es inválido el store no se toca.
func (c *Collection[T]) SaveAll(ctx context.Context, items []T) error {
	w, err := c.Prepare(items)
	if err != nil {
		return err
	}
	return c.a.Save(ctx, w)
}

// uniqueKey clave que debe ser única dentro de la colección, si el tipo la tiene.
func uniqueKey(item any) (string, bool) {
	if p, ok := item.(entity.Part); ok {
		return schema.NormalizeSKU(p.SKU), true
	}
	return "", false
}
