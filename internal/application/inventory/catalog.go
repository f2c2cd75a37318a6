// Package inventory implementa el catálogo de piezas, el ledger de stock, la importación masiva,
// el historial de movimientos y el resumen del tablero.
//
// Toda operación que modifica datos es lectura-modificación-escritura de la colección completa:
// se carga, se calcula la nueva colección y se guarda entera. No hay locks propios; entre procesos
// gana la última escritura.
package inventory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/schema"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
)

// Catalog alta, edición, baja y búsqueda de piezas. SKU es único en todo el catálogo.
type Catalog struct {
	parts     *persistence.Collection[entity.Part]
	validator *schema.Validator
	log       zerolog.Logger
	newID     func() string
}

// NewCatalog construye el catálogo sobre el adaptador.
func NewCatalog(a *persistence.Adapter, log zerolog.Logger) *Catalog {
	return &Catalog{
		parts:     persistence.NewCollection[entity.Part](a, entity.KindParts),
		validator: a.Validator(),
		log:       log.With().Str("component", "catalog").Logger(),
		newID:     uuid.NewString,
	}
}

// List devuelve todas las piezas ordenadas por nombre (orden estable, colación persa).
func (c *Catalog) List(ctx context.Context) ([]entity.Part, error) {
	parts, err := c.parts.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	sortByName(parts)
	return parts, nil
}

// Get busca una pieza por id.
func (c *Catalog) Get(ctx context.Context, id string) (entity.Part, error) {
	parts, err := c.parts.LoadAll(ctx)
	if err != nil {
		return entity.Part{}, err
	}
	i := indexByID(parts, id)
	if i < 0 {
		return entity.Part{}, &domain.NotFoundError{Kind: entity.KindParts.String(), Key: id}
	}
	return parts[i], nil
}

// Add valida la pieza, comprueba que su SKU normalizado no exista y la guarda.
func (c *Catalog) Add(ctx context.Context, in dto.CreatePartRequest) (entity.Part, error) {
	part, err := c.validator.Part(entity.Part{
		ID:           c.newID(),
		Name:         in.Name,
		SKU:          in.SKU,
		Category:     in.Category,
		Footprint:    in.Footprint,
		Location:     in.Location,
		Quantity:     in.Quantity,
		MPN:          in.MPN,
		DatasheetURL: in.DatasheetURL,
	})
	if err != nil {
		return entity.Part{}, err
	}

	parts, err := c.parts.LoadAll(ctx)
	if err != nil {
		return entity.Part{}, err
	}
	if indexBySKU(parts, part.SKU) >= 0 {
		return entity.Part{}, &domain.DuplicateSKUError{SKU: part.SKU}
	}

	parts = append(parts, part)
	if err := c.parts.SaveAll(ctx, parts); err != nil {
		return entity.Part{}, err
	}
	c.log.Info().Str("sku", part.SKU).Str("id", part.ID).Msg("pieza creada")
	return part, nil
}

// Edit aplica los campos presentes en patch. SKU y cantidad no cambian por esta vía.
func (c *Catalog) Edit(ctx context.Context, id string, patch dto.UpdatePartRequest) (entity.Part, error) {
	parts, err := c.parts.LoadAll(ctx)
	if err != nil {
		return entity.Part{}, err
	}
	i := indexByID(parts, id)
	if i < 0 {
		return entity.Part{}, &domain.NotFoundError{Kind: entity.KindParts.String(), Key: id}
	}

	p := parts[i]
	setIf(&p.Name, patch.Name)
	setIf(&p.Category, patch.Category)
	setIf(&p.Footprint, patch.Footprint)
	setIf(&p.Location, patch.Location)
	setIf(&p.MPN, patch.MPN)
	setIf(&p.DatasheetURL, patch.DatasheetURL)

	p, err = c.validator.Part(p)
	if err != nil {
		return entity.Part{}, err
	}
	parts[i] = p
	if err := c.parts.SaveAll(ctx, parts); err != nil {
		return entity.Part{}, err
	}
	return p, nil
}

// Delete elimina la pieza. Un id inexistente no es error y no escribe nada.
// Los movimientos históricos de la pieza se conservan.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	parts, err := c.parts.LoadAll(ctx)
	if err != nil {
		return err
	}
	i := indexByID(parts, id)
	if i < 0 {
		return nil
	}
	sku := parts[i].SKU
	parts = slices.Delete(parts, i, i+1)
	if err := c.parts.SaveAll(ctx, parts); err != nil {
		return err
	}
	c.log.Info().Str("sku", sku).Str("id", id).Msg("pieza eliminada")
	return nil
}

// Search coincidencia parcial sin distinguir mayúsculas en nombre, SKU, MPN, categoría y ubicación.
// Término vacío devuelve todo, en el orden de List.
func (c *Catalog) Search(ctx context.Context, term string) ([]entity.Part, error) {
	parts, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return parts, nil
	}
	out := make([]entity.Part, 0, len(parts))
	for _, p := range parts {
		if matchesPart(p, term) {
			out = append(out, p)
		}
	}
	return out, nil
}

func matchesPart(p entity.Part, term string) bool {
	for _, f := range []string{p.Name, p.SKU, p.MPN, p.Category, p.Location} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func sortByName(parts []entity.Part) {
	col := collate.New(language.Persian, collate.IgnoreCase)
	slices.SortStableFunc(parts, func(a, b entity.Part) int {
		return col.CompareString(a.Name, b.Name)
	})
}

func indexByID(parts []entity.Part, id string) int {
	return slices.IndexFunc(parts, func(p entity.Part) bool { return p.ID == id })
}

// indexBySKU compara SKUs normalizados: los registros externos pueden venir en minúsculas.
func indexBySKU(parts []entity.Part, sku string) int {
	sku = schema.NormalizeSKU(sku)
	return slices.IndexFunc(parts, func(p entity.Part) bool { return schema.NormalizeSKU(p.SKU) == sku })
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
