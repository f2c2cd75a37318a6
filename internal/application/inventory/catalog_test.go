package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Add
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_AddNormalizaYRechazaDuplicado(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	p, err := e.catalog.Add(ctx, dto.CreatePartRequest{Name: "R1", SKU: "res-1", Location: "A1", Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, "RES-1", p.SKU)
	assert.Equal(t, 10, p.Quantity)
	assert.Equal(t, entity.DefaultCategory, p.Category)
	assert.NotEmpty(t, p.ID)

	for _, sku := range []string{"RES-1", "res-1", " Res-1 "} {
		_, err := e.catalog.Add(ctx, dto.CreatePartRequest{Name: "R1 bis", SKU: sku, Location: "B1"})
		var dup *domain.DuplicateSKUError
		require.True(t, errors.As(err, &dup), "sku %q debe ser duplicado", sku)
		assert.Equal(t, "RES-1", dup.SKU)
	}

	all, err := e.catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "los duplicados no se guardan")
}

func TestCatalog_AddInvalidoNoEscribe(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.catalog.Add(ctx, dto.CreatePartRequest{Name: "R1", SKU: "R1", Location: "", Quantity: 1})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "location", ve.Field)

	_, err = e.catalog.Add(ctx, dto.CreatePartRequest{Name: "R1", SKU: "R1", Location: "A", Quantity: -5})
	assert.ErrorIs(t, err, domain.ErrValidation)

	all, err := e.catalog.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCatalog_AddFalloDePersistencia(t *testing.T) {
	e := newEnv(t)
	e.store.FailSave(entity.KindParts, errors.New("disco lleno"))

	_, err := e.catalog.Add(context.Background(), dto.CreatePartRequest{Name: "R1", SKU: "R1", Location: "A"})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edit / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_EditIgnoraSKUyCantidad(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := e.addPart(t, "R1", "RES-1", "A1", 10)

	qty := 999
	got, err := e.catalog.Edit(ctx, p.ID, dto.UpdatePartRequest{
		Name:     strPtr("Resistor 1k"),
		SKU:      strPtr("OTHER"),
		Quantity: &qty,
		Location: strPtr("  B7 "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Resistor 1k", got.Name)
	assert.Equal(t, "B7", got.Location)
	assert.Equal(t, "RES-1", got.SKU)
	assert.Equal(t, 10, got.Quantity)

	stored, err := e.catalog.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestCatalog_EditInvalidoYNoEncontrado(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := e.addPart(t, "R1", "RES-1", "A1", 10)

	_, err := e.catalog.Edit(ctx, p.ID, dto.UpdatePartRequest{DatasheetURL: strPtr("not a url")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.catalog.Edit(ctx, "no-existe", dto.UpdatePartRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_DeleteEsIdempotenteYConservaHistorial(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := e.addPart(t, "R1", "RES-1", "A1", 10)
	_, err := e.ledger.Apply(ctx, dto.ApplyTransactionRequest{SKU: "RES-1", Type: "out", Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, e.catalog.Delete(ctx, p.ID))
	require.NoError(t, e.catalog.Delete(ctx, p.ID), "borrar dos veces no es error")

	_, err = e.catalog.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, e.transactions(t), 1, "los movimientos sobreviven a la pieza")
}

func TestCatalog_DeleteInexistenteNoEscribe(t *testing.T) {
	e := newEnv(t)
	e.store.FailSave(entity.KindParts, errors.New("no debería escribirse"))
	assert.NoError(t, e.catalog.Delete(context.Background(), "no-existe"))
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Search
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_ListOrdenaPorNombre(t *testing.T) {
	e := newEnv(t)
	e.addPart(t, "Zener", "Z1", "A", 1)
	e.addPart(t, "capacitor", "C1", "A", 1)
	e.addPart(t, "Diode", "D1", "A", 1)

	all, err := e.catalog.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"capacitor", "Diode", "Zener"}, []string{all[0].Name, all[1].Name, all[2].Name})
}

func TestCatalog_SearchEnVariosCampos(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.catalog.Add(ctx, dto.CreatePartRequest{Name: "Op-amp", SKU: "LM358", Category: "IC", Location: "Drawer 3", MPN: "LM358DR"})
	require.NoError(t, err)
	e.addPart(t, "LED", "LED-R", "Shelf", 5)

	cases := map[string]int{
		"lm358":  1, // sku y mpn
		"drawer": 1, // ubicación
		"ic":     1, // categoría
		"led":    1,
		"":       2,
		"zzz":    0,
	}
	for term, want := range cases {
		got, err := e.catalog.Search(ctx, term)
		require.NoError(t, err)
		assert.Len(t, got, want, "término %q", term)
	}
}
