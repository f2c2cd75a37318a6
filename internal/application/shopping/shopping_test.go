package shopping_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/application/shopping"
	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/schema"
	"github.com/jhoicas/anbar-api/internal/infrastructure/memory"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
)

// fakePDF registra la llamada y devuelve un documento fijo.
type fakePDF struct {
	items []entity.ShoppingItem
	stats dto.ShoppingStats
}

func (f *fakePDF) RenderShoppingList(_ context.Context, items []entity.ShoppingItem, stats dto.ShoppingStats, _ time.Time) ([]byte, error) {
	f.items, f.stats = items, stats
	return []byte("%PDF-fake"), nil
}

type env struct {
	store *memory.Store
	seq   *shopping.Sequencer
	uc    *shopping.UseCase
}

func newEnv(t *testing.T, pdf shopping.PDFRenderer) *env {
	t.Helper()
	s := memory.New()
	a := persistence.NewAdapter(s, schema.New(), persistence.Options{Logger: zerolog.Nop()})
	seq := shopping.NewSequencer(a)
	uc := shopping.NewUseCase(a, seq, pdf, zerolog.Nop())
	uc.SetClock(func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) })
	return &env{store: s, seq: seq, uc: uc}
}

func (e *env) add(t *testing.T, title, group string, qty int, price int64, suppliers ...entity.Supplier) entity.ShoppingItem {
	t.Helper()
	it, err := e.uc.Add(context.Background(), dto.ShoppingItemRequest{
		Title: title, GroupName: group, Quantity: qty, Price: price, Suppliers: suppliers,
	})
	require.NoError(t, err)
	return it
}

func (e *env) titles(t *testing.T) []string {
	t.Helper()
	items, err := e.seq.Ordered(context.Background())
	require.NoError(t, err)
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func assertDense(t *testing.T, items []entity.ShoppingItem) {
	t.Helper()
	for i, it := range items {
		assert.Equal(t, i, it.SortOrder, "sort_order de %s", it.Title)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta, edición y baja
// ──────────────────────────────────────────────────────────────────────────────

func TestUseCase_AddAlFinal(t *testing.T) {
	e := newEnv(t, nil)
	a := e.add(t, "A", "", 1, 0)
	b := e.add(t, "B", "", 1, 0)
	c := e.add(t, "C", "", 1, 0)

	assert.Equal(t, []int{0, 1, 2}, []int{a.SortOrder, b.SortOrder, c.SortOrder})
	assert.Equal(t, entity.DefaultGroup, a.GroupName)
	assert.Equal(t, entity.DefaultColor, a.Color)
}

func TestUseCase_AddInvalido(t *testing.T) {
	e := newEnv(t, nil)
	_, err := e.uc.Add(context.Background(), dto.ShoppingItemRequest{Title: "X", Quantity: 0})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "quantity", ve.Field)
}

func TestUseCase_UpdateConservaOrden(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	e.add(t, "A", "", 1, 0)
	b := e.add(t, "B", "", 1, 0)

	got, err := e.uc.Update(ctx, b.ID, dto.ShoppingItemRequest{Title: "B2", Quantity: 4, Price: 10})
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, 1, got.SortOrder)
	assert.Equal(t, []string{"A", "B2"}, e.titles(t))

	_, err = e.uc.Update(ctx, "no-existe", dto.ShoppingItemRequest{Title: "x", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUseCase_DeleteCompacta(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	e.add(t, "A", "", 1, 0)
	b := e.add(t, "B", "", 1, 0)
	e.add(t, "C", "", 1, 0)

	require.NoError(t, e.uc.Delete(ctx, b.ID))
	require.NoError(t, e.uc.Delete(ctx, b.ID), "borrar dos veces no es error")

	items, err := e.seq.Ordered(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, e.titles(t))
	assertDense(t, items)

	d := e.add(t, "D", "", 1, 0)
	assert.Equal(t, 2, d.SortOrder)
}

// ──────────────────────────────────────────────────────────────────────────────
// Secuenciador
// ──────────────────────────────────────────────────────────────────────────────

func TestSequencer_ReorderEsBiyeccion(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	a := e.add(t, "A", "", 1, 0)
	b := e.add(t, "B", "", 1, 0)
	c := e.add(t, "C", "", 1, 0)

	got, err := e.seq.Reorder(ctx, []string{c.ID, a.ID, b.ID})
	require.NoError(t, err)
	assertDense(t, got)
	assert.Equal(t, []string{"C", "A", "B"}, e.titles(t))
}

func TestSequencer_ReorderRechazaNoPermutaciones(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	a := e.add(t, "A", "", 1, 0)
	b := e.add(t, "B", "", 1, 0)

	for name, ids := range map[string][]string{
		"falta uno":   {a.ID},
		"repetido":    {a.ID, a.ID},
		"desconocido": {a.ID, "x"},
		"sobra uno":   {a.ID, b.ID, "x"},
	} {
		_, err := e.seq.Reorder(ctx, ids)
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve), name)
		assert.Equal(t, "ids", ve.Field, name)
	}
	assert.Equal(t, []string{"A", "B"}, e.titles(t), "el orden no cambia")
}

func TestSequencer_MoveConAjusteDeRango(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	a := e.add(t, "A", "", 1, 0)
	e.add(t, "B", "", 1, 0)
	c := e.add(t, "C", "", 1, 0)
	e.add(t, "D", "", 1, 0)

	_, err := e.seq.Move(ctx, a.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A", "D"}, e.titles(t))

	_, err = e.seq.Move(ctx, c.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A", "D"}, e.titles(t))

	got, err := e.seq.Move(ctx, c.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "D", "C"}, e.titles(t))
	assertDense(t, got)

	_, err = e.seq.Move(ctx, "no-existe", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSequencer_OrdenGuardadoConHuecos(t *testing.T) {
	e := newEnv(t, nil)
	e.store.Put(entity.KindShoppingItems,
		json.RawMessage(`{"id":"11111111-1111-4111-8111-111111111111","title":"late","quantity":1,"group_name":"g","color":"#000000","suppliers":[],"sort_order":9}`),
		json.RawMessage(`{"id":"22222222-2222-4222-8222-222222222222","title":"early","quantity":1,"group_name":"g","color":"#000000","suppliers":[],"sort_order":2}`),
	)
	assert.Equal(t, []string{"early", "late"}, e.titles(t))
	assert.Equal(t, 10, shopping.NextSortOrder([]entity.ShoppingItem{{SortOrder: 9}, {SortOrder: 2}}))
	assert.Equal(t, 0, shopping.NextSortOrder(nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestUseCase_ListFiltraPorGrupoYTermino(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	e.add(t, "Soldering iron", "Tools", 1, 0)
	e.add(t, "Resistor kit", "Parts", 1, 0)
	e.add(t, "Solder wire", "Parts", 1, 0)

	got, err := e.uc.List(ctx, shopping.GroupAll, "")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = e.uc.List(ctx, "Parts", "solder")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Solder wire", got[0].Title)

	groups, err := e.uc.Groups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tools", "Parts"}, groups)
}

func TestComputeStats(t *testing.T) {
	items := []entity.ShoppingItem{
		{Title: "A", Quantity: 2, Price: 100, GroupName: "g1", Suppliers: []entity.Supplier{{Name: "S1", Price: 90}, {Name: "S2", Price: 110}}},
		{Title: "B", Quantity: 3, Price: 50, GroupName: "g2", Suppliers: []entity.Supplier{{Name: "S1", Price: 40}}},
		{Title: "C", Quantity: 1, Price: 0, GroupName: "g1"},
	}
	s := shopping.ComputeStats(items)
	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, 6, s.TotalQuantity)
	assert.Equal(t, int64(350), s.TotalValue)
	assert.Equal(t, 2, s.GroupsCount)
	assert.Equal(t, 2, s.SuppliersCount)
	assert.Equal(t, []dto.SupplierTotal{
		{Name: "S1", Total: 2*90 + 3*40, Items: 2},
		{Name: "S2", Total: 2 * 110, Items: 1},
	}, s.Suppliers)
	assert.Contains(t, s.TotalValueDisplay, "ریال")

	empty := shopping.ComputeStats(nil)
	assert.Zero(t, empty.TotalValue)
	assert.NotNil(t, empty.Suppliers)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación
// ──────────────────────────────────────────────────────────────────────────────

func TestUseCase_ExportJSON(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	a := e.add(t, "A", "", 1, 0)
	e.add(t, "B", "", 1, 0)
	_, err := e.seq.Move(ctx, a.ID, 1)
	require.NoError(t, err)

	exp, err := e.uc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "shopping-list-2026-10-17.json", exp.FileName)

	var items []entity.ShoppingItem
	require.NoError(t, json.Unmarshal(exp.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[0].Title, "en orden de presentación")
}

func TestUseCase_ExportPDF(t *testing.T) {
	ctx := context.Background()

	_, err := newEnv(t, nil).uc.ExportPDF(ctx)
	assert.ErrorIs(t, err, shopping.ErrPDFDisabled)

	pdf := &fakePDF{}
	e := newEnv(t, pdf)
	e.add(t, "A", "", 2, 10)
	exp, err := e.uc.ExportPDF(ctx)
	require.NoError(t, err)
	assert.Equal(t, "shopping-list-2026-10-17.pdf", exp.FileName)
	assert.Equal(t, []byte("%PDF-fake"), exp.Data)
	assert.Len(t, pdf.items, 1)
	assert.Equal(t, int64(20), pdf.stats.TotalValue)
}
