package persistence_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/repository"
	"github.com/jhoicas/anbar-api/internal/domain/schema"
	"github.com/jhoicas/anbar-api/internal/infrastructure/memory"
	"github.com/jhoicas/anbar-api/internal/infrastructure/metrics"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
)

const (
	idA = "11111111-1111-4111-8111-111111111111"
	idB = "22222222-2222-4222-8222-222222222222"
)

func newAdapter(store repository.CollectionStore) *persistence.Adapter {
	return persistence.NewAdapter(store, schema.New(), persistence.Options{Logger: zerolog.Nop()})
}

func parts() []entity.Part {
	return []entity.Part{
		{ID: idA, Name: "LED", SKU: "LED-R", Category: "Opto", Location: "A1", Quantity: 3},
		{ID: idB, Name: "Diode", SKU: "1N4148", Category: "Diode", Location: "A2", Quantity: 0, DatasheetURL: "https://example.com/1n4148.pdf"},
	}
}

// slowStore bloquea hasta que vence el contexto.
type slowStore struct{}

func (slowStore) Load(ctx context.Context, _ entity.Kind) ([]json.RawMessage, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowStore) Save(ctx context.Context, _ entity.Kind, _ []json.RawMessage) error {
	<-ctx.Done()
	return ctx.Err()
}

// plainStore oculta SaveBatch y Subscribe del store envuelto.
type plainStore struct{ repository.CollectionStore }

// ──────────────────────────────────────────────────────────────────────────────
// Ida y vuelta
// ──────────────────────────────────────────────────────────────────────────────

func TestCollection_GuardarYCargarDevuelveLoMismo(t *testing.T) {
	ctx := context.Background()
	col := persistence.NewCollection[entity.Part](newAdapter(memory.New()), entity.KindParts)

	want := parts()
	require.NoError(t, col.SaveAll(ctx, want))

	got, err := col.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got, "el orden y los valores deben conservarse")
}

func TestCollection_ColeccionInexistenteEsVacia(t *testing.T) {
	col := persistence.NewCollection[entity.ShoppingItem](newAdapter(memory.New()), entity.KindShoppingItems)
	got, err := col.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestCollection_ColeccionVaciaSeGuarda(t *testing.T) {
	ctx := context.Background()
	col := persistence.NewCollection[entity.Part](newAdapter(memory.New()), entity.KindParts)
	require.NoError(t, col.SaveAll(ctx, parts()))
	require.NoError(t, col.SaveAll(ctx, nil))

	got, err := col.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura tolerante
// ──────────────────────────────────────────────────────────────────────────────

func TestCollection_RegistroInvalidoSeDescarta(t *testing.T) {
	store := memory.New()
	store.Put(entity.KindParts,
		json.RawMessage(`{"id":"`+idA+`","name":"LED","sku":"led-r","category":"Opto","location":"A1","quantity":3}`),
		json.RawMessage(`{"id":"`+idB+`","name":"","sku":"X","category":"Opto","location":"A1","quantity":1}`),
		json.RawMessage(`{"id":"no-json"`),
	)
	reg := prometheus.NewRegistry()
	a := persistence.NewAdapter(store, schema.New(), persistence.Options{Logger: zerolog.Nop(), Metrics: metrics.New(reg)})

	got, err := persistence.NewCollection[entity.Part](a, entity.KindParts).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LED-R", got[0].SKU, "el registro válido se carga normalizado")

	expected := `
# HELP anbar_store_dropped_records_total Registros inválidos descartados al cargar.
# TYPE anbar_store_dropped_records_total counter
anbar_store_dropped_records_total{kind="parts"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "anbar_store_dropped_records_total"))
}

func TestCollection_SKURepetidoSeDescartaAlCargar(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.Put(entity.KindParts,
		json.RawMessage(`{"id":"`+idA+`","name":"R1","sku":"res-1","category":"Res","location":"A1","quantity":3}`),
		json.RawMessage(`{"id":"`+idB+`","name":"R1 bis","sku":"RES-1","category":"Res","location":"A2","quantity":5}`),
	)
	reg := prometheus.NewRegistry()
	a := persistence.NewAdapter(store, schema.New(), persistence.Options{Logger: zerolog.Nop(), Metrics: metrics.New(reg)})
	col := persistence.NewCollection[entity.Part](a, entity.KindParts)

	got, err := col.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1, "solo sobrevive la primera aparición del SKU normalizado")
	assert.Equal(t, idA, got[0].ID)
	assert.Equal(t, 3, got[0].Quantity)

	expected := `
# HELP anbar_store_dropped_records_total Registros inválidos descartados al cargar.
# TYPE anbar_store_dropped_records_total counter
anbar_store_dropped_records_total{kind="parts"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "anbar_store_dropped_records_total"))

	// La siguiente escritura ya no arrastra el duplicado.
	require.NoError(t, col.SaveAll(ctx, got))
	raws, err := store.Load(ctx, entity.KindParts)
	require.NoError(t, err)
	assert.Len(t, raws, 1)
}

func TestCollection_ColeccionCorruptaSeTrataComoVacia(t *testing.T) {
	store := memory.New()
	store.Corrupt(entity.KindTransactions)

	got, err := persistence.NewCollection[entity.Transaction](newAdapter(store), entity.KindTransactions).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escritura todo o nada
// ──────────────────────────────────────────────────────────────────────────────

func TestCollection_ElementoInvalidoAbortaElGuardado(t *testing.T) {
	ctx := context.Background()
	col := persistence.NewCollection[entity.Part](newAdapter(memory.New()), entity.KindParts)
	require.NoError(t, col.SaveAll(ctx, parts()[:1]))

	bad := parts()
	bad[1].Location = ""
	err := col.SaveAll(ctx, bad)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "location", ve.Field)

	got, err := col.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1, "el contenido anterior debe quedar intacto")
}

func TestCollection_FalloDelStoreEsPersistenceError(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	col := persistence.NewCollection[entity.Part](newAdapter(store), entity.KindParts)
	require.NoError(t, col.SaveAll(ctx, parts()[:1]))

	store.FailSave(entity.KindParts, memory.ErrInjected)
	err := col.SaveAll(ctx, parts())

	var pe *domain.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "save", pe.Op)
	assert.Equal(t, "parts", pe.Kind)
	assert.ErrorIs(t, err, memory.ErrInjected)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	store.FailSave(entity.KindParts, nil)
	got, err := col.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAdapter_TimeoutAcotaCadaLlamada(t *testing.T) {
	a := persistence.NewAdapter(slowStore{}, schema.New(), persistence.Options{Timeout: 20 * time.Millisecond, Logger: zerolog.Nop()})
	col := persistence.NewCollection[entity.Part](a, entity.KindParts)

	start := time.Now()
	_, err := col.LoadAll(context.Background())
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	err = col.SaveAll(context.Background(), parts())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ──────────────────────────────────────────────────────────────────────────────
// Capacidades opcionales
// ──────────────────────────────────────────────────────────────────────────────

func TestAdapter_SaveBatchEscribeAmbasColecciones(t *testing.T) {
	ctx := context.Background()
	a := newAdapter(memory.New())
	pc := persistence.NewCollection[entity.Part](a, entity.KindParts)
	sc := persistence.NewCollection[entity.ShoppingItem](a, entity.KindShoppingItems)

	pw, err := pc.Prepare(parts())
	require.NoError(t, err)
	sw, err := sc.Prepare([]entity.ShoppingItem{{ID: idA, Title: "هویه", Quantity: 1}})
	require.NoError(t, err)

	require.True(t, a.SupportsBatch())
	require.NoError(t, a.SaveBatch(ctx, pw, sw))

	gotParts, err := pc.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, gotParts, 2)
	gotItems, err := sc.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, gotItems, 1)
}

func TestAdapter_SaveBatchFalloNoEscribeNada(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	a := newAdapter(store)
	pc := persistence.NewCollection[entity.Part](a, entity.KindParts)
	tc := persistence.NewCollection[entity.Transaction](a, entity.KindTransactions)

	pw, err := pc.Prepare(parts())
	require.NoError(t, err)
	tw, err := tc.Prepare(nil)
	require.NoError(t, err)

	store.FailSave(entity.KindTransactions, memory.ErrInjected)
	err = a.SaveBatch(ctx, pw, tw)
	var pe *domain.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "parts+transactions", pe.Kind)

	got, err := pc.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAdapter_StoreSinCapacidadesOpcionales(t *testing.T) {
	a := newAdapter(plainStore{memory.New()})
	assert.False(t, a.SupportsBatch())
	assert.ErrorIs(t, a.SaveBatch(context.Background()), persistence.ErrBatchUnsupported)

	_, err := a.Subscribe(context.Background())
	assert.ErrorIs(t, err, persistence.ErrNotifyUnsupported)
}

func TestAdapter_SubscribeRecibeAvisos(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a := newAdapter(memory.New())
	ch, err := a.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, persistence.NewCollection[entity.Part](a, entity.KindParts).SaveAll(ctx, parts()))

	select {
	case kind := <-ch:
		assert.Equal(t, entity.KindParts, kind)
	case <-time.After(time.Second):
		t.Fatal("no llegó el aviso de cambio")
	}
}
