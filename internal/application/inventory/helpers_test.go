package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/application/inventory"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/repository"
	"github.com/jhoicas/anbar-api/internal/domain/schema"
	"github.com/jhoicas/anbar-api/internal/infrastructure/memory"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
)

// env servicios del inventario sobre un store en memoria.
type env struct {
	store     *memory.Store
	adapter   *persistence.Adapter
	catalog   *inventory.Catalog
	ledger    *inventory.Ledger
	importer  *inventory.Importer
	history   *inventory.History
	dashboard *inventory.Dashboard
}

// sequentialStore oculta SaveBatch: obliga al ledger a confirmar en dos escrituras.
type sequentialStore struct{ repository.CollectionStore }

func newEnv(t *testing.T) *env {
	t.Helper()
	return buildEnv(memory.New(), nil)
}

func newSequentialEnv(t *testing.T) *env {
	t.Helper()
	s := memory.New()
	return buildEnv(s, sequentialStore{s})
}

func buildEnv(s *memory.Store, store repository.CollectionStore) *env {
	if store == nil {
		store = s
	}
	log := zerolog.Nop()
	a := persistence.NewAdapter(store, schema.New(), persistence.Options{Logger: log})
	return &env{
		store:     s,
		adapter:   a,
		catalog:   inventory.NewCatalog(a, log),
		ledger:    inventory.NewLedger(a, log, nil),
		importer:  inventory.NewImporter(a, log, nil),
		history:   inventory.NewHistory(a),
		dashboard: inventory.NewDashboard(a),
	}
}

func (e *env) addPart(t *testing.T, name, sku, location string, qty int) entity.Part {
	t.Helper()
	p, err := e.catalog.Add(context.Background(), dto.CreatePartRequest{Name: name, SKU: sku, Location: location, Quantity: qty})
	require.NoError(t, err)
	return p
}

func (e *env) transactions(t *testing.T) []entity.Transaction {
	t.Helper()
	txs, err := persistence.NewCollection[entity.Transaction](e.adapter, entity.KindTransactions).LoadAll(context.Background())
	require.NoError(t, err)
	return txs
}

func (e *env) quantity(t *testing.T, id string) int {
	t.Helper()
	p, err := e.catalog.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}
