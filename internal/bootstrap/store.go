// Package bootstrap arma el almacenamiento y los servicios a partir de la configuración.
// Lo comparten el servidor HTTP (cmd/api) y la CLI (cmd/anbarctl).
package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jhoicas/anbar-api/internal/application/inventory"
	"github.com/jhoicas/anbar-api/internal/application/shopping"
	"github.com/jhoicas/anbar-api/internal/domain/repository"
	"github.com/jhoicas/anbar-api/internal/domain/schema"
	"github.com/jhoicas/anbar-api/internal/infrastructure/badgerstore"
	"github.com/jhoicas/anbar-api/internal/infrastructure/memory"
	"github.com/jhoicas/anbar-api/internal/infrastructure/metrics"
	"github.com/jhoicas/anbar-api/internal/infrastructure/pdf"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
	"github.com/jhoicas/anbar-api/internal/infrastructure/postgres"
	"github.com/jhoicas/anbar-api/pkg/config"
)

// Closer libera los recursos del store.
type Closer func() error

// OpenStore abre el backend configurado en cfg.Store.Backend.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.CollectionStore, Closer, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		store := postgres.NewStore(pool, log)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrar esquema: %w", err)
		}
		return store, func() error { pool.Close(); return nil }, nil

	case config.BackendBadger:
		bcfg := badgerstore.DefaultConfig(cfg.Store.BadgerPath)
		bcfg.Logger = log
		store, err := badgerstore.Open(bcfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.BackendMemory:
		log.Warn().Msg("STORE_BACKEND=memory: los datos se pierden al terminar")
		return memory.New(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("backend desconocido %q", cfg.Store.Backend)
}

// Services casos de uso listos para usar.
type Services struct {
	Adapter   *persistence.Adapter
	Catalog   *inventory.Catalog
	Ledger    *inventory.Ledger
	Importer  *inventory.Importer
	History   *inventory.History
	Dashboard *inventory.Dashboard
	Sequencer *shopping.Sequencer
	Shopping  *shopping.UseCase
	Metrics   *metrics.Metrics
}

// NewServices construye los servicios sobre store. reg puede ser nil (sin métricas).
func NewServices(store repository.CollectionStore, cfg *config.Config, log zerolog.Logger, reg prometheus.Registerer) *Services {
	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}
	adapter := persistence.NewAdapter(store, schema.New(), persistence.Options{
		Timeout: cfg.Store.Timeout,
		Logger:  log,
		Metrics: m,
	})
	seq := shopping.NewSequencer(adapter)
	return &Services{
		Adapter:   adapter,
		Catalog:   inventory.NewCatalog(adapter, log),
		Ledger:    inventory.NewLedger(adapter, log, m),
		Importer:  inventory.NewImporter(adapter, log, m),
		History:   inventory.NewHistory(adapter),
		Dashboard: inventory.NewDashboard(adapter),
		Sequencer: seq,
		Shopping:  shopping.NewUseCase(adapter, seq, pdf.NewShoppingListGenerator(cfg.PDF.FontPath), log),
		Metrics:   m,
	}
}
