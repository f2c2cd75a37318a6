// Package persistence implementa el adaptador de persistencia: carga y guardado de colecciones
// completas validadas sobre cualquier repository.CollectionStore.
//
// Reglas:
//   - En lectura, cada registro inválido se descarta y se registra; los demás se cargan.
//   - En escritura, basta un registro inválido para abortar todo el guardado (el store no cambia).
//   - Toda llamada al store corre con un timeout acotado y no se reintenta.
package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/repository"
	"github.com/jhoicas/anbar-api/internal/domain/schema"
	"github.com/jhoicas/anbar-api/internal/infrastructure/metrics"
)

// DefaultTimeout límite por llamada al store cuando no se configura otro.
const DefaultTimeout = 10 * time.Second

var (
	// ErrBatchUnsupported el store no ofrece escritura multi-colección.
	ErrBatchUnsupported = errors.New("persistence: el store no soporta escritura en lote")
	// ErrNotifyUnsupported el store no emite avisos de cambio.
	ErrNotifyUnsupported = errors.New("persistence: el store no emite avisos de cambio")
)

// Options configuración del adaptador.
type Options struct {
	Timeout time.Duration
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// Adapter comparte store, validador y política de timeout entre las colecciones.
type Adapter struct {
	store     repository.CollectionStore
	validator *schema.Validator
	timeout   time.Duration
	log       zerolog.Logger
	metrics   *metrics.Metrics
}

// NewAdapter construye el adaptador.
func NewAdapter(store repository.CollectionStore, validator *schema.Validator, opts Options) *Adapter {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Adapter{
		store:     store,
		validator: validator,
		timeout:   opts.Timeout,
		log:       opts.Logger.With().Str("component", "persistence").Logger(),
		metrics:   opts.Metrics,
	}
}

// Validator devuelve el validador compartido.
func (a *Adapter) Validator() *schema.Validator { return a.validator }

// Save escribe una colección completa ya preparada.
func (a *Adapter) Save(ctx context.Context, w repository.Write) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	err := a.store.Save(ctx, w.Kind, w.Records)
	a.metrics.StoreOp(w.Kind.String(), "save", err)
	if err != nil {
		a.log.Error().Err(err).Str("kind", w.Kind.String()).Int("records", len(w.Records)).Msg("guardar colección")
		return &domain.PersistenceError{Op: "save", Kind: w.Kind.String(), Err: err}
	}
	return nil
}

// SaveBatch escribe varias colecciones en una sola transacción nativa del store.
// Devuelve ErrBatchUnsupported si el store no implementa repository.BatchStore.
func (a *Adapter) SaveBatch(ctx context.Context, writes ...repository.Write) error {
	bs, ok := a.store.(repository.BatchStore)
	if !ok {
		return ErrBatchUnsupported
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	err := bs.SaveBatch(ctx, writes...)
	for _, w := range writes {
		a.metrics.StoreOp(w.Kind.String(), "save", err)
	}
	if err != nil {
		kinds := make([]string, 0, len(writes))
		for _, w := range writes {
			kinds = append(kinds, w.Kind.String())
		}
		a.log.Error().Err(err).Strs("kinds", kinds).Msg("guardar lote")
		return &domain.PersistenceError{Op: "save", Kind: strings.Join(kinds, "+"), Err: err}
	}
	return nil
}

// SupportsBatch indica si el store ofrece escritura multi-colección.
func (a *Adapter) SupportsBatch() bool {
	_, ok := a.store.(repository.BatchStore)
	return ok
}

// Subscribe reenvía los avisos de cambio del store. Devuelve ErrNotifyUnsupported si no los emite.
func (a *Adapter) Subscribe(ctx context.Context) (<-chan entity.Kind, error) {
	n, ok := a.store.(repository.ChangeNotifier)
	if !ok {
		return nil, ErrNotifyUnsupported
	}
	return n.Subscribe(ctx)
}

