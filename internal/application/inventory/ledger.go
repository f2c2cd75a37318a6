package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/repository"
	"github.com/jhoicas/anbar-api/internal/domain/schema"
	"github.com/jhoicas/anbar-api/internal/infrastructure/metrics"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
	"github.com/jhoicas/anbar-api/pkg/faformat"
)

// Ledger aplica movimientos de stock. Es la única vía que cambia la cantidad de una pieza existente.
//
// Orden de confirmación: si el store admite escritura en lote, cantidad y movimiento se guardan en
// una sola transacción. Si no, primero la cantidad y, solo confirmada esta, el movimiento; si el
// movimiento falla se restaura la cantidad anterior. Nunca queda un movimiento registrado sin aplicar.
type Ledger struct {
	adapter *persistence.Adapter
	parts   *persistence.Collection[entity.Part]
	txs     *persistence.Collection[entity.Transaction]
	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// NewLedger construye el ledger.
func NewLedger(a *persistence.Adapter, log zerolog.Logger, m *metrics.Metrics) *Ledger {
	return &Ledger{
		adapter: a,
		parts:   persistence.NewCollection[entity.Part](a, entity.KindParts),
		txs:     persistence.NewCollection[entity.Transaction](a, entity.KindTransactions),
		log:     log.With().Str("component", "ledger").Logger(),
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SetClock reemplaza el reloj (tests).
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

// Apply registra una entrada o salida de quantity unidades sobre la pieza sku.
func (l *Ledger) Apply(ctx context.Context, in dto.ApplyTransactionRequest) (dto.LedgerResult, error) {
	txType := strings.ToLower(strings.TrimSpace(in.Type))
	res, err := l.apply(ctx, txType, in)
	l.metrics.Ledger(metricType(txType), ledgerOutcome(err))
	return res, err
}

func (l *Ledger) apply(ctx context.Context, txType string, in dto.ApplyTransactionRequest) (dto.LedgerResult, error) {
	if txType != entity.TransactionIn && txType != entity.TransactionOut {
		return dto.LedgerResult{}, domain.NewValidationError(entity.KindTransactions.String(), "type", "نوع تراکنش باید ورود یا خروج باشد")
	}
	if in.Quantity <= 0 || in.Quantity > entity.MaxTransactionQuantity {
		return dto.LedgerResult{}, &domain.InvalidQuantityError{Quantity: in.Quantity}
	}
	sku := schema.NormalizeSKU(in.SKU)
	if sku == "" {
		return dto.LedgerResult{}, domain.NewValidationError(entity.KindTransactions.String(), "part_sku", "SKU الزامی است")
	}

	parts, err := l.parts.LoadAll(ctx)
	if err != nil {
		return dto.LedgerResult{}, err
	}
	i := indexBySKU(parts, sku)
	if i < 0 {
		return dto.LedgerResult{}, &domain.NotFoundError{Kind: entity.KindParts.String(), Key: sku}
	}
	part := parts[i]

	current := part.Quantity
	next := current + in.Quantity
	if txType == entity.TransactionOut {
		next = current - in.Quantity
		if next < 0 {
			return dto.LedgerResult{}, &domain.InsufficientStockError{SKU: part.SKU, Current: current, Requested: in.Quantity}
		}
	}
	if next > entity.MaxPartQuantity {
		return dto.LedgerResult{}, domain.NewValidationError(entity.KindParts.String(), "quantity", "موجودی از سقف مجاز بیشتر است")
	}

	txs, err := l.txs.LoadAll(ctx)
	if err != nil {
		return dto.LedgerResult{}, err
	}
	now := l.now()
	tx := entity.Transaction{
		ID:        l.newID(),
		PartSKU:   part.SKU,
		Type:      txType,
		Quantity:  in.Quantity,
		Date:      faformat.Date(now),
		CreatedAt: now.UTC().Format(entity.CreatedAtLayout),
	}

	parts[i].Quantity = next
	partsWrite, err := l.parts.Prepare(parts)
	if err != nil {
		return dto.LedgerResult{}, err
	}
	txsWrite, err := l.txs.Prepare(append(txs, tx))
	if err != nil {
		return dto.LedgerResult{}, err
	}

	if err := l.commit(ctx, partsWrite, txsWrite, part.ID, current, next); err != nil {
		return dto.LedgerResult{}, err
	}
	l.log.Info().Str("sku", part.SKU).Str("type", txType).Int("quantity", in.Quantity).
		Int("from", current).Int("to", next).Msg("movimiento aplicado")
	return dto.LedgerResult{NewQuantity: next, Transaction: tx}, nil
}

func (l *Ledger) commit(ctx context.Context, partsWrite, txsWrite repository.Write, partID string, prev, next int) error {
	if l.adapter.SupportsBatch() {
		return l.adapter.SaveBatch(ctx, partsWrite, txsWrite)
	}
	if err := l.adapter.Save(ctx, partsWrite); err != nil {
		return err
	}
	if err := l.adapter.Save(ctx, txsWrite); err != nil {
		l.compensate(context.WithoutCancel(ctx), partID, prev, next)
		return err
	}
	return nil
}

// compensate devuelve la cantidad a prev si nadie la cambió después de nuestra escritura.
func (l *Ledger) compensate(ctx context.Context, partID string, prev, next int) {
	log := l.log.With().Str("part_id", partID).Int("restore_to", prev).Logger()
	parts, err := l.parts.LoadAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("compensación: no se pudo recargar el catálogo")
		return
	}
	i := indexByID(parts, partID)
	if i < 0 || parts[i].Quantity != next {
		log.Warn().Msg("compensación omitida: la pieza cambió o ya no existe")
		return
	}
	parts[i].Quantity = prev
	if err := l.parts.SaveAll(ctx, parts); err != nil {
		log.Error().Err(err).Msg("compensación fallida: cantidad aplicada sin movimiento")
		return
	}
	log.Warn().Msg("movimiento no registrado; cantidad restaurada")
}

func metricType(t string) string {
	if t == entity.TransactionIn || t == entity.TransactionOut {
		return t
	}
	return "invalid"
}

func ledgerOutcome(err error) string {
	switch {
	case err == nil:
		return "applied"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "persistence"
	}
}
