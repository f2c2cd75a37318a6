package entity

import "time"

// Tipos de movimiento de stock.
const (
	TransactionIn  = "in"  // entrada (compra/producción)
	TransactionOut = "out" // salida (consumo)
)

// MaxTransactionQuantity tope por movimiento.
const MaxTransactionQuantity = 1_000_000

// CreatedAtLayout formato ordenable de CreatedAt (UTC).
const CreatedAtLayout = time.RFC3339Nano

// Transaction movimiento inmutable de stock. PartSKU se guarda por valor: sobrevive al borrado de la pieza.
type Transaction struct {
	ID        string `json:"id" validate:"required,uuid"`
	PartSKU   string `json:"part_sku" validate:"required,max=50"`
	Type      string `json:"type" validate:"required,oneof=in out"`
	Quantity  int    `json:"quantity" validate:"min=1,max=1000000"`
	Date      string `json:"date" validate:"required"`
	CreatedAt string `json:"created_at" validate:"required"`
}

// CreatedTime interpreta CreatedAt; valor cero si no es parseable.
func (t Transaction) CreatedTime() time.Time {
	ts, err := time.Parse(CreatedAtLayout, t.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Delta efecto con signo sobre la existencia.
func (t Transaction) Delta() int {
	if t.Type == TransactionOut {
		return -t.Quantity
	}
	return t.Quantity
}
