package entity

// Límites de Part.
const (
	MaxPartQuantity = 1_000_000_000
	MaxSKULength    = 50

	// DefaultCategory se asigna cuando la categoría llega vacía.
	DefaultCategory = "سایر"
)

// Part representa una pieza electrónica en stock.
// SKU es único en todo el catálogo (normalizado en mayúsculas); Quantity solo cambia vía ledger o importación.
type Part struct {
	ID           string `json:"id" validate:"required,uuid"`
	Name         string `json:"name" validate:"required,max=200"`
	SKU          string `json:"sku" validate:"required,max=50"`
	Category     string `json:"category" validate:"required,max=100"`
	Footprint    string `json:"footprint" validate:"max=100"`
	Location     string `json:"location" validate:"required,max=200"`
	Quantity     int    `json:"quantity" validate:"min=0,max=1000000000"`
	MPN          string `json:"mpn" validate:"max=100"`
	DatasheetURL string `json:"datasheet_url" validate:"max=500,httpurl"`
}
