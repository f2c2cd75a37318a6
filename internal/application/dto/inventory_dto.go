package dto

import "github.com/jhoicas/anbar-api/internal/domain/entity"

// CreatePartRequest body de POST /api/parts.
type CreatePartRequest struct {
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Category     string `json:"category"`
	Footprint    string `json:"footprint"`
	Location     string `json:"location"`
	Quantity     int    `json:"quantity"`
	MPN          string `json:"mpn"`
	DatasheetURL string `json:"datasheet_url"`
}

// UpdatePartRequest body de PUT /api/parts/:id. Solo se aplican los campos presentes;
// SKU y Quantity se aceptan en el JSON pero se ignoran.
type UpdatePartRequest struct {
	Name         *string `json:"name"`
	SKU          *string `json:"sku"`
	Category     *string `json:"category"`
	Footprint    *string `json:"footprint"`
	Location     *string `json:"location"`
	Quantity     *int    `json:"quantity"`
	MPN          *string `json:"mpn"`
	DatasheetURL *string `json:"datasheet_url"`
}

// ImportRequest body JSON alternativo de POST /api/parts/import.
type ImportRequest struct {
	Text string `json:"text"`
}

// ApplyTransactionRequest body de POST /api/transactions.
type ApplyTransactionRequest struct {
	SKU      string `json:"sku"`
	Type     string `json:"type"` // in | out
	Quantity int    `json:"quantity"`
}

// LedgerResult resultado de un movimiento aplicado.
type LedgerResult struct {
	NewQuantity int                `json:"new_quantity"`
	Transaction entity.Transaction `json:"transaction"`
}

// HistoryEntry movimiento con el nombre de la pieza (o la etiqueta de desconocida).
type HistoryEntry struct {
	entity.Transaction
	PartName  string `json:"part_name"`
	PartKnown bool   `json:"part_known"`
}

// DashboardStats resumen del inventario.
type DashboardStats struct {
	UniqueParts     int   `json:"unique_parts"`
	TotalQuantity   int64 `json:"total_quantity"`
	UniqueLocations int   `json:"unique_locations"`
	// Versiones con dígitos persas para mostrar tal cual.
	Display DashboardDisplay `json:"display"`
}

// DashboardDisplay cifras ya formateadas.
type DashboardDisplay struct {
	UniqueParts     string `json:"unique_parts"`
	TotalQuantity   string `json:"total_quantity"`
	UniqueLocations string `json:"unique_locations"`
}
