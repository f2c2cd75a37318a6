package dto

import "github.com/jhoicas/anbar-api/internal/domain/entity"

// ShoppingItemRequest body de alta y edición de un ítem. SortOrder no se acepta: lo asigna el secuenciador.
type ShoppingItemRequest struct {
	Title     string            `json:"title"`
	Quantity  int               `json:"quantity"`
	Price     int64             `json:"price"`
	GroupName string            `json:"group_name"`
	Color     string            `json:"color"`
	ShortInfo string            `json:"short_info"`
	FullInfo  string            `json:"full_info"`
	Suppliers []entity.Supplier `json:"suppliers"`
	Width     string            `json:"width"`
	Height    string            `json:"height"`
}

// ReorderRequest body de PUT /api/shopping-items/order: ids en el nuevo orden.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// MoveRequest body de POST /api/shopping-items/:id/move.
type MoveRequest struct {
	To int `json:"to"`
}

// SupplierTotal gasto acumulado por proveedor (Σ cantidad × precio del proveedor).
type SupplierTotal struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
	Items int    `json:"items"`
}

// ShoppingStats resumen de la lista de compras.
type ShoppingStats struct {
	TotalItems     int             `json:"total_items"`
	TotalQuantity  int             `json:"total_quantity"`
	TotalValue     int64           `json:"total_value"`
	SuppliersCount int             `json:"suppliers_count"`
	GroupsCount    int             `json:"groups_count"`
	Suppliers      []SupplierTotal `json:"suppliers"`
	// TotalValueDisplay importe con dígitos persas, p. ej. "۱٬۲۵۰ ریال".
	TotalValueDisplay string `json:"total_value_display"`
}

// Export documento de exportación: nombre de archivo y contenido.
type Export struct {
	FileName string
	Data     []byte
}
