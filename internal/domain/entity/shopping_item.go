package entity

const (
	// DefaultGroup grupo asignado cuando group_name llega vacío.
	DefaultGroup = "عمومی"
	// DefaultColor color asignado cuando color llega vacío.
	DefaultColor = "#6366f1"
)

// Supplier proveedor con su precio (unidades mínimas de moneda).
type Supplier struct {
	Name  string `json:"name" validate:"required,max=200"`
	Price int64  `json:"price" validate:"min=0,max=1000000000000"`
}

// ShoppingItem ítem de la lista de compras. SortOrder define el orden de presentación.
type ShoppingItem struct {
	ID        string     `json:"id" validate:"required,uuid"`
	Title     string     `json:"title" validate:"required,max=200"`
	Quantity  int        `json:"quantity" validate:"min=1,max=1000000"`
	Price     int64      `json:"price" validate:"min=0,max=1000000000000"`
	GroupName string     `json:"group_name" validate:"required,max=100"`
	Color     string     `json:"color" validate:"hexcolor6"`
	ShortInfo string     `json:"short_info,omitempty" validate:"max=500"`
	FullInfo  string     `json:"full_info,omitempty" validate:"max=5000"`
	Suppliers []Supplier `json:"suppliers" validate:"dive"`
	Width     string     `json:"width,omitempty"`
	Height    string     `json:"height,omitempty"`
	SortOrder int        `json:"sort_order" validate:"min=0"`
}

// Value precio total del ítem (cantidad × precio).
func (i ShoppingItem) Value() int64 {
	return int64(i.Quantity) * i.Price
}
