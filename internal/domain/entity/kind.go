package entity

import "slices"

// Kind identifica una colección persistida. Los valores son también las claves del almacenamiento.
type Kind string

const (
	KindParts         Kind = "parts"
	KindTransactions  Kind = "transactions"
	KindShoppingItems Kind = "shopping_items"
)

// Kinds lista todas las colecciones conocidas.
func Kinds() []Kind {
	return []Kind{KindParts, KindTransactions, KindShoppingItems}
}

// Valid indica si k es una colección conocida.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds(), k)
}

func (k Kind) String() string { return string(k) }
