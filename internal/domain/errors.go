package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrDuplicateSKU      = errors.New("SKU duplicado")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrPersistence       = errors.New("error de persistencia")
	ErrNoValidRows       = errors.New("no hay filas válidas para importar")
)

// ValidationError falla a nivel de campo. Kind es la colección (parts, transactions, shopping_items),
// Field el nombre JSON del campo y Reason el mensaje para el usuario.
type ValidationError struct {
	Kind   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError construye un ValidationError.
func NewValidationError(kind, field, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Reason: reason}
}

// DuplicateSKUError el SKU normalizado ya existe en el catálogo.
type DuplicateSKUError struct {
	SKU string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateSKU, e.SKU)
}

func (e *DuplicateSKUError) Is(target error) bool { return target == ErrDuplicateSKU }

// NotFoundError referencia obsoleta a un registro (id o SKU).
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrNotFound, e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError salida mayor que la existencia actual. Current se muestra al usuario.
type InsufficientStockError struct {
	SKU       string
	Current   int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: %s (actual %d, solicitado %d)", ErrInsufficientStock, e.SKU, e.Current, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InvalidQuantityError cantidad de movimiento no positiva o fuera de rango.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("%s: %d", ErrInvalidQuantity, e.Quantity)
}

func (e *InvalidQuantityError) Is(target error) bool { return target == ErrInvalidQuantity }

// PersistenceError falla del almacenamiento. No se reintenta: el caller repite la operación completa.
type PersistenceError struct {
	Op   string // load | save
	Kind string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrPersistence, e.Op, e.Kind, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// ImportError importación sin ninguna fila válida; conserva los contadores para el usuario.
type ImportError struct {
	Duplicates int
	Malformed  int
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s (duplicadas %d, inválidas %d)", ErrNoValidRows, e.Duplicates, e.Malformed)
}

func (e *ImportError) Is(target error) bool { return target == ErrNoValidRows }
