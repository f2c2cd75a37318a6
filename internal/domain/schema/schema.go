// Package schema define la forma y restricciones de cada entidad persistida.
//
// Las reglas viven en las etiquetas `validate` de las entidades (go-playground/validator);
// aquí se registran las reglas propias (httpurl, hexcolor6), se aplican los valores por defecto
// una sola vez (Normalize*) y se traducen los fallos a *domain.ValidationError con el nombre
// JSON del campo y un mensaje en persa para el usuario.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validator valida y normaliza registros. Seguro para uso concurrente.
type Validator struct {
	v *validator.Validate
}

// New construye el validador con las reglas propias registradas.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Las reglas propias son estáticas: un error aquí es un bug de programación.
	if err := v.RegisterValidation("httpurl", validateHTTPURL); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("hexcolor6", validateHexColor); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// validateHTTPURL acepta vacío o una URL absoluta http/https.
func validateHTTPURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

// NormalizeSKU recorta y pasa a mayúsculas.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// NormalizePart recorta textos, normaliza el SKU y aplica la categoría por defecto.
func NormalizePart(p entity.Part) entity.Part {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = NormalizeSKU(p.SKU)
	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		p.Category = entity.DefaultCategory
	}
	p.Footprint = strings.TrimSpace(p.Footprint)
	p.Location = strings.TrimSpace(p.Location)
	p.MPN = strings.TrimSpace(p.MPN)
	p.DatasheetURL = strings.TrimSpace(p.DatasheetURL)
	return p
}

// NormalizeTransaction recorta los textos del movimiento.
func NormalizeTransaction(t entity.Transaction) entity.Transaction {
	t.ID = strings.TrimSpace(t.ID)
	t.PartSKU = strings.TrimSpace(t.PartSKU)
	t.Type = strings.ToLower(strings.TrimSpace(t.Type))
	t.Date = strings.TrimSpace(t.Date)
	t.CreatedAt = strings.TrimSpace(t.CreatedAt)
	return t
}

// NormalizeShoppingItem recorta textos, aplica grupo y color por defecto y garantiza Suppliers no nulo.
func NormalizeShoppingItem(i entity.ShoppingItem) entity.ShoppingItem {
	i.ID = strings.TrimSpace(i.ID)
	i.Title = strings.TrimSpace(i.Title)
	i.GroupName = strings.TrimSpace(i.GroupName)
	if i.GroupName == "" {
		i.GroupName = entity.DefaultGroup
	}
	i.Color = strings.TrimSpace(i.Color)
	if i.Color == "" {
		i.Color = entity.DefaultColor
	}
	i.ShortInfo = strings.TrimSpace(i.ShortInfo)
	i.FullInfo = strings.TrimSpace(i.FullInfo)
	suppliers := make([]entity.Supplier, 0, len(i.Suppliers))
	for _, s := range i.Suppliers {
		s.Name = strings.TrimSpace(s.Name)
		suppliers = append(suppliers, s)
	}
	i.Suppliers = suppliers
	return i
}

// Part normaliza y valida una pieza.
func (v *Validator) Part(p entity.Part) (entity.Part, error) {
	p = NormalizePart(p)
	if err := v.check(entity.KindParts, p); err != nil {
		return entity.Part{}, err
	}
	return p, nil
}

// Transaction normaliza y valida un movimiento.
func (v *Validator) Transaction(t entity.Transaction) (entity.Transaction, error) {
	t = NormalizeTransaction(t)
	if err := v.check(entity.KindTransactions, t); err != nil {
		return entity.Transaction{}, err
	}
	return t, nil
}

// ShoppingItem normaliza y valida un ítem de compra.
func (v *Validator) ShoppingItem(i entity.ShoppingItem) (entity.ShoppingItem, error) {
	i = NormalizeShoppingItem(i)
	if err := v.check(entity.KindShoppingItems, i); err != nil {
		return entity.ShoppingItem{}, err
	}
	return i, nil
}

// Check despacha según el tipo dinámico de item.
func Check[T any](v *Validator, item T) (T, error) {
	var out any
	var err error
	switch x := any(item).(type) {
	case entity.Part:
		out, err = v.Part(x)
	case entity.Transaction:
		out, err = v.Transaction(x)
	case entity.ShoppingItem:
		out, err = v.ShoppingItem(x)
	default:
		var zero T
		return zero, fmt.Errorf("schema: tipo no soportado %T", item)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

// Decode interpreta un registro crudo y lo valida. Los errores de tipo JSON también
// se reportan como *domain.ValidationError.
func Decode[T any](v *Validator, kind entity.Kind, raw json.RawMessage) (T, error) {
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		var zero T
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return zero, domain.NewValidationError(kind.String(), typeErr.Field, "نوع مقدار معتبر نیست")
		}
		return zero, domain.NewValidationError(kind.String(), "", "رکورد JSON معتبر نیست")
	}
	return Check(v, item)
}

func (v *Validator) check(kind entity.Kind, item any) error {
	err := v.v.Struct(item)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fieldPath(fe.Namespace())
		return domain.NewValidationError(kind.String(), field, reason(kind, field, fe))
	}
	return domain.NewValidationError(kind.String(), "", err.Error())
}

// fieldPath quita el nombre del struct raíz: "ShoppingItem.suppliers[0].name" -> "suppliers[0].name".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
