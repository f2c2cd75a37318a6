package schema

import (
	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
)

type messageKey struct {
	kind  entity.Kind
	field string
	tag   string
}

// Mensajes visibles al usuario por colección, campo y regla.
var messages = map[messageKey]string{
	{entity.KindParts, "name", "required"}:         "نام قطعه الزامی است",
	{entity.KindParts, "name", "max"}:              "نام قطعه حداکثر 200 کاراکتر",
	{entity.KindParts, "sku", "required"}:          "SKU الزامی است",
	{entity.KindParts, "sku", "max"}:               "SKU حداکثر 50 کاراکتر",
	{entity.KindParts, "category", "required"}:     "دسته‌بندی الزامی است",
	{entity.KindParts, "location", "required"}:     "مکان الزامی است",
	{entity.KindParts, "quantity", "min"}:          "موجودی نمی‌تواند منفی باشد",
	{entity.KindParts, "quantity", "max"}:          "موجودی از سقف مجاز بیشتر است",
	{entity.KindParts, "datasheet_url", "httpurl"}: "لینک دیتاشیت معتبر نیست",

	{entity.KindShoppingItems, "title", "required"}:  "عنوان الزامی است",
	{entity.KindShoppingItems, "title", "max"}:       "عنوان حداکثر 200 کاراکتر",
	{entity.KindShoppingItems, "quantity", "min"}:    "تعداد باید حداقل 1 باشد",
	{entity.KindShoppingItems, "price", "min"}:       "قیمت نمی‌تواند منفی باشد",
	{entity.KindShoppingItems, "color", "hexcolor6"}: "رنگ معتبر نیست",
}

func reason(kind entity.Kind, field string, fe validator.FieldError) string {
	if msg, ok := messages[messageKey{kind, field, fe.Tag()}]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "مقدار الزامی است"
	case "max":
		return "حداکثر " + fe.Param()
	case "min":
		return "حداقل " + fe.Param()
	case "uuid":
		return "شناسه معتبر نیست"
	case "oneof":
		return "مقدار مجاز نیست"
	}
	return "مقدار معتبر نیست"
}
