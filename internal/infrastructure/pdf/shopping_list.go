// Package pdf genera la hoja de compras imprimible con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha jalali                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Ítem | Grupo | Cant | P.Unit | Subtotal         │
//	│         └ proveedores del ítem                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: ítems / cantidad / valor total                    │
//	└─────────────────────────────────────────────────────────────┘
//
// Sin fuente TTF configurada se usa helvetica, que no tiene glifos persas: los textos en persa
// salen ilegibles. Con PDF_FONT_PATH (p. ej. Vazirmatn) se renderizan los glifos, sin shaping RTL.
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/application/shopping"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/pkg/faformat"
)

const customFamily = "persian"

var (
	colorPrimary = &props.Color{Red: 67, Green: 56, Blue: 202}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ shopping.PDFRenderer = (*ShoppingListGenerator)(nil)

// ShoppingListGenerator implementa shopping.PDFRenderer.
type ShoppingListGenerator struct {
	fontPath string
}

// NewShoppingListGenerator construye el generador. fontPath vacío usa helvetica.
func NewShoppingListGenerator(fontPath string) *ShoppingListGenerator {
	return &ShoppingListGenerator{fontPath: fontPath}
}

// RenderShoppingList genera el PDF y devuelve sus bytes.
func (g *ShoppingListGenerator) RenderShoppingList(
	_ context.Context,
	items []entity.ShoppingItem,
	stats dto.ShoppingStats,
	at time.Time,
) ([]byte, error) {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithTitle("Shopping list", true)

	family := "helvetica"
	if g.fontPath != "" {
		fonts, err := repository.New().AddUTF8Font(customFamily, fontstyle.Normal, g.fontPath).Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: cargar fuente %s: %w", g.fontPath, err)
		}
		b = b.WithCustomFonts(fonts)
		family = customFamily
	}
	l := labelsFor(family)
	b = b.WithDefaultFont(&props.Font{Family: family, Size: 9})

	m := maroto.New(b.Build())
	m.AddRows(headerRow(l, at))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(l))
	for i, it := range items {
		m.AddRows(itemRows(i+1, it)...)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(l, stats)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// labels textos fijos: en persa solo si la fuente tiene los glifos.
type labels struct {
	title, item, group, qty, unit, subtotal, suppliers, items, totalQty, totalValue string
	bold                                                                              fontstyle.Type
}

func labelsFor(family string) labels {
	if family == customFamily {
		// La fuente personalizada solo se registra en estilo normal.
		return labels{
			title: "لیست خرید", item: "کالا", group: "گروه", qty: "تعداد", unit: "قیمت واحد",
			subtotal: "جمع", suppliers: "تامین‌کنندگان", items: "اقلام", totalQty: "تعداد کل",
			totalValue: "ارزش کل", bold: fontstyle.Normal,
		}
	}
	return labels{
		title: "SHOPPING LIST", item: "Item", group: "Group", qty: "Qty", unit: "Unit price",
		subtotal: "Subtotal", suppliers: "Suppliers", items: "Items", totalQty: "Total quantity",
		totalValue: "Total value", bold: fontstyle.Bold,
	}
}

func headerRow(l labels, at time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(text.New(l.title, props.Text{
			Style: l.bold, Size: 14, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(
			text.New(faformat.Date(at), props.Text{Size: 9, Align: align.Right, Top: 2}),
			text.New(at.Format(time.DateOnly), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	)
}

func tableHeaderRow(l labels) core.Row {
	cell := func(size int, label string, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: l.bold, Size: 8, Color: colorWhite, Align: a, Top: 1.5,
		}))
	}
	return row.New(7).Add(
		cell(1, "#", align.Center),
		cell(4, l.item, align.Left),
		cell(2, l.group, align.Left),
		cell(1, l.qty, align.Center),
		cell(2, l.unit, align.Right),
		cell(2, l.subtotal, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRows(n int, it entity.ShoppingItem) []core.Row {
	rows := []core.Row{
		row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprint(n), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(it.Title, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(it.GroupName, props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money(it.Price), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(money(it.Value()), props.Text{Size: 8, Align: align.Right, Top: 1})),
		),
	}
	if len(it.Suppliers) > 0 {
		parts := make([]string, 0, len(it.Suppliers))
		for _, s := range it.Suppliers {
			parts = append(parts, fmt.Sprintf("%s: %s", s.Name, money(s.Price)))
		}
		rows = append(rows, row.New(5).Add(
			col.New(1),
			col.New(11).Add(text.New(strings.Join(parts, "  |  "), props.Text{Size: 7, Color: colorGray, Top: 0.5})),
		))
	}
	return rows
}

func totalsRows(l labels, s dto.ShoppingStats) []core.Row {
	kv := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(8).Add(text.New(label, props.Text{Size: 9, Align: align.Right, Top: 1})),
			col.New(4).Add(text.New(value, props.Text{Style: l.bold, Size: 9, Align: align.Right, Top: 1})),
		)
	}
	return []core.Row{
		kv(l.items, fmt.Sprint(s.TotalItems)),
		kv(l.totalQty, fmt.Sprint(s.TotalQuantity)),
		kv(l.suppliers, fmt.Sprint(s.SuppliersCount)),
		kv(l.totalValue, money(s.TotalValue)),
	}
}

// money separador de miles con coma, dígitos ASCII (la fuente por defecto no tiene dígitos persas).
func money(v int64) string {
	s := fmt.Sprint(v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
