package inventory

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/schema"
	"github.com/jhoicas/anbar-api/internal/infrastructure/metrics"
	"github.com/jhoicas/anbar-api/internal/infrastructure/persistence"
	"github.com/jhoicas/anbar-api/pkg/faformat"
)

// ImportColumns orden de columnas del texto de importación.
var ImportColumns = []string{"name", "sku", "category", "footprint", "location", "quantity", "mpn", "datasheet_url"}

const (
	colName = iota
	colSKU
	colCategory
	colFootprint
	colLocation
	colQuantity
	colMPN
	colDatasheet
	importColumnCount
)

// Importer incorpora al catálogo piezas pegadas como tabla (TSV o CSV).
//
// Los SKU repetidos se detectan contra el catálogo y contra las filas ya aceptadas del mismo lote;
// gana la primera aparición. Las filas aceptadas se guardan en una sola escritura.
type Importer struct {
	parts     *persistence.Collection[entity.Part]
	validator *schema.Validator
	log       zerolog.Logger
	metrics   *metrics.Metrics
	newID     func() string
}

// NewImporter construye el importador.
func NewImporter(a *persistence.Adapter, log zerolog.Logger, m *metrics.Metrics) *Importer {
	return &Importer{
		parts:     persistence.NewCollection[entity.Part](a, entity.KindParts),
		validator: a.Validator(),
		log:       log.With().Str("component", "importer").Logger(),
		metrics:   m,
		newID:     uuid.NewString,
	}
}

// Import procesa text y devuelve los contadores. Cero filas válidas es *domain.ImportError.
func (im *Importer) Import(ctx context.Context, text string) (dto.ImportCounts, error) {
	rows := splitRows(text)
	if len(rows) == 0 {
		return dto.ImportCounts{}, domain.NewValidationError(entity.KindParts.String(), "", "متن ورودی خالی است")
	}
	delim := detectDelimiter(rows[0])

	existing, err := im.parts.LoadAll(ctx)
	if err != nil {
		return dto.ImportCounts{}, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[schema.NormalizeSKU(p.SKU)] = struct{}{}
	}

	var counts dto.ImportCounts
	accepted := make([]entity.Part, 0, len(rows))
	for i, row := range rows {
		fields := splitFields(row, delim)
		if i == 0 && isHeader(fields) {
			continue
		}
		part, ok := im.parseRow(fields)
		if !ok {
			counts.Malformed++
			continue
		}
		if _, dup := seen[part.SKU]; dup {
			counts.Duplicates++
			continue
		}
		seen[part.SKU] = struct{}{}
		accepted = append(accepted, part)
	}
	counts.Imported = len(accepted)

	im.metrics.ImportRows("duplicate", counts.Duplicates)
	im.metrics.ImportRows("malformed", counts.Malformed)
	if len(accepted) == 0 {
		return counts, &domain.ImportError{Duplicates: counts.Duplicates, Malformed: counts.Malformed}
	}

	if err := im.parts.SaveAll(ctx, append(existing, accepted...)); err != nil {
		return dto.ImportCounts{}, err
	}
	im.metrics.ImportRows("imported", counts.Imported)
	im.log.Info().Int("imported", counts.Imported).Int("duplicates", counts.Duplicates).
		Int("malformed", counts.Malformed).Msg("importación confirmada")
	return counts, nil
}

// parseRow valida una fila y la convierte en pieza normalizada.
func (im *Importer) parseRow(fields []string) (entity.Part, bool) {
	if len(fields) < importColumnCount {
		return entity.Part{}, false
	}
	if fields[colName] == "" || fields[colSKU] == "" || fields[colLocation] == "" {
		return entity.Part{}, false
	}
	qty, ok := parseQuantity(fields[colQuantity])
	if !ok {
		return entity.Part{}, false
	}
	part, err := im.validator.Part(entity.Part{
		ID:           im.newID(),
		Name:         fields[colName],
		SKU:          fields[colSKU],
		Category:     fields[colCategory],
		Footprint:    fields[colFootprint],
		Location:     fields[colLocation],
		Quantity:     qty,
		MPN:          fields[colMPN],
		DatasheetURL: fields[colDatasheet],
	})
	if err != nil {
		im.log.Debug().Err(err).Str("sku", fields[colSKU]).Msg("fila descartada")
		return entity.Part{}, false
	}
	return part, true
}

// splitRows separa en líneas y descarta las vacías.
func splitRows(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	rows := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		rows = append(rows, l)
	}
	return rows
}

// detectDelimiter tabulador solo si hay estrictamente más tabuladores que comas en la primera fila.
func detectDelimiter(first string) string {
	if strings.Count(first, "\t") > strings.Count(first, ",") {
		return "\t"
	}
	return ","
}

func splitFields(row, delim string) []string {
	fields := strings.Split(row, delim)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// isHeader la primera fila se omite si le faltan columnas o si su celda de SKU es el
// nombre de la columna; cualquier otra primera fila se procesa como dato.
func isHeader(fields []string) bool {
	if len(fields) < importColumnCount {
		return true
	}
	return strings.EqualFold(fields[colSKU], ImportColumns[colSKU])
}

// parseQuantity entero no negativo; acepta dígitos persas.
func parseQuantity(s string) (int, bool) {
	n, err := strconv.Atoi(faformat.ToLatinDigits(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
