package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// partSKUIndex índice único de SKU del catálogo (schema.sql).
const partSKUIndex = "collection_records_part_sku"

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isSKUViolation la violación viene del índice de SKU, no de la clave (kind, position).
func isSKUViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == partSKUIndex
}

// conflictingSKU extrae el SKU del detalle de la violación del índice de SKU:
// `Key ((doc ->> 'sku'::text))=(R-10K) already exists.`
func conflictingSKU(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	detail := pgErr.Detail
	start := strings.LastIndex(detail, ")=(")
	end := strings.LastIndex(detail, ")")
	if start < 0 || end <= start+3 {
		return ""
	}
	return detail[start+3 : end]
}
