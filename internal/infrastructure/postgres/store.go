package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/anbar-api/internal/domain"
	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/repository"
)

//go:embed schema.sql
var schemaSQL string

// notifyChannel canal LISTEN/NOTIFY por el que se avisa qué colección cambió.
const notifyChannel = "anbar_changes"

// insertChunk filas por INSERT (3 parámetros por fila, lejos del límite de 65535).
const insertChunk = 1000

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store colecciones en PostgreSQL: una fila JSONB por registro en collection_records.
// Reemplazar una colección es DELETE + INSERT dentro de una transacción.
type Store struct {
	pool *pgxpool.Pool
	tx   *TxRunner
	log  zerolog.Logger
}

var (
	_ repository.CollectionStore = (*Store)(nil)
	_ repository.BatchStore      = (*Store)(nil)
	_ repository.ChangeNotifier  = (*Store)(nil)
)

// NewStore construye el store sobre un pool abierto.
func NewStore(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{pool: pool, tx: NewTxRunner(pool), log: log.With().Str("component", "postgres").Logger()}
}

// Migrate crea la tabla e índices si no existen.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}

// Load devuelve los registros en el orden guardado.
func (s *Store) Load(ctx context.Context, kind entity.Kind) ([]json.RawMessage, error) {
	query, args, err := psql.Select("doc").
		From("collection_records").
		Where(sq.Eq{"kind": kind.String()}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	defer rows.Close()

	records := make([]json.RawMessage, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		records = append(records, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	return records, nil
}

// Save reemplaza la colección.
func (s *Store) Save(ctx context.Context, kind entity.Kind, records []json.RawMessage) error {
	return s.SaveBatch(ctx, repository.Write{Kind: kind, Records: records})
}

// SaveBatch reemplaza varias colecciones en una sola transacción y avisa por NOTIFY al confirmar.
func (s *Store) SaveBatch(ctx context.Context, writes ...repository.Write) error {
	return s.tx.Run(ctx, func(q Querier) error {
		for _, w := range writes {
			if err := replace(ctx, q, w); err != nil {
				return err
			}
			// pg_notify dentro de la tx: se entrega solo si hay commit.
			if _, err := q.Exec(ctx, "SELECT pg_notify($1, $2)", notifyChannel, w.Kind.String()); err != nil {
				return fmt.Errorf("notify %s: %w", w.Kind, err)
			}
		}
		return nil
	})
}

func replace(ctx context.Context, q Querier, w repository.Write) error {
	query, args, err := psql.Delete("collection_records").Where(sq.Eq{"kind": w.Kind.String()}).ToSql()
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s: %w", w.Kind, err)
	}

	for start := 0; start < len(w.Records); start += insertChunk {
		end := min(start+insertChunk, len(w.Records))
		ins := psql.Insert("collection_records").Columns("kind", "position", "doc")
		for i := start; i < end; i++ {
			ins = ins.Values(w.Kind.String(), i, []byte(w.Records[i]))
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, query, args...); err != nil {
			if w.Kind == entity.KindParts && isSKUViolation(err) {
				return &domain.DuplicateSKUError{SKU: conflictingSKU(err)}
			}
			if isUniqueViolation(err) {
				return fmt.Errorf("insert %s: escritura concurrente: %w", w.Kind, err)
			}
			return fmt.Errorf("insert %s: %w", w.Kind, err)
		}
	}
	return nil
}
